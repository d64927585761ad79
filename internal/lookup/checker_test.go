package lookup

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/solatis/spellcore/internal/rules"
	"github.com/solatis/spellcore/internal/types"
)

func checkerRuleSet(t *testing.T) *rules.RuleSet {
	return mustRuleSet(t, &types.RuleSetDef{
		Name:            "checker",
		BreakPatterns:   []string{"-"},
		ComplexPrefixes: true,
		Affixes: []types.AffixDef{
			suffix("G", "", "ing", ".", true),
			suffix("S", "", "s", ".", true),
			suffix("Y", "y", "ied", "[^aeiou]y", false),
			prefix("U", "", "un", ".", true),
			prefix("R", "", "re", ".", false),
		},
		Dictionary: []types.DictEntry{
			{Word: "walk", Flags: []types.Flag{"G", "S", "U"}},
			{Word: "carry", Flags: []types.Flag{"Y"}},
			{Word: "do", Flags: []types.Flag{"R", "U"}},
			{Word: "talk", Flags: []types.Flag{"G"}},
			{Word: "bad", Flags: []types.Flag{"X"}},
		},
	})
}

func TestChecker_Check(t *testing.T) {
	rs := checkerRuleSet(t)
	c := NewChecker(rs, rs.Dictionary, types.NewFlagSet("X"))

	tests := []struct {
		word string
		want bool
	}{
		{"walk", true},
		{"walking", true},
		{"walks", true},
		{"carried", true},
		{"talking", true},
		{"talks", false},    // talk does not carry S
		{"redo", true},      // single prefix
		{"unredo", true},    // complex prefixes
		{"unwalking", true}, // prefix + crossproduct suffix
		{"untalking", false},
		{"walk-talk", true},
		{"walk-", false}, // empty trailing fragment
		{"bad", false},   // entry carries a forbidden flag
		{"xyzzy", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			_, got := c.Check(tt.word)
			if got != tt.want {
				t.Errorf("Check(%q) = %v, want %v", tt.word, got, tt.want)
			}
		})
	}
}

func TestChecker_AnalysisRecordsForms(t *testing.T) {
	rs := checkerRuleSet(t)
	c := NewChecker(rs, rs.Dictionary, nil)

	analysis, ok := c.Check("walking-carried")
	if !ok {
		t.Fatal("Check(walking-carried) = false, want true")
	}
	if len(analysis.Fragments) != 2 {
		t.Fatalf("Fragments = %q, want 2 fragments", analysis.Fragments)
	}
	if len(analysis.Forms) != 2 {
		t.Fatalf("len(Forms) = %v, want 2", len(analysis.Forms))
	}
	if analysis.Forms[0].Stem != "walk" || analysis.Forms[1].Stem != "carry" {
		t.Errorf("stems = %q, %q, want walk, carry", analysis.Forms[0].Stem, analysis.Forms[1].Stem)
	}
	for _, f := range analysis.Forms {
		got, ok := f.Replay()
		if !ok || got != f.Text {
			t.Errorf("Replay(%v) = %q, %v, want %q", f, got, ok, f.Text)
		}
	}
}

func TestChecker_BareStemFirst(t *testing.T) {
	rs := checkerRuleSet(t)
	c := NewChecker(rs, rs.Dictionary, nil)

	for form := range c.Candidates("walking") {
		if form.Stem != "walking" || len(form.Affixes()) != 0 {
			t.Errorf("first candidate = %v, want bare walking", form)
		}
		break
	}
}

func TestChecker_CombinedFormReplays(t *testing.T) {
	rs := checkerRuleSet(t)
	c := NewChecker(rs, rs.Dictionary, nil)

	form, ok := c.Analyze("unwalking")
	if !ok {
		t.Fatal("Analyze(unwalking) = false, want true")
	}
	if form.Stem != "walk" || form.Prefix == nil || form.Suffix == nil {
		t.Errorf("Analyze(unwalking) = %v, want un- + walk + -ing", form)
	}
	got, ok := form.Replay()
	if !ok || got != "unwalking" {
		t.Errorf("Replay() = %q, %v, want unwalking", got, ok)
	}
}

func hyphenRuleSet(t *testing.T) *rules.RuleSet {
	return mustRuleSet(t, &types.RuleSetDef{
		BreakPatterns: []string{"-"},
		Dictionary:    []types.DictEntry{{Word: "ok"}},
	})
}

func TestChecker_CheckContextCanceled(t *testing.T) {
	rs := hyphenRuleSet(t)
	c := NewChecker(rs, rs.Dictionary, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	word := strings.Repeat("ok-", 40) + "zz"
	_, ok, err := c.CheckContext(ctx, word)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("CheckContext() error = %v, want %v", err, context.Canceled)
	}
	if ok {
		t.Error("CheckContext() = true on canceled context, want false")
	}
}

func TestChecker_CheckContextManyPartitions(t *testing.T) {
	rs := hyphenRuleSet(t)
	c := NewChecker(rs, rs.Dictionary, nil)

	tests := []struct {
		word string
		want bool
	}{
		{strings.Repeat("ok-", types.MaxBreakDepth) + "ok", true},
		{strings.Repeat("ok-", 12) + "zz", false},
	}

	for _, tt := range tests {
		t.Run(tt.word[len(tt.word)-2:], func(t *testing.T) {
			_, got, err := c.CheckContext(context.Background(), tt.word)
			if err != nil {
				t.Fatalf("CheckContext() error = %v, want nil", err)
			}
			if got != tt.want {
				t.Errorf("CheckContext() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChecker_CheckContextDeadline(t *testing.T) {
	rs := hyphenRuleSet(t)
	c := NewChecker(rs, rs.Dictionary, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, _, err := c.CheckContext(ctx, strings.Repeat("ok-", 80)+"zz")
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("CheckContext() error = %v, want nil or %v", err, context.DeadlineExceeded)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("CheckContext() took %v after a 50ms deadline", elapsed)
	}
}
