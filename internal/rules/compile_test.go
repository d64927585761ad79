// internal/rules/compile_test.go
package rules

import (
	"errors"
	"strings"
	"testing"

	"github.com/solatis/spellcore/internal/types"
)

func TestCompile_SimpleSuffix(t *testing.T) {
	a, err := Compile(types.AffixDef{
		ID:           "affix-001",
		Kind:         types.AffixSuffix,
		Flags:        []types.Flag{"G"},
		Add:          "ing",
		Condition:    ".",
		Crossproduct: true,
	})
	if err != nil {
		t.Fatalf("Compile() error = %v, want nil", err)
	}

	if a.ID != "affix-001" {
		t.Errorf("ID = %v, want %v", a.ID, "affix-001")
	}
	if !a.IsSuffix() || a.IsPrefix() {
		t.Errorf("Kind = %v, want suffix", a.Kind)
	}
	if !a.Flags.Has("G") {
		t.Errorf("Flags = %v, want G", a.Flags.Strings())
	}
	if !a.Matches("walking") {
		t.Error("Matches(walking) = false, want true")
	}
	if a.Matches("walk") {
		t.Error("Matches(walk) = true, want false")
	}
}

func TestCompile_ConditionDropsStrippedParts(t *testing.T) {
	tests := []struct {
		name  string
		def   types.AffixDef
		match []string
		miss  []string
	}{
		{
			name:  "suffix strip y",
			def:   types.AffixDef{Kind: types.AffixSuffix, Strip: "y", Add: "ied", Condition: "[^aeiou]y"},
			match: []string{"carried", "tried"},
			miss:  []string{"toied", "carry"},
		},
		{
			name:  "suffix strip covers whole condition",
			def:   types.AffixDef{Kind: types.AffixSuffix, Strip: "e", Add: "ing", Condition: "e"},
			match: []string{"making", "ing"},
			miss:  []string{"make"},
		},
		{
			name:  "suffix condition without strip",
			def:   types.AffixDef{Kind: types.AffixSuffix, Add: "es", Condition: "[sxz]"},
			match: []string{"boxes", "buzzes"},
			miss:  []string{"cares", "es"},
		},
		{
			name:  "prefix strip a",
			def:   types.AffixDef{Kind: types.AffixPrefix, Strip: "a", Add: "dis", Condition: "ab"},
			match: []string{"disble"},
			miss:  []string{"discount", "able"},
		},
		{
			name:  "prefix literal condition",
			def:   types.AffixDef{Kind: types.AffixPrefix, Add: "re", Condition: "[^e]"},
			match: []string{"redo"},
			miss:  []string{"reenter", "re"},
		},
		{
			name:  "special characters are literal",
			def:   types.AffixDef{Kind: types.AffixSuffix, Add: "'s", Condition: "+"},
			match: []string{"c+'s"},
			miss:  []string{"cc's"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Compile(tt.def)
			if err != nil {
				t.Fatalf("Compile() error = %v, want nil", err)
			}
			for _, w := range tt.match {
				if !a.Matches(w) {
					t.Errorf("Matches(%q) = false, want true", w)
				}
			}
			for _, w := range tt.miss {
				if a.Matches(w) {
					t.Errorf("Matches(%q) = true, want false", w)
				}
			}
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	tooMany := make([]types.Flag, types.MaxFlagsPerAffix+1)
	for i := range tooMany {
		tooMany[i] = types.Flag(strings.Repeat("f", i+1))
	}

	tests := []struct {
		name    string
		def     types.AffixDef
		wantErr error
	}{
		{"unknown kind", types.AffixDef{Add: "s"}, types.ErrUnknownAffixKind},
		{"empty flag", types.AffixDef{Kind: types.AffixSuffix, Flags: []types.Flag{""}}, types.ErrEmptyFlag},
		{"too many flags", types.AffixDef{Kind: types.AffixSuffix, Flags: tooMany}, types.ErrTooManyFlags},
		{"unbalanced bracket", types.AffixDef{Kind: types.AffixSuffix, Add: "s", Condition: "[ab"}, types.ErrInvalidCondition},
		{"empty class", types.AffixDef{Kind: types.AffixSuffix, Add: "s", Condition: "[]"}, types.ErrInvalidCondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.def)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Compile() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCompileRuleSet_BuildsIndices(t *testing.T) {
	rs, err := CompileRuleSet(&types.RuleSetDef{
		ID:              "rs-001",
		Name:            "en-mini",
		BreakPatterns:   []string{"-", "^'"},
		ComplexPrefixes: true,
		Affixes: []types.AffixDef{
			{Kind: types.AffixSuffix, Flags: []types.Flag{"G"}, Add: "ing"},
			{Kind: types.AffixSuffix, Flags: []types.Flag{"S"}, Add: "s"},
			{Kind: types.AffixPrefix, Flags: []types.Flag{"U"}, Add: "un"},
		},
		Dictionary: []types.DictEntry{{Word: "walk", Flags: []types.Flag{"G"}}},
	})
	if err != nil {
		t.Fatalf("CompileRuleSet() error = %v, want nil", err)
	}

	if rs.ID != "rs-001" || rs.Name != "en-mini" || !rs.ComplexPrefixes {
		t.Errorf("header = %v/%v/%v, want rs-001/en-mini/true", rs.ID, rs.Name, rs.ComplexPrefixes)
	}
	if len(rs.BreakPatterns) != 2 {
		t.Errorf("len(BreakPatterns) = %v, want 2", len(rs.BreakPatterns))
	}
	if got := rs.Flags.Strings(); strings.Join(got, ",") != "G,S,U" {
		t.Errorf("Flags = %v, want [G S U]", got)
	}

	groups := rs.Suffixes.Segments(types.Reverse("walking"))
	if len(groups) != 1 || groups[0][0].Add != "ing" {
		t.Errorf("Suffixes.Segments(gniklaw) = %v, want [[ing]]", groups)
	}
	groups = rs.Prefixes.Segments("undo")
	if len(groups) != 1 || groups[0][0].Add != "un" {
		t.Errorf("Prefixes.Segments(undo) = %v, want [[un]]", groups)
	}
	if _, ok := rs.Dictionary.Lookup("walk"); !ok {
		t.Error("Dictionary.Lookup(walk) = false, want true")
	}
}

func TestCompileRuleSet_Errors(t *testing.T) {
	tooMany := make([]string, types.MaxBreakPatterns+1)
	for i := range tooMany {
		tooMany[i] = "-"
	}

	tests := []struct {
		name    string
		def     *types.RuleSetDef
		wantErr error
	}{
		{"empty name", &types.RuleSetDef{}, types.ErrEmptyRuleSetName},
		{"invalid break pattern", &types.RuleSetDef{Name: "x", BreakPatterns: []string{"(("}}, types.ErrInvalidBreakPattern},
		{"too many break patterns", &types.RuleSetDef{Name: "x", BreakPatterns: tooMany}, types.ErrTooManyBreakPatterns},
		{"bad affix", &types.RuleSetDef{Name: "x", Affixes: []types.AffixDef{{Add: "s"}}}, types.ErrUnknownAffixKind},
		{"empty dictionary word", &types.RuleSetDef{Name: "x", Dictionary: []types.DictEntry{{}}}, types.ErrEmptyWord},
		{"empty dictionary flag", &types.RuleSetDef{Name: "x", Dictionary: []types.DictEntry{{Word: "a", Flags: []types.Flag{""}}}}, types.ErrEmptyFlag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileRuleSet(tt.def)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CompileRuleSet() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
