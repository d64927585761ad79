package lookup

import (
	"iter"
	"testing"

	"github.com/solatis/spellcore/internal/rules"
	"github.com/solatis/spellcore/internal/types"
)

// mustRuleSet compiles def or fails the test.
func mustRuleSet(t *testing.T, def *types.RuleSetDef) *rules.RuleSet {
	t.Helper()
	if def.Name == "" {
		def.Name = t.Name()
	}
	rs, err := rules.CompileRuleSet(def)
	if err != nil {
		t.Fatalf("CompileRuleSet() error = %v, want nil", err)
	}
	return rs
}

func suffix(flag types.Flag, strip, add, cond string, cross bool) types.AffixDef {
	return types.AffixDef{
		Kind:         types.AffixSuffix,
		Flags:        []types.Flag{flag},
		Strip:        strip,
		Add:          add,
		Condition:    cond,
		Crossproduct: cross,
	}
}

func prefix(flag types.Flag, strip, add, cond string, cross bool) types.AffixDef {
	return types.AffixDef{
		Kind:         types.AffixPrefix,
		Flags:        []types.Flag{flag},
		Strip:        strip,
		Add:          add,
		Condition:    cond,
		Crossproduct: cross,
	}
}

func collectForms(seq iter.Seq[AffixForm]) []AffixForm {
	var out []AffixForm
	for f := range seq {
		out = append(out, f)
	}
	return out
}

func collectBreaks(seq iter.Seq[[]string]) [][]string {
	var out [][]string
	for parts := range seq {
		out = append(out, parts)
	}
	return out
}

func equalParts(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
