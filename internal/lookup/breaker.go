package lookup

import (
	"iter"

	"github.com/solatis/spellcore/internal/rules"
	"github.com/solatis/spellcore/internal/types"
)

// BreakWord yields every partition of text allowed by the rule set's break
// patterns. The unbroken [text] always comes first. Partitions are produced
// depth-first: patterns in rule-set order, matches left to right.
func BreakWord(rs *rules.RuleSet, text string) iter.Seq[[]string] {
	return breakWord(rs, text, 0)
}

func breakWord(rs *rules.RuleSet, text string, depth int) iter.Seq[[]string] {
	return func(yield func([]string) bool) {
		// Checked before the first yield: past the bound a branch yields nothing.
		if depth > types.MaxBreakDepth {
			return
		}
		if !yield([]string{text}) {
			return
		}
		for _, pattern := range rs.BreakPatterns {
			for _, m := range pattern.FindAllStringIndex(text, -1) {
				start := text[:m[0]]
				for rest := range breakWord(rs, text[m[1]:], depth+1) {
					parts := make([]string, 0, len(rest)+1)
					parts = append(parts, start)
					parts = append(parts, rest...)
					if !yield(parts) {
						return
					}
				}
			}
		}
	}
}
