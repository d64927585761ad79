package lookup

import (
	"iter"

	"github.com/solatis/spellcore/internal/rules"
	"github.com/solatis/spellcore/internal/types"
)

// Desuffix yields every (stem, suffix chain) reachable from word by stripping
// one suffix, or two when opts.Nested is false. The suffix index is keyed by
// reversed text, so the lookup uses reverse(word).
func Desuffix(rs *rules.RuleSet, word string, opts Options) iter.Seq[AffixForm] {
	return func(yield func(AffixForm) bool) {
		for _, group := range rs.Suffixes.Segments(types.Reverse(word)) {
			for _, suffix := range group {
				if !GoodAffix(suffix, word, opts) {
					continue
				}
				stem := suffix.Stem(word)
				if !yield(AffixForm{Text: word, Stem: stem, Suffix: suffix}) {
					return
				}
				if opts.Nested {
					continue
				}

				// Nested is forced: suffix chains stop at two levels.
				inner := Options{
					Required:     suffix.Flags.Union(opts.Required),
					Forbidden:    opts.Forbidden,
					Nested:       true,
					Crossproduct: opts.Crossproduct,
				}
				for form := range Desuffix(rs, stem, inner) {
					if !yield(form.withOuterSuffix(word, suffix)) {
						return
					}
				}
			}
		}
	}
}
