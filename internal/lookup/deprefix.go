package lookup

import (
	"iter"

	"github.com/solatis/spellcore/internal/rules"
)

// maxPrefixLevels is the number of prefix slots an AffixForm carries.
const maxPrefixLevels = 2

// Deprefix yields every (stem, prefix chain) reachable from word by stripping
// prefixes. A second prefix level is only searched when the rule set enables
// complex prefixes and the call is not nested.
//
// Unlike Desuffix, the recursive options do not force Nested; the inner call
// inherits the caller's value and the level count bounds the descent.
func Deprefix(rs *rules.RuleSet, word string, opts Options) iter.Seq[AffixForm] {
	return deprefix(rs, word, opts, 1)
}

func deprefix(rs *rules.RuleSet, word string, opts Options, level int) iter.Seq[AffixForm] {
	return func(yield func(AffixForm) bool) {
		for _, group := range rs.Prefixes.Segments(word) {
			for _, prefix := range group {
				if !GoodAffix(prefix, word, opts) {
					continue
				}
				stem := prefix.Stem(word)
				if !yield(AffixForm{Text: word, Stem: stem, Prefix: prefix}) {
					return
				}
				if opts.Nested || !rs.ComplexPrefixes || level >= maxPrefixLevels {
					continue
				}

				inner := Options{
					Required:     prefix.Flags.Union(opts.Required),
					Forbidden:    opts.Forbidden,
					Nested:       opts.Nested,
					Crossproduct: opts.Crossproduct,
				}
				for form := range deprefix(rs, stem, inner, level+1) {
					if !yield(form.withOuterPrefix(word, prefix)) {
						return
					}
				}
			}
		}
	}
}
