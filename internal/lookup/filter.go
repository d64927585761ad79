package lookup

import "github.com/solatis/spellcore/internal/rules"

// GoodAffix reports whether affix may be stripped from word under opts.
//
// Suffixes need crossproduct permission, either from the caller or from the
// rule itself. Every flag the affix carries must be required and not
// forbidden. Finally the affix's lookup pattern must match word.
func GoodAffix(affix *rules.Affix, word string, opts Options) bool {
	if affix.IsSuffix() && !opts.Crossproduct && !affix.Crossproduct {
		return false
	}
	for f := range affix.Flags {
		if opts.Forbidden.Has(f) || !opts.Required.Has(f) {
			return false
		}
	}
	return affix.Matches(word)
}
