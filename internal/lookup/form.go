// Package lookup implements the decomposition core: word breaking, affix
// filtering and suffix/prefix stripping, plus the dictionary Checker that
// consumes them.
//
// Every producer is an iter.Seq. Callers stop a search by breaking out of
// their range loop; nothing is held across yields beyond references into the
// immutable rules.RuleSet, so one rule set can serve many goroutines.
package lookup

import (
	"fmt"
	"strings"

	"github.com/solatis/spellcore/internal/rules"
	"github.com/solatis/spellcore/internal/types"
)

// Options carries the per-call flag constraints. It is a value: recursive
// calls build a new Options instead of modifying the caller's.
type Options struct {
	Required     types.FlagSet // every affix flag must be in this set
	Forbidden    types.FlagSet // no affix flag may be in this set
	Nested       bool          // already inside one level of stripping
	Crossproduct bool          // admit suffixes not marked crossproduct
}

// AffixForm is one candidate analysis of Text: Stem plus the affixes removed
// to reach it. Prefix/Suffix are the inner slots (closest to the stem),
// Prefix2/Suffix2 the outer ones.
type AffixForm struct {
	Text    string
	Stem    string
	Prefix  *rules.Affix
	Prefix2 *rules.Affix
	Suffix  *rules.Affix
	Suffix2 *rules.Affix
}

// withOuterSuffix relabels a nested form as an analysis of text with outer
// as the outer suffix. The receiver is a copy; the caller's form is untouched.
func (f AffixForm) withOuterSuffix(text string, outer *rules.Affix) AffixForm {
	f.Text = text
	f.Suffix2 = outer
	return f
}

// withOuterPrefix is the prefix counterpart of withOuterSuffix.
func (f AffixForm) withOuterPrefix(text string, outer *rules.Affix) AffixForm {
	f.Text = text
	f.Prefix2 = outer
	return f
}

// Affixes returns the applied affixes in replay order: inner suffix, outer
// suffix, inner prefix, outer prefix. Empty slots are skipped.
func (f AffixForm) Affixes() []*rules.Affix {
	out := make([]*rules.Affix, 0, 4)
	for _, a := range []*rules.Affix{f.Suffix, f.Suffix2, f.Prefix, f.Prefix2} {
		if a != nil {
			out = append(out, a)
		}
	}
	return out
}

// Replay applies the recorded chain to Stem and returns the resulting word.
// For every form produced by this package the result equals Text.
func (f AffixForm) Replay() (string, bool) {
	word := f.Stem
	for _, a := range f.Affixes() {
		next, ok := a.Apply(word)
		if !ok {
			return "", false
		}
		word = next
	}
	return word, true
}

// String renders the form as "prefix2+prefix+stem+suffix+suffix2".
func (f AffixForm) String() string {
	var parts []string
	if f.Prefix2 != nil {
		parts = append(parts, f.Prefix2.Add+"-")
	}
	if f.Prefix != nil {
		parts = append(parts, f.Prefix.Add+"-")
	}
	parts = append(parts, f.Stem)
	if f.Suffix != nil {
		parts = append(parts, "-"+f.Suffix.Add)
	}
	if f.Suffix2 != nil {
		parts = append(parts, "-"+f.Suffix2.Add)
	}
	return fmt.Sprintf("%s => %s", f.Text, strings.Join(parts, "+"))
}
