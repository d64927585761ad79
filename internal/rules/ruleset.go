// internal/rules/ruleset.go
package rules

import (
	"regexp"

	"github.com/solatis/spellcore/internal/types"
)

// RuleSet is a compiled, read-only rule set. Safe to share across goroutines
// once CompileRuleSet returns.
type RuleSet struct {
	ID              types.RuleSetID
	Name            string
	BreakPatterns   []*regexp.Regexp // tried in declaration order
	ComplexPrefixes bool             // permit a second prefix level
	Prefixes        CandidateIndex   // keyed by Add
	Suffixes        CandidateIndex   // keyed by reverse(Add)
	Flags           types.FlagSet    // every flag declared by any affix
	Dictionary      Dictionary       // stems accepted by lookup.Checker
}

// Dictionary maps a stem to the flags it accepts.
type Dictionary map[string]types.FlagSet

// NewDictionary builds a dictionary from entries. Duplicate words merge
// their flags.
func NewDictionary(entries []types.DictEntry) (Dictionary, error) {
	d := make(Dictionary, len(entries))
	for _, e := range entries {
		if e.Word == "" {
			return nil, types.ErrEmptyWord
		}
		for _, f := range e.Flags {
			if f == "" {
				return nil, types.ErrEmptyFlag
			}
		}
		d[e.Word] = d[e.Word].Union(types.NewFlagSet(e.Flags...))
	}
	return d, nil
}

// Lookup returns the flags of word and whether it is a dictionary stem.
func (d Dictionary) Lookup(word string) (types.FlagSet, bool) {
	flags, ok := d[word]
	return flags, ok
}
