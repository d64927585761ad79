// internal/types/affix.go
package types

import (
	"fmt"
	"sort"
)

/*
 * Domain types for affix rule sets.
 *
 * Provides AffixDef, RuleSetDef, DictEntry and the Flag/FlagSet algebra used
 * by internal/rules for compilation and internal/lookup for decomposition.
 * These types are storage-format agnostic: YAML and SQL conversion happen in
 * internal/rulefile and internal/core/db.
 *
 * Key types:
 *   - AffixKind: tagged variant (prefix | suffix) carried by each rule
 *   - FlagSet: immutable-by-convention set of opaque flags
 *   - AffixDef: raw prefix/suffix transformation before compilation
 *   - RuleSetDef: break patterns, complex-prefix switch, affixes, dictionary
 */

// AffixKind discriminates prefix rules from suffix rules.
type AffixKind int

const (
	AffixUnspecified AffixKind = iota
	AffixPrefix
	AffixSuffix
)

// String returns the storage name of the kind ("prefix", "suffix").
func (k AffixKind) String() string {
	switch k {
	case AffixPrefix:
		return "prefix"
	case AffixSuffix:
		return "suffix"
	default:
		return "unspecified"
	}
}

// ParseAffixKind converts a storage name back to an AffixKind.
func ParseAffixKind(s string) (AffixKind, error) {
	switch s {
	case "prefix":
		return AffixPrefix, nil
	case "suffix":
		return AffixSuffix, nil
	default:
		return AffixUnspecified, fmt.Errorf("%w: %q", ErrUnknownAffixKind, s)
	}
}

// Flag is an opaque affix identifier (single character or short code).
type Flag string

// FlagSet is a set of flags. Treated as immutable once built: Union returns a
// new set and never touches its receiver.
type FlagSet map[Flag]struct{}

// NewFlagSet builds a set from the given flags.
func NewFlagSet(flags ...Flag) FlagSet {
	s := make(FlagSet, len(flags))
	for _, f := range flags {
		s[f] = struct{}{}
	}
	return s
}

// Has reports whether f is in the set. Safe on a nil set.
func (s FlagSet) Has(f Flag) bool {
	_, ok := s[f]
	return ok
}

// Union returns a new set holding the flags of both sets.
func (s FlagSet) Union(other FlagSet) FlagSet {
	out := make(FlagSet, len(s)+len(other))
	for f := range s {
		out[f] = struct{}{}
	}
	for f := range other {
		out[f] = struct{}{}
	}
	return out
}

// ContainsAll reports whether every flag of other is in s.
func (s FlagSet) ContainsAll(other FlagSet) bool {
	for f := range other {
		if !s.Has(f) {
			return false
		}
	}
	return true
}

// Sorted returns the flags in lexical order for deterministic output.
func (s FlagSet) Sorted() []Flag {
	out := make([]Flag, 0, len(s))
	for f := range s {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Strings returns the sorted flags as plain strings.
func (s FlagSet) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, f := range sorted {
		out[i] = string(f)
	}
	return out
}

// AffixDef is one prefix or suffix transformation as loaded from a rule file
// or the database.
type AffixDef struct {
	ID           AffixID   // empty until persisted
	Kind         AffixKind // prefix or suffix
	Flags        []Flag    // flags carried by the affix
	Strip        string    // removed from the stem edge when the affix attaches
	Add          string    // appended (suffix) or prepended (prefix) to the stripped stem
	Condition    string    // Hunspell condition on the stem edge ("." = any)
	Crossproduct bool      // suffix may combine with an already stripped prefix
}

// DictEntry is one dictionary stem with the flags it accepts.
type DictEntry struct {
	Word  string
	Flags []Flag
}

// RuleSetDef is a complete rule set definition for compilation.
type RuleSetDef struct {
	ID              RuleSetID   // empty until persisted
	Name            string      // unique human-readable name
	BreakPatterns   []string    // regexps, tried in order
	ComplexPrefixes bool        // allow two-level prefix stripping
	Affixes         []AffixDef  // prefixes and suffixes in declaration order
	Dictionary      []DictEntry // stems accepted by the checker
}

// Reverse returns s with its runes in reverse order.
// Suffix indices are keyed over reversed text.
func Reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}
