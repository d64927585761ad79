// internal/rules/compile.go
package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/solatis/spellcore/internal/types"
)

/*
 * Rule set compilation and validation.
 *
 * Compiles types.RuleSetDef to RuleSet with compiled affix lookup patterns,
 * compiled break patterns, and the prefix/suffix candidate indices consumed
 * by internal/lookup.
 *
 * Compilation workflow:
 *   1. Validate resource limits (break patterns, affix count, flags per affix)
 *   2. Split each Hunspell condition into parts ("[^aeiou]", "y", ".")
 *   3. Drop the parts covered by Strip (they describe text Add replaced)
 *   4. Build the lookup regexp: cond + add + "$" (suffix), "^" + add + cond (prefix)
 *   5. Insert suffixes under reverse(add), prefixes under add
 *
 * Malformed rules fail here. The decomposition core assumes every affix it
 * sees came out of Compile and never validates again.
 */

// conditionPart matches one Hunspell condition element: a bracket class or
// a single character.
var conditionPart = regexp.MustCompile(`\[[^\]]*\]|.`)

// Compile validates and compiles a single affix definition.
func Compile(def types.AffixDef) (*Affix, error) {
	if def.Kind != types.AffixPrefix && def.Kind != types.AffixSuffix {
		return nil, types.ErrUnknownAffixKind
	}
	if len(def.Flags) > types.MaxFlagsPerAffix {
		return nil, types.ErrTooManyFlags
	}
	for _, f := range def.Flags {
		if f == "" {
			return nil, types.ErrEmptyFlag
		}
	}

	cond, err := compileCondition(def.Kind, def.Condition, def.Strip)
	if err != nil {
		return nil, err
	}

	var pattern string
	if def.Kind == types.AffixSuffix {
		pattern = cond + regexp.QuoteMeta(def.Add) + "$"
	} else {
		pattern = "^" + regexp.QuoteMeta(def.Add) + cond
	}
	lookup, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", types.ErrInvalidCondition, def.Condition, err)
	}

	return &Affix{
		ID:           def.ID,
		Kind:         def.Kind,
		Flags:        types.NewFlagSet(def.Flags...),
		Strip:        def.Strip,
		Add:          def.Add,
		Condition:    def.Condition,
		Crossproduct: def.Crossproduct,
		lookup:       lookup,
	}, nil
}

// compileCondition turns a Hunspell condition into a regexp fragment for the
// stem edge that survives in the affixed word. Parts describing stripped
// characters are dropped: the last len(strip) parts for suffixes, the first
// len(strip) parts for prefixes.
func compileCondition(kind types.AffixKind, condition, strip string) (string, error) {
	if condition == "" || condition == "." {
		return "", nil
	}
	if strings.Count(condition, "[") != strings.Count(condition, "]") {
		return "", fmt.Errorf("%w: %q: unbalanced brackets", types.ErrInvalidCondition, condition)
	}

	parts := conditionPart.FindAllString(condition, -1)
	stripLen := len([]rune(strip))
	if stripLen >= len(parts) {
		return "", nil
	}
	if kind == types.AffixSuffix {
		parts = parts[:len(parts)-stripLen]
	} else {
		parts = parts[stripLen:]
	}

	var b strings.Builder
	for _, p := range parts {
		switch {
		case p == ".":
			b.WriteString(".")
		case strings.HasPrefix(p, "["):
			if len(p) < 3 || p == "[^]" {
				return "", fmt.Errorf("%w: %q: empty class", types.ErrInvalidCondition, condition)
			}
			b.WriteString(p)
		default:
			b.WriteString(regexp.QuoteMeta(p))
		}
	}
	return b.String(), nil
}

// CompileBreakPattern compiles a single break pattern.
// An empty pattern matches everywhere; the breaker's depth bound keeps it finite.
func CompileBreakPattern(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", types.ErrInvalidBreakPattern, pattern, err)
	}
	return re, nil
}

// CompileRuleSet validates and compiles a complete rule set definition.
func CompileRuleSet(def *types.RuleSetDef) (*RuleSet, error) {
	if def.Name == "" {
		return nil, types.ErrEmptyRuleSetName
	}
	if len(def.BreakPatterns) > types.MaxBreakPatterns {
		return nil, types.ErrTooManyBreakPatterns
	}
	if len(def.Affixes) > types.MaxAffixes {
		return nil, types.ErrTooManyAffixes
	}

	rs := &RuleSet{
		ID:              def.ID,
		Name:            def.Name,
		BreakPatterns:   make([]*regexp.Regexp, 0, len(def.BreakPatterns)),
		ComplexPrefixes: def.ComplexPrefixes,
		Flags:           types.FlagSet{},
	}

	for _, p := range def.BreakPatterns {
		re, err := CompileBreakPattern(p)
		if err != nil {
			return nil, err
		}
		rs.BreakPatterns = append(rs.BreakPatterns, re)
	}

	prefixes := NewIndex()
	suffixes := NewIndex()
	for i, ad := range def.Affixes {
		a, err := Compile(ad)
		if err != nil {
			return nil, fmt.Errorf("affix %d (%s %q): %w", i, ad.Kind, ad.Add, err)
		}
		if a.IsSuffix() {
			suffixes.Insert(types.Reverse(a.Add), a)
		} else {
			prefixes.Insert(a.Add, a)
		}
		for f := range a.Flags {
			rs.Flags[f] = struct{}{}
		}
	}
	rs.Prefixes = prefixes
	rs.Suffixes = suffixes

	dict, err := NewDictionary(def.Dictionary)
	if err != nil {
		return nil, err
	}
	rs.Dictionary = dict

	return rs, nil
}
