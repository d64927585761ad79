// internal/lookup/checker.go
package lookup

import (
	"context"
	"iter"

	"github.com/solatis/spellcore/internal/rules"
	"github.com/solatis/spellcore/internal/types"
)

/*
 * Dictionary lookup over decomposition candidates.
 *
 * Check drives BreakWord, then for each fragment pulls candidates lazily and
 * stops at the first accepted one. Fragment results are shared across
 * partitions of the same word. Candidate order per fragment:
 *   1. The fragment itself as a bare stem
 *   2. Desuffix with the crossproduct override on (suffix-only forms)
 *   3. Deprefix (prefix-only forms)
 *   4. Deprefix, then Desuffix on its stem with the override off, for
 *      prefixes marked crossproduct (prefix+suffix forms)
 *
 * Acceptance: the stem is a dictionary entry, the entry carries no forbidden
 * flag, and it carries every flag of every applied affix.
 */

// Dictionary is the stem store consulted by Checker.
// rules.Dictionary satisfies it.
type Dictionary interface {
	Lookup(word string) (types.FlagSet, bool)
}

// Analysis is the accepted decomposition of a checked word.
type Analysis struct {
	Word      string
	Fragments []string    // the accepted partition from BreakWord
	Forms     []AffixForm // one accepted form per fragment
}

// Checker accepts or rejects words against a rule set and dictionary.
// Safe for concurrent use; it holds no mutable state.
type Checker struct {
	rs   *rules.RuleSet
	dict Dictionary
	base Options
}

// NewChecker builds a checker. Affixes and entries carrying a forbidden flag
// are never accepted.
func NewChecker(rs *rules.RuleSet, dict Dictionary, forbidden types.FlagSet) *Checker {
	if forbidden == nil {
		forbidden = types.FlagSet{}
	}
	return &Checker{
		rs:   rs,
		dict: dict,
		base: Options{
			Required:  rs.Flags,
			Forbidden: forbidden,
		},
	}
}

// Check reports whether word is correct and, if so, how it was analysed.
func (c *Checker) Check(word string) (Analysis, bool) {
	analysis, ok, _ := c.CheckContext(context.Background(), word)
	return analysis, ok
}

// CheckContext is Check with cancellation. ctx is consulted once per
// BreakWord partition; each distinct fragment is analysed at most once.
func (c *Checker) CheckContext(ctx context.Context, word string) (Analysis, bool, error) {
	if word == "" {
		return Analysis{}, false, nil
	}

	type result struct {
		form AffixForm
		ok   bool
	}
	seen := make(map[string]result)

	for parts := range BreakWord(c.rs, word) {
		if err := ctx.Err(); err != nil {
			return Analysis{}, false, err
		}
		forms := make([]AffixForm, 0, len(parts))
		accepted := true
		for _, part := range parts {
			r, ok := seen[part]
			if !ok {
				r.form, r.ok = c.Analyze(part)
				seen[part] = r
			}
			if !r.ok {
				accepted = false
				break
			}
			forms = append(forms, r.form)
		}
		if accepted {
			return Analysis{Word: word, Fragments: parts, Forms: forms}, true, nil
		}
	}
	return Analysis{}, false, nil
}

// Analyze returns the first accepted candidate for a single fragment.
func (c *Checker) Analyze(fragment string) (AffixForm, bool) {
	if fragment == "" {
		return AffixForm{}, false
	}
	for form := range c.Candidates(fragment) {
		if c.accept(form) {
			return form, true
		}
	}
	return AffixForm{}, false
}

// Candidates yields every decomposition of fragment in acceptance order.
func (c *Checker) Candidates(fragment string) iter.Seq[AffixForm] {
	return func(yield func(AffixForm) bool) {
		if !yield(AffixForm{Text: fragment, Stem: fragment}) {
			return
		}

		suffixOpts := c.base
		suffixOpts.Crossproduct = true
		for form := range Desuffix(c.rs, fragment, suffixOpts) {
			if !yield(form) {
				return
			}
		}

		for form := range Deprefix(c.rs, fragment, c.base) {
			if !yield(form) {
				return
			}
		}

		for pform := range Deprefix(c.rs, fragment, c.base) {
			if pform.Prefix2 != nil || !pform.Prefix.Crossproduct {
				continue
			}
			for sform := range Desuffix(c.rs, pform.Stem, c.base) {
				combined := AffixForm{
					Text:    fragment,
					Stem:    sform.Stem,
					Prefix:  pform.Prefix,
					Suffix:  sform.Suffix,
					Suffix2: sform.Suffix2,
				}
				if !yield(combined) {
					return
				}
			}
		}
	}
}

func (c *Checker) accept(form AffixForm) bool {
	flags, ok := c.dict.Lookup(form.Stem)
	if !ok {
		return false
	}
	for f := range flags {
		if c.base.Forbidden.Has(f) {
			return false
		}
	}
	for _, a := range form.Affixes() {
		if !flags.ContainsAll(a.Flags) {
			return false
		}
	}
	return true
}
