// internal/rules/affix.go
package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/solatis/spellcore/internal/types"
)

// Affix is a compiled prefix or suffix rule. Owned by its RuleSet and shared
// by reference; never mutated after Compile returns.
type Affix struct {
	ID           types.AffixID
	Kind         types.AffixKind
	Flags        types.FlagSet
	Strip        string
	Add          string
	Condition    string
	Crossproduct bool

	lookup *regexp.Regexp // condition + add, anchored at the affix edge
}

// IsSuffix reports whether the affix attaches at the end of a stem.
func (a *Affix) IsSuffix() bool { return a.Kind == types.AffixSuffix }

// IsPrefix reports whether the affix attaches at the start of a stem.
func (a *Affix) IsPrefix() bool { return a.Kind == types.AffixPrefix }

// Matches reports whether word could have been produced by this affix:
// it carries Add at the right edge and the remaining stem satisfies the
// condition. Panics on an affix that did not come from Compile.
func (a *Affix) Matches(word string) bool {
	if a.lookup == nil {
		panic(fmt.Sprintf("rules: affix %s used before compilation", a))
	}
	return a.lookup.MatchString(word)
}

// Stem reverses the affix on word: removes Add and restores Strip.
// Callers check Matches first; a word not carrying Add is returned unchanged.
func (a *Affix) Stem(word string) string {
	switch a.Kind {
	case types.AffixSuffix:
		if !strings.HasSuffix(word, a.Add) {
			return word
		}
		return word[:len(word)-len(a.Add)] + a.Strip
	case types.AffixPrefix:
		if !strings.HasPrefix(word, a.Add) {
			return word
		}
		return a.Strip + word[len(a.Add):]
	default:
		return word
	}
}

// Apply attaches the affix to stem: removes Strip and adds Add.
// Returns false when stem does not carry Strip at the affix edge.
// The condition is not re-checked.
func (a *Affix) Apply(stem string) (string, bool) {
	switch a.Kind {
	case types.AffixSuffix:
		if !strings.HasSuffix(stem, a.Strip) {
			return "", false
		}
		return stem[:len(stem)-len(a.Strip)] + a.Add, true
	case types.AffixPrefix:
		if !strings.HasPrefix(stem, a.Strip) {
			return "", false
		}
		return a.Add + stem[len(a.Strip):], true
	default:
		return "", false
	}
}

// String renders the affix in a compact Hunspell-like form, e.g. "SFX G 0 ing .".
func (a *Affix) String() string {
	tag := "PFX"
	if a.IsSuffix() {
		tag = "SFX"
	}
	strip, add, cond := a.Strip, a.Add, a.Condition
	if strip == "" {
		strip = "0"
	}
	if add == "" {
		add = "0"
	}
	if cond == "" {
		cond = "."
	}
	return fmt.Sprintf("%s %s %s %s %s", tag, strings.Join(a.Flags.Strings(), ","), strip, add, cond)
}
