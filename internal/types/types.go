// Package types provides domain models shared across spellcore components.
//
// Zero-dependency design: types.go, affix.go and errors.go use only the
// standard library so the decomposition core can be embedded without pulling
// in storage or transport deps. ID utilities in ids.go import uuid but are
// isolated for selective inclusion.
package types

// RuleSetID represents a UUIDv7 rule set identifier.
// String alias enables type safety while keeping text serialization trivial.
type RuleSetID string

// AffixID represents a UUIDv7 affix rule identifier.
type AffixID string

// Resource limits enforced when compiling rule sets and decomposing words.
const (
	// MaxBreakDepth bounds word-breaking recursion.
	// Depth 0..10 may yield, so the deepest partition has 11 fragments.
	MaxBreakDepth = 10

	// MaxAffixNesting caps affix chains per side: one inner and one outer slot.
	MaxAffixNesting = 2

	// MaxBreakPatterns limits break patterns per rule set.
	// Each pattern multiplies the breaker's fan-out at every depth level.
	MaxBreakPatterns = 64

	// MaxFlagsPerAffix limits flags carried by a single affix rule.
	MaxFlagsPerAffix = 64

	// MaxAffixes limits prefix plus suffix rules in one rule set.
	// Large real-world dictionaries (hu_HU, tr_TR) stay well below this.
	MaxAffixes = 1 << 17

	// MaxWordLength rejects pathological input at the service boundary.
	MaxWordLength = 256
)
