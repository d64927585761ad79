package types

import "errors"

// Sentinel errors for spellcore operations.
var (
	// ErrUnknownAffixKind indicates an affix that is neither prefix nor suffix.
	ErrUnknownAffixKind = errors.New("unknown affix kind")

	// ErrEmptyFlag indicates an affix or dictionary entry carrying an empty flag.
	ErrEmptyFlag = errors.New("flag must not be empty")

	// ErrTooManyFlags indicates an affix exceeds MaxFlagsPerAffix.
	ErrTooManyFlags = errors.New("affix has too many flags")

	// ErrInvalidCondition indicates an affix condition that cannot be compiled.
	ErrInvalidCondition = errors.New("invalid affix condition")

	// ErrInvalidBreakPattern indicates a break pattern that is not a valid regexp.
	ErrInvalidBreakPattern = errors.New("invalid break pattern")

	// ErrTooManyBreakPatterns indicates a rule set exceeds MaxBreakPatterns.
	ErrTooManyBreakPatterns = errors.New("rule set has too many break patterns")

	// ErrTooManyAffixes indicates a rule set exceeds MaxAffixes.
	ErrTooManyAffixes = errors.New("rule set has too many affixes")

	// ErrEmptyRuleSetName indicates a rule set without a name.
	ErrEmptyRuleSetName = errors.New("rule set name is empty")

	// ErrEmptyWord indicates an empty word or dictionary entry.
	ErrEmptyWord = errors.New("word is empty")

	// ErrWordTooLong indicates a word exceeds MaxWordLength.
	ErrWordTooLong = errors.New("word exceeds maximum length")

	// ErrRuleSetNotFound indicates a rule set ID or name that is not known.
	ErrRuleSetNotFound = errors.New("rule set not found")

	// ErrDuplicateRuleSet indicates a rule set name that is already registered.
	ErrDuplicateRuleSet = errors.New("rule set already exists")
)
