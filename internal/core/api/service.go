// Package api provides the gRPC lookup service over compiled rule sets.
package api

import (
	"fmt"
	"unicode/utf8"

	"github.com/solatis/spellcore/internal/core/config"
	"github.com/solatis/spellcore/internal/rules"
	"github.com/solatis/spellcore/internal/types"
	"go.uber.org/zap"
)

// defaultLimit caps Decompose and BreakWord results when a request sets none.
const defaultLimit = 100

// LookupService implements LookupServer.
// Thin orchestration layer delegating to the rules engine and lookup core.
type LookupService struct {
	engine *rules.Engine
	cfg    *config.Config
	logger *zap.Logger
}

// NewLookupService creates service instance with dependencies.
func NewLookupService(engine *rules.Engine, cfg *config.Config, logger *zap.Logger) (*LookupService, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LookupService{engine: engine, cfg: cfg, logger: logger}, nil
}

// resolve picks the request's rule set, falling back to lookup.rule_set and
// then to the only registered rule set.
func (s *LookupService) resolve(ref string) (*rules.RuleSet, error) {
	if ref == "" {
		ref = s.cfg.Lookup.RuleSet
	}
	if ref == "" {
		names := s.engine.Names()
		if len(names) != 1 {
			return nil, fmt.Errorf("%w: rule_set is required (%d rule sets loaded)", errInvalidRequest, len(names))
		}
		ref = names[0]
	}
	return s.engine.Resolve(ref)
}

// forbidden merges the configured forbidden flags with the request's.
func (s *LookupService) forbidden(extra types.FlagSet) types.FlagSet {
	return s.cfg.Lookup.Forbidden().Union(extra)
}

func validateWord(word string) error {
	if word == "" {
		return types.ErrEmptyWord
	}
	if utf8.RuneCountInString(word) > types.MaxWordLength {
		return fmt.Errorf("%w: %d runes (max %d)", types.ErrWordTooLong, utf8.RuneCountInString(word), types.MaxWordLength)
	}
	return nil
}

// limit applies the default and the batch ceiling to a requested limit.
func (s *LookupService) limit(requested int) int {
	if requested == 0 {
		requested = defaultLimit
	}
	if requested > s.cfg.Server.MaxBatchSize {
		requested = s.cfg.Server.MaxBatchSize
	}
	return requested
}
