package rules

import (
	"fmt"
	"sort"
	"sync"

	"github.com/solatis/spellcore/internal/types"
)

// Engine is the registry of compiled rule sets served by the lookup API.
// Rule sets are immutable; the lock only guards the maps.
type Engine struct {
	mu     sync.RWMutex
	byID   map[types.RuleSetID]*RuleSet
	byName map[string]types.RuleSetID
}

// NewEngine creates an empty rules engine.
func NewEngine() *Engine {
	return &Engine{
		byID:   make(map[types.RuleSetID]*RuleSet),
		byName: make(map[string]types.RuleSetID),
	}
}

// Register adds rs, replacing any rule set with the same ID.
// A name already bound to a different ID is rejected.
func (e *Engine) Register(rs *RuleSet) error {
	if rs.Name == "" {
		return types.ErrEmptyRuleSetName
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if id, ok := e.byName[rs.Name]; ok && id != rs.ID {
		return fmt.Errorf("%w: %s", types.ErrDuplicateRuleSet, rs.Name)
	}
	if old, ok := e.byID[rs.ID]; ok && old.Name != rs.Name {
		delete(e.byName, old.Name)
	}
	e.byID[rs.ID] = rs
	e.byName[rs.Name] = rs.ID
	return nil
}

// Get returns the rule set with the given ID.
func (e *Engine) Get(id types.RuleSetID) (*RuleSet, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rs, ok := e.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrRuleSetNotFound, id)
	}
	return rs, nil
}

// Resolve accepts either a rule set ID or a rule set name.
func (e *Engine) Resolve(ref string) (*RuleSet, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if rs, ok := e.byID[types.RuleSetID(ref)]; ok {
		return rs, nil
	}
	if id, ok := e.byName[ref]; ok {
		return e.byID[id], nil
	}
	return nil, fmt.Errorf("%w: %s", types.ErrRuleSetNotFound, ref)
}

// Names lists registered rule set names in lexical order.
func (e *Engine) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.byName))
	for name := range e.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
