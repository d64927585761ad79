package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/solatis/spellcore/internal/rules"
	"github.com/solatis/spellcore/internal/types"
)

// Store persists rule set definitions. Rule sets are validated by
// compiling them before they are written, so anything loaded back compiles.
type Store struct {
	db      *sqlx.DB
	queries *Queries
}

// RuleSetSummary is one row of ListRuleSets.
type RuleSetSummary struct {
	ID              types.RuleSetID
	Name            string
	ComplexPrefixes bool
	CreatedAt       time.Time
	Affixes         int
	Words           int
}

type ruleSetRow struct {
	ID              string `db:"rule_set_id"`
	Name            string `db:"name"`
	ComplexPrefixes int    `db:"complex_prefixes"`
	CreatedAt       string `db:"created_at"`
}

type ruleSetSummaryRow struct {
	ruleSetRow
	AffixCount int64 `db:"affix_count"`
	WordCount  int64 `db:"word_count"`
}

type affixRow struct {
	ID           string `db:"affix_id"`
	Kind         string `db:"kind"`
	Flags        string `db:"flags"`
	Strip        string `db:"strip_text"`
	Add          string `db:"add_text"`
	Condition    string `db:"cond"`
	Crossproduct int    `db:"crossproduct"`
}

type dictionaryRow struct {
	Word  string `db:"word"`
	Flags string `db:"flags"`
}

// NewStore loads the named queries and returns a store over db.
// The schema must already be migrated.
func NewStore(db *sqlx.DB) (*Store, error) {
	queries, err := LoadQueries(db)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, queries: queries}, nil
}

// SaveRuleSet validates and stores def in one transaction and returns its
// ID. A rule set with the same name is rejected with ErrDuplicateRuleSet.
func (s *Store) SaveRuleSet(ctx context.Context, def *types.RuleSetDef) (types.RuleSetID, error) {
	return s.save(ctx, def, false)
}

// ReplaceRuleSet stores def, replacing any rule set with the same name.
// The replaced rule set's ID is kept.
func (s *Store) ReplaceRuleSet(ctx context.Context, def *types.RuleSetDef) (types.RuleSetID, error) {
	return s.save(ctx, def, true)
}

func (s *Store) save(ctx context.Context, def *types.RuleSetDef, replace bool) (types.RuleSetID, error) {
	// Work on a copy so IDs assigned here do not leak into the caller's def
	rec := *def
	rec.Affixes = append([]types.AffixDef(nil), def.Affixes...)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	q := s.queries.WithTx(tx)

	existing, err := findRuleSetID(ctx, q, rec.Name)
	switch {
	case err == nil && !replace:
		return "", fmt.Errorf("%w: %s", types.ErrDuplicateRuleSet, rec.Name)
	case err == nil:
		if err := deleteRuleSet(ctx, q, existing); err != nil {
			return "", err
		}
		rec.ID = existing
	case errors.Is(err, types.ErrRuleSetNotFound):
		if rec.ID == "" {
			rec.ID = types.NewRuleSetID()
		}
	default:
		return "", err
	}

	for i := range rec.Affixes {
		if rec.Affixes[i].ID == "" {
			rec.Affixes[i].ID = types.NewAffixID()
		}
	}

	if _, err := rules.CompileRuleSet(&rec); err != nil {
		return "", fmt.Errorf("invalid rule set %q: %w", rec.Name, err)
	}

	if err := insertRuleSet(ctx, q, &rec); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit rule set %s: %w", rec.Name, err)
	}
	return rec.ID, nil
}

func insertRuleSet(ctx context.Context, q *Queries, def *types.RuleSetDef) error {
	createdAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := q.Exec(ctx, "insert-rule-set", string(def.ID), def.Name, boolToInt(def.ComplexPrefixes), createdAt); err != nil {
		return fmt.Errorf("failed to insert rule set %s: %w", def.Name, err)
	}

	for i, p := range def.BreakPatterns {
		if _, err := q.Exec(ctx, "insert-break-pattern", string(def.ID), i, p); err != nil {
			return fmt.Errorf("failed to insert break pattern %d: %w", i, err)
		}
	}

	for i, a := range def.Affixes {
		flags, err := encodeFlags(a.Flags)
		if err != nil {
			return err
		}
		_, err = q.Exec(ctx, "insert-affix",
			string(a.ID), string(def.ID), i, a.Kind.String(), flags,
			a.Strip, a.Add, a.Condition, boolToInt(a.Crossproduct),
		)
		if err != nil {
			return fmt.Errorf("failed to insert affix %d: %w", i, err)
		}
	}

	for _, e := range mergeDictionary(def.Dictionary) {
		flags, err := encodeFlags(e.Flags)
		if err != nil {
			return err
		}
		if _, err := q.Exec(ctx, "insert-dictionary-entry", string(def.ID), e.Word, flags); err != nil {
			return fmt.Errorf("failed to insert dictionary entry %q: %w", e.Word, err)
		}
	}
	return nil
}

// LoadRuleSet reads a complete rule set definition.
func (s *Store) LoadRuleSet(ctx context.Context, id types.RuleSetID) (*types.RuleSetDef, error) {
	var rs ruleSetRow
	if err := s.queries.Get(ctx, "get-rule-set", &rs, string(id)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", types.ErrRuleSetNotFound, id)
		}
		return nil, fmt.Errorf("failed to load rule set %s: %w", id, err)
	}

	def := &types.RuleSetDef{
		ID:              types.RuleSetID(rs.ID),
		Name:            rs.Name,
		ComplexPrefixes: rs.ComplexPrefixes != 0,
	}

	if err := s.queries.Select(ctx, "list-break-patterns", &def.BreakPatterns, rs.ID); err != nil {
		return nil, fmt.Errorf("failed to load break patterns for %s: %w", id, err)
	}

	var affixes []affixRow
	if err := s.queries.Select(ctx, "list-affixes", &affixes, rs.ID); err != nil {
		return nil, fmt.Errorf("failed to load affixes for %s: %w", id, err)
	}
	for _, a := range affixes {
		kind, err := types.ParseAffixKind(a.Kind)
		if err != nil {
			return nil, fmt.Errorf("affix %s: %w", a.ID, err)
		}
		flags, err := decodeFlags(a.Flags)
		if err != nil {
			return nil, fmt.Errorf("affix %s: %w", a.ID, err)
		}
		def.Affixes = append(def.Affixes, types.AffixDef{
			ID:           types.AffixID(a.ID),
			Kind:         kind,
			Flags:        flags,
			Strip:        a.Strip,
			Add:          a.Add,
			Condition:    a.Condition,
			Crossproduct: a.Crossproduct != 0,
		})
	}

	var words []dictionaryRow
	if err := s.queries.Select(ctx, "list-dictionary-entries", &words, rs.ID); err != nil {
		return nil, fmt.Errorf("failed to load dictionary for %s: %w", id, err)
	}
	for _, w := range words {
		flags, err := decodeFlags(w.Flags)
		if err != nil {
			return nil, fmt.Errorf("dictionary entry %q: %w", w.Word, err)
		}
		def.Dictionary = append(def.Dictionary, types.DictEntry{Word: w.Word, Flags: flags})
	}

	return def, nil
}

// FindRuleSetID resolves a rule set name to its ID.
func (s *Store) FindRuleSetID(ctx context.Context, name string) (types.RuleSetID, error) {
	return findRuleSetID(ctx, s.queries, name)
}

func findRuleSetID(ctx context.Context, q *Queries, name string) (types.RuleSetID, error) {
	var id string
	if err := q.Get(ctx, "find-rule-set-by-name", &id, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", types.ErrRuleSetNotFound, name)
		}
		return "", fmt.Errorf("failed to find rule set %s: %w", name, err)
	}
	return types.RuleSetID(id), nil
}

// ListRuleSets returns every stored rule set ordered by name.
func (s *Store) ListRuleSets(ctx context.Context) ([]RuleSetSummary, error) {
	var rows []ruleSetSummaryRow
	if err := s.queries.Select(ctx, "list-rule-sets", &rows); err != nil {
		return nil, fmt.Errorf("failed to list rule sets: %w", err)
	}

	out := make([]RuleSetSummary, 0, len(rows))
	for _, r := range rows {
		createdAt, _ := time.Parse(time.RFC3339, r.CreatedAt)
		out = append(out, RuleSetSummary{
			ID:              types.RuleSetID(r.ID),
			Name:            r.Name,
			ComplexPrefixes: r.ComplexPrefixes != 0,
			CreatedAt:       createdAt,
			Affixes:         int(r.AffixCount),
			Words:           int(r.WordCount),
		})
	}
	return out, nil
}

// DeleteRuleSet removes a rule set and everything it owns.
func (s *Store) DeleteRuleSet(ctx context.Context, id types.RuleSetID) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := s.queries.WithTx(tx)
	var rs ruleSetRow
	if err := q.Get(ctx, "get-rule-set", &rs, string(id)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", types.ErrRuleSetNotFound, id)
		}
		return fmt.Errorf("failed to load rule set %s: %w", id, err)
	}
	if err := deleteRuleSet(ctx, q, id); err != nil {
		return err
	}
	return tx.Commit()
}

// deleteRuleSet removes children before the parent row for foreign keys.
func deleteRuleSet(ctx context.Context, q *Queries, id types.RuleSetID) error {
	for _, name := range []string{"delete-dictionary-entries", "delete-affixes", "delete-break-patterns", "delete-rule-set"} {
		if _, err := q.Exec(ctx, name, string(id)); err != nil {
			return fmt.Errorf("%s %s: %w", name, id, err)
		}
	}
	return nil
}

// mergeDictionary folds duplicate words into one entry, keeping first-seen
// order and the union of flags.
func mergeDictionary(entries []types.DictEntry) []types.DictEntry {
	index := make(map[string]int, len(entries))
	var out []types.DictEntry
	for _, e := range entries {
		i, ok := index[e.Word]
		if !ok {
			index[e.Word] = len(out)
			out = append(out, types.DictEntry{Word: e.Word, Flags: types.NewFlagSet(e.Flags...).Sorted()})
			continue
		}
		merged := types.NewFlagSet(out[i].Flags...).Union(types.NewFlagSet(e.Flags...))
		out[i].Flags = merged.Sorted()
	}
	return out
}

// Flags are stored as a JSON array so multi-character flags survive.
func encodeFlags(flags []types.Flag) (string, error) {
	if flags == nil {
		flags = []types.Flag{}
	}
	b, err := json.Marshal(flags)
	if err != nil {
		return "", fmt.Errorf("failed to encode flags: %w", err)
	}
	return string(b), nil
}

func decodeFlags(s string) ([]types.Flag, error) {
	var flags []types.Flag
	if err := json.Unmarshal([]byte(s), &flags); err != nil {
		return nil, fmt.Errorf("failed to decode flags %q: %w", s, err)
	}
	return flags, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
