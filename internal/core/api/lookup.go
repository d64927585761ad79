package api

import (
	"context"
	"fmt"
	"iter"

	"github.com/solatis/spellcore/internal/lookup"
	"github.com/solatis/spellcore/internal/rules"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/structpb"
)

// Check spell-checks a batch of words.
//
// Request:  {rule_set?, words: [string], forbidden_flags?: [string]}
// Response: {rule_set, rule_set_id, results: [{word, correct, fragments, forms}]}
func (s *LookupService) Check(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := newRequest(in)
	ref, err := req.getString("rule_set")
	if err != nil {
		return nil, toStatus(err)
	}
	words, err := req.getStrings("words")
	if err != nil {
		return nil, toStatus(err)
	}
	extra, err := req.getFlags("forbidden_flags")
	if err != nil {
		return nil, toStatus(err)
	}

	if len(words) == 0 {
		return nil, toStatus(fmt.Errorf("%w: words is empty", errInvalidRequest))
	}
	if len(words) > s.cfg.Server.MaxBatchSize {
		return nil, toStatus(fmt.Errorf("%w: %d words exceeds max_batch_size %d", errInvalidRequest, len(words), s.cfg.Server.MaxBatchSize))
	}
	for i, w := range words {
		if err := validateWord(w); err != nil {
			return nil, toStatus(fmt.Errorf("words[%d]: %w", i, err))
		}
	}

	rs, err := s.resolve(ref)
	if err != nil {
		return nil, toStatus(err)
	}
	checker := lookup.NewChecker(rs, rs.Dictionary, s.forbidden(extra))

	results := make([]interface{}, 0, len(words))
	misspelled := 0
	for _, w := range words {
		analysis, ok, err := checker.CheckContext(ctx, w)
		if err != nil {
			return nil, toStatus(err)
		}
		result := map[string]interface{}{
			"word":    w,
			"correct": ok,
		}
		if ok {
			result["fragments"] = stringList(analysis.Fragments)
			forms := make([]interface{}, len(analysis.Forms))
			for i, f := range analysis.Forms {
				forms[i] = formValue(f)
			}
			result["forms"] = forms
		} else {
			misspelled++
		}
		results = append(results, result)
	}

	s.logger.Debug("checked words",
		zap.String("rule_set", rs.Name),
		zap.Int("words", len(words)),
		zap.Int("misspelled", misspelled),
	)

	return newResponse(map[string]interface{}{
		"rule_set":    rs.Name,
		"rule_set_id": string(rs.ID),
		"results":     results,
	})
}

// Decompose lists the suffix and/or prefix decompositions of one word.
//
// Request:  {rule_set?, word, side?, required_flags?, forbidden_flags?,
// nested?, crossproduct?, limit?}
// Response: {word, forms: [...], truncated}
//
// side is "suffix", "prefix" or "both" (default).
//
// required_flags defaults to every flag the rule set declares.
func (s *LookupService) Decompose(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := newRequest(in)
	ref, err := req.getString("rule_set")
	if err != nil {
		return nil, toStatus(err)
	}
	word, err := req.getString("word")
	if err != nil {
		return nil, toStatus(err)
	}
	side, err := req.getString("side")
	if err != nil {
		return nil, toStatus(err)
	}
	required, err := req.getFlags("required_flags")
	if err != nil {
		return nil, toStatus(err)
	}
	extra, err := req.getFlags("forbidden_flags")
	if err != nil {
		return nil, toStatus(err)
	}
	nested, err := req.getBool("nested")
	if err != nil {
		return nil, toStatus(err)
	}
	crossproduct, err := req.getBool("crossproduct")
	if err != nil {
		return nil, toStatus(err)
	}
	limit, err := req.getInt("limit")
	if err != nil {
		return nil, toStatus(err)
	}

	if err := validateWord(word); err != nil {
		return nil, toStatus(err)
	}
	rs, err := s.resolve(ref)
	if err != nil {
		return nil, toStatus(err)
	}

	if v, ok := req.fields["required_flags"]; !ok || isNull(v) {
		required = rs.Flags
	}
	opts := lookup.Options{
		Required:     required,
		Forbidden:    s.forbidden(extra),
		Nested:       nested,
		Crossproduct: crossproduct,
	}

	var seqs []iter.Seq[lookup.AffixForm]
	switch side {
	case "suffix":
		seqs = append(seqs, lookup.Desuffix(rs, word, opts))
	case "prefix":
		seqs = append(seqs, lookup.Deprefix(rs, word, opts))
	case "", "both":
		seqs = append(seqs, lookup.Desuffix(rs, word, opts), lookup.Deprefix(rs, word, opts))
	default:
		return nil, toStatus(fmt.Errorf("%w: side must be suffix, prefix or both, got %q", errInvalidRequest, side))
	}

	forms, truncated, err := collect(ctx, s.limit(limit), seqs...)
	if err != nil {
		return nil, toStatus(err)
	}

	out := make([]interface{}, len(forms))
	for i, f := range forms {
		out[i] = formValue(f)
	}
	return newResponse(map[string]interface{}{
		"word":      word,
		"forms":     out,
		"truncated": truncated,
	})
}

// BreakWord lists the partitions of text under the rule set's break patterns.
//
// Request:  {rule_set?, text, limit?}
// Response: {text, partitions: [[string]], truncated}
func (s *LookupService) BreakWord(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := newRequest(in)
	ref, err := req.getString("rule_set")
	if err != nil {
		return nil, toStatus(err)
	}
	text, err := req.getString("text")
	if err != nil {
		return nil, toStatus(err)
	}
	limit, err := req.getInt("limit")
	if err != nil {
		return nil, toStatus(err)
	}

	if err := validateWord(text); err != nil {
		return nil, toStatus(err)
	}
	rs, err := s.resolve(ref)
	if err != nil {
		return nil, toStatus(err)
	}

	partitions, truncated, err := collect(ctx, s.limit(limit), lookup.BreakWord(rs, text))
	if err != nil {
		return nil, toStatus(err)
	}

	out := make([]interface{}, len(partitions))
	for i, p := range partitions {
		out[i] = stringList(p)
	}
	return newResponse(map[string]interface{}{
		"text":       text,
		"partitions": out,
		"truncated":  truncated,
	})
}

// collect drains seqs in order until limit items, reporting whether more were
// available. Stops early when ctx is done.
func collect[T any](ctx context.Context, limit int, seqs ...iter.Seq[T]) ([]T, bool, error) {
	var out []T
	for _, seq := range seqs {
		for item := range seq {
			if err := ctx.Err(); err != nil {
				return nil, false, err
			}
			if len(out) == limit {
				return out, true, nil
			}
			out = append(out, item)
		}
	}
	return out, false, nil
}

// formValue renders an AffixForm as a Struct-compatible map. Slots are
// present only when filled.
func formValue(f lookup.AffixForm) map[string]interface{} {
	v := map[string]interface{}{
		"text": f.Text,
		"stem": f.Stem,
	}
	slots := []struct {
		key   string
		affix *rules.Affix
	}{
		{"prefix", f.Prefix},
		{"prefix2", f.Prefix2},
		{"suffix", f.Suffix},
		{"suffix2", f.Suffix2},
	}
	for _, slot := range slots {
		if slot.affix != nil {
			v[slot.key] = slot.affix.String()
		}
	}
	return v
}

func newResponse(m map[string]interface{}) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, toStatus(fmt.Errorf("failed to encode response: %w", err))
	}
	return out, nil
}
