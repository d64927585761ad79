package api

import (
	"context"
	"strings"
	"testing"

	"github.com/solatis/spellcore/internal/core/config"
	"github.com/solatis/spellcore/internal/rules"
	"github.com/solatis/spellcore/internal/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func testRuleSet() *types.RuleSetDef {
	return &types.RuleSetDef{
		ID:              "00000000-0000-7000-8000-000000000001",
		Name:            "en-test",
		BreakPatterns:   []string{"-"},
		ComplexPrefixes: true,
		Affixes: []types.AffixDef{
			{Kind: types.AffixSuffix, Flags: []types.Flag{"G"}, Add: "ing", Crossproduct: true},
			{Kind: types.AffixSuffix, Flags: []types.Flag{"S"}, Add: "s", Crossproduct: true},
			{Kind: types.AffixSuffix, Flags: []types.Flag{"Y"}, Strip: "y", Add: "ied", Condition: "[^aeiou]y"},
			{Kind: types.AffixPrefix, Flags: []types.Flag{"U"}, Add: "un", Crossproduct: true},
			{Kind: types.AffixPrefix, Flags: []types.Flag{"R"}, Add: "re"},
		},
		Dictionary: []types.DictEntry{
			{Word: "walk", Flags: []types.Flag{"G", "S", "U"}},
			{Word: "carry", Flags: []types.Flag{"Y"}},
			{Word: "do", Flags: []types.Flag{"R", "U"}},
			{Word: "taboo", Flags: []types.Flag{"X"}},
		},
	}
}

func newTestService(t *testing.T, mutate func(*config.Config)) *LookupService {
	t.Helper()
	rs, err := rules.CompileRuleSet(testRuleSet())
	if err != nil {
		t.Fatalf("CompileRuleSet() error = %v", err)
	}
	engine := rules.NewEngine()
	if err := engine.Register(rs); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	svc, err := NewLookupService(engine, cfg, nil)
	if err != nil {
		t.Fatalf("NewLookupService() error = %v", err)
	}
	return svc
}

func mustStruct(t *testing.T, m map[string]interface{}) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	if err != nil {
		t.Fatalf("NewStruct() error = %v", err)
	}
	return s
}

func wantCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	if status.Code(err) != code {
		t.Errorf("error = %v, want code %v", err, code)
	}
}

func TestNewLookupService_NilDependencies(t *testing.T) {
	if _, err := NewLookupService(nil, config.DefaultConfig(), nil); err == nil {
		t.Error("NewLookupService(nil engine) error = nil")
	}
	if _, err := NewLookupService(rules.NewEngine(), nil, nil); err == nil {
		t.Error("NewLookupService(nil cfg) error = nil")
	}
}

func TestCheck(t *testing.T) {
	svc := newTestService(t, nil)

	resp, err := svc.Check(context.Background(), mustStruct(t, map[string]interface{}{
		"rule_set": "en-test",
		"words":    []interface{}{"walking", "unwalks", "carried", "walk-do", "xyzzy", "taboo"},
	}))
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	m := resp.AsMap()
	if m["rule_set"] != "en-test" {
		t.Errorf("rule_set = %v, want en-test", m["rule_set"])
	}
	results := m["results"].([]interface{})
	want := map[string]bool{
		"walking": true,
		"unwalks": true,
		"carried": true,
		"walk-do": true,
		"xyzzy":   false,
		"taboo":   true, // nothing forbidden by default
	}
	if len(results) != len(want) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(want))
	}
	for _, r := range results {
		res := r.(map[string]interface{})
		word := res["word"].(string)
		if got := res["correct"].(bool); got != want[word] {
			t.Errorf("correct(%s) = %v, want %v", word, got, want[word])
		}
	}

	first := results[0].(map[string]interface{})
	forms := first["forms"].([]interface{})
	form := forms[0].(map[string]interface{})
	if form["stem"] != "walk" || form["suffix"] != "SFX G 0 ing ." {
		t.Errorf("walking form = %v", form)
	}
}

func TestCheck_ForbiddenFlags(t *testing.T) {
	svc := newTestService(t, func(c *config.Config) {
		c.Lookup.ForbiddenFlags = []types.Flag{"X"}
	})

	resp, err := svc.Check(context.Background(), mustStruct(t, map[string]interface{}{
		"words": []interface{}{"taboo", "unwalking"},
		// configured X plus requested U
		"forbidden_flags": []interface{}{"U"},
	}))
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	for _, r := range resp.AsMap()["results"].([]interface{}) {
		res := r.(map[string]interface{})
		if res["correct"].(bool) {
			t.Errorf("correct(%s) = true, want false", res["word"])
		}
	}
}

func TestCheck_Validation(t *testing.T) {
	svc := newTestService(t, func(c *config.Config) {
		c.Server.MaxBatchSize = 2
	})
	ctx := context.Background()

	tests := []struct {
		name string
		req  map[string]interface{}
		code codes.Code
	}{
		{"no words", map[string]interface{}{}, codes.InvalidArgument},
		{"words wrong type", map[string]interface{}{"words": "walk"}, codes.InvalidArgument},
		{"word wrong type", map[string]interface{}{"words": []interface{}{1.0}}, codes.InvalidArgument},
		{"empty word", map[string]interface{}{"words": []interface{}{""}}, codes.InvalidArgument},
		{"word too long", map[string]interface{}{"words": []interface{}{strings.Repeat("a", types.MaxWordLength+1)}}, codes.InvalidArgument},
		{"batch too large", map[string]interface{}{"words": []interface{}{"a", "b", "c"}}, codes.InvalidArgument},
		{"empty forbidden flag", map[string]interface{}{"words": []interface{}{"a"}, "forbidden_flags": []interface{}{""}}, codes.InvalidArgument},
		{"unknown rule set", map[string]interface{}{"rule_set": "fr", "words": []interface{}{"a"}}, codes.NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Check(ctx, mustStruct(t, tt.req))
			wantCode(t, err, tt.code)
		})
	}
}

func TestCheck_CancelledContext(t *testing.T) {
	svc := newTestService(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Check(ctx, mustStruct(t, map[string]interface{}{"words": []interface{}{"walk"}}))
	wantCode(t, err, codes.Canceled)
}

func TestResolve_RequiresRuleSetWhenAmbiguous(t *testing.T) {
	svc := newTestService(t, nil)
	other := testRuleSet()
	other.ID = "00000000-0000-7000-8000-000000000002"
	other.Name = "en-other"
	rs, err := rules.CompileRuleSet(other)
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.engine.Register(rs); err != nil {
		t.Fatal(err)
	}

	_, err = svc.Check(context.Background(), mustStruct(t, map[string]interface{}{"words": []interface{}{"walk"}}))
	wantCode(t, err, codes.InvalidArgument)

	_, err = svc.Check(context.Background(), mustStruct(t, map[string]interface{}{
		"rule_set": string(other.ID),
		"words":    []interface{}{"walk"},
	}))
	if err != nil {
		t.Errorf("Check(by id) error = %v", err)
	}
}

func TestDecompose(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	tests := []struct {
		name      string
		req       map[string]interface{}
		wantStems []string
	}{
		{"suffix side", map[string]interface{}{"word": "walking", "side": "suffix"}, []string{"walk"}},
		{"prefix side", map[string]interface{}{"word": "unredo", "side": "prefix"}, []string{"redo", "do"}},
		{"both sides", map[string]interface{}{"word": "unwalking"}, []string{"unwalk", "walking"}},
		{"required flags narrow", map[string]interface{}{"word": "unwalking", "required_flags": []interface{}{"U"}}, []string{"walking"}},
		{"null required flags", map[string]interface{}{"word": "walking", "side": "suffix", "required_flags": nil}, []string{"walk"}},
		{"plain suffix needs crossproduct", map[string]interface{}{"word": "carried", "side": "suffix"}, nil},
		{"crossproduct override", map[string]interface{}{"word": "carried", "side": "suffix", "crossproduct": true}, []string{"carry"}},
		{"nested stops second prefix", map[string]interface{}{"word": "unredo", "side": "prefix", "nested": true}, []string{"redo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Decompose(ctx, mustStruct(t, tt.req))
			if err != nil {
				t.Fatalf("Decompose() error = %v", err)
			}
			forms := resp.AsMap()["forms"].([]interface{})
			if len(forms) != len(tt.wantStems) {
				t.Fatalf("Decompose() = %v, want stems %v", forms, tt.wantStems)
			}
			for i, f := range forms {
				if stem := f.(map[string]interface{})["stem"]; stem != tt.wantStems[i] {
					t.Errorf("forms[%d].stem = %v, want %v", i, stem, tt.wantStems[i])
				}
			}
		})
	}
}

func TestDecompose_LimitTruncates(t *testing.T) {
	svc := newTestService(t, nil)

	resp, err := svc.Decompose(context.Background(), mustStruct(t, map[string]interface{}{
		"word":  "unredo",
		"side":  "prefix",
		"limit": 1.0,
	}))
	if err != nil {
		t.Fatalf("Decompose() error = %v", err)
	}
	m := resp.AsMap()
	if len(m["forms"].([]interface{})) != 1 || m["truncated"] != true {
		t.Errorf("Decompose(limit=1) = %v, want 1 form, truncated", m)
	}
}

func TestDecompose_Validation(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		req  map[string]interface{}
	}{
		{"missing word", map[string]interface{}{}},
		{"bad side", map[string]interface{}{"word": "walk", "side": "middle"}},
		{"negative limit", map[string]interface{}{"word": "walk", "limit": -1.0}},
		{"fractional limit", map[string]interface{}{"word": "walk", "limit": 1.5}},
		{"nested wrong type", map[string]interface{}{"word": "walk", "nested": "yes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Decompose(ctx, mustStruct(t, tt.req))
			wantCode(t, err, codes.InvalidArgument)
		})
	}
}

func TestBreakWord(t *testing.T) {
	svc := newTestService(t, nil)

	resp, err := svc.BreakWord(context.Background(), mustStruct(t, map[string]interface{}{"text": "a-b"}))
	if err != nil {
		t.Fatalf("BreakWord() error = %v", err)
	}
	partitions := resp.AsMap()["partitions"].([]interface{})
	if len(partitions) != 2 {
		t.Fatalf("partitions = %v, want 2", partitions)
	}
	first := partitions[0].([]interface{})
	second := partitions[1].([]interface{})
	if len(first) != 1 || first[0] != "a-b" {
		t.Errorf("partitions[0] = %v, want [a-b]", first)
	}
	if len(second) != 2 || second[0] != "a" || second[1] != "b" {
		t.Errorf("partitions[1] = %v, want [a b]", second)
	}
}

func TestBreakWord_EmptyText(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.BreakWord(context.Background(), mustStruct(t, map[string]interface{}{}))
	wantCode(t, err, codes.InvalidArgument)
}
