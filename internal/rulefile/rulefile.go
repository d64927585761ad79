// Package rulefile reads rule set definitions from YAML documents.
//
//	name: en-mini
//	complex_prefixes: false
//	break: ["-", "^'", "'$"]
//	prefixes:
//	  - {flags: [U], add: un, crossproduct: true}
//	suffixes:
//	  - {flags: [Y], strip: y, add: ied, condition: "[^aeiou]y"}
//	dictionary:
//	  - {word: carry, flags: [Y]}
//
// Unknown keys are rejected. Definitions are not compiled here; callers
// pass the result to rules.CompileRuleSet or db.Store.
package rulefile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/solatis/spellcore/internal/types"
	"gopkg.in/yaml.v3"
)

type document struct {
	Name            string     `yaml:"name"`
	ComplexPrefixes bool       `yaml:"complex_prefixes"`
	Break           []string   `yaml:"break"`
	Prefixes        []affixDoc `yaml:"prefixes"`
	Suffixes        []affixDoc `yaml:"suffixes"`
	Dictionary      []entryDoc `yaml:"dictionary"`
}

type affixDoc struct {
	Flags        []string `yaml:"flags"`
	Strip        string   `yaml:"strip"`
	Add          string   `yaml:"add"`
	Condition    string   `yaml:"condition"`
	Crossproduct bool     `yaml:"crossproduct"`
}

type entryDoc struct {
	Word  string   `yaml:"word"`
	Flags []string `yaml:"flags"`
}

// Parse decodes one rule set document from r.
// Prefixes precede suffixes in the returned affix list.
func Parse(r io.Reader) (*types.RuleSetDef, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("rule file is empty")
		}
		return nil, fmt.Errorf("failed to decode rule file: %w", err)
	}
	if doc.Name == "" {
		return nil, types.ErrEmptyRuleSetName
	}

	def := &types.RuleSetDef{
		Name:            doc.Name,
		BreakPatterns:   doc.Break,
		ComplexPrefixes: doc.ComplexPrefixes,
		Affixes:         make([]types.AffixDef, 0, len(doc.Prefixes)+len(doc.Suffixes)),
		Dictionary:      make([]types.DictEntry, 0, len(doc.Dictionary)),
	}
	for _, a := range doc.Prefixes {
		def.Affixes = append(def.Affixes, a.def(types.AffixPrefix))
	}
	for _, a := range doc.Suffixes {
		def.Affixes = append(def.Affixes, a.def(types.AffixSuffix))
	}
	for _, e := range doc.Dictionary {
		def.Dictionary = append(def.Dictionary, types.DictEntry{Word: e.Word, Flags: toFlags(e.Flags)})
	}
	return def, nil
}

// Load reads and parses the rule file at path.
func Load(path string) (*types.RuleSetDef, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	def, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

func (a affixDoc) def(kind types.AffixKind) types.AffixDef {
	return types.AffixDef{
		Kind:         kind,
		Flags:        toFlags(a.Flags),
		Strip:        a.Strip,
		Add:          a.Add,
		Condition:    a.Condition,
		Crossproduct: a.Crossproduct,
	}
}

func toFlags(in []string) []types.Flag {
	out := make([]types.Flag, len(in))
	for i, f := range in {
		out[i] = types.Flag(f)
	}
	return out
}
