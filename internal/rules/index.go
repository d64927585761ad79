// internal/rules/index.go
package rules

/*
 * Candidate index over affix keys.
 *
 * A rune trie mapping an affix's Add string to the affixes that carry it.
 * Segments walks a word from its first rune and returns one group per trie
 * node holding affixes, i.e. every affix whose key is a prefix of the word,
 * grouped by key and ordered shortest key first.
 *
 * Suffix indices store reversed keys and are queried with the reversed word,
 * so the same structure serves both sides.
 */

// CandidateIndex returns the groups of affixes whose key could match word.
// A nil result means no entries are reachable from word.
type CandidateIndex interface {
	Segments(word string) [][]*Affix
}

type trieNode struct {
	children map[rune]*trieNode
	affixes  []*Affix
}

// Index is the trie-backed CandidateIndex built by CompileRuleSet.
// Not safe for concurrent Insert; read-only use after construction is.
type Index struct {
	root *trieNode
	size int
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{root: &trieNode{}}
}

// Insert stores affix under key. Empty keys live at the root and are
// returned for every word.
func (ix *Index) Insert(key string, affix *Affix) {
	n := ix.root
	for _, r := range key {
		child, ok := n.children[r]
		if !ok {
			if n.children == nil {
				n.children = make(map[rune]*trieNode)
			}
			child = &trieNode{}
			n.children[r] = child
		}
		n = child
	}
	n.affixes = append(n.affixes, affix)
	ix.size++
}

// Len returns the number of stored affixes.
func (ix *Index) Len() int { return ix.size }

// Segments returns every group of affixes whose key is a prefix of word.
func (ix *Index) Segments(word string) [][]*Affix {
	var groups [][]*Affix
	n := ix.root
	if len(n.affixes) > 0 {
		groups = append(groups, n.affixes)
	}
	for _, r := range word {
		child, ok := n.children[r]
		if !ok {
			break
		}
		n = child
		if len(n.affixes) > 0 {
			groups = append(groups, n.affixes)
		}
	}
	return groups
}
