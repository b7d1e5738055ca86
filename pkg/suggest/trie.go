package suggest

import (
	"sort"

	"github.com/bastiangx/typeahead/internal/utils"
)

// Candidate is a word found by a trie search together with the
// frequency of the node it terminates at.
type Candidate struct {
	Word      string
	Frequency int
}

// trieNode children are kept sorted by char so traversals are deterministic.
type trieNode struct {
	char     rune
	children []*trieNode
	terminal bool
	freq     int
	word     string
}

func (n *trieNode) child(r rune) *trieNode {
	i := sort.Search(len(n.children), func(i int) bool { return n.children[i].char >= r })
	if i < len(n.children) && n.children[i].char == r {
		return n.children[i]
	}
	return nil
}

// childOrCreate returns the child for r, creating it in sorted position if absent.
func (n *trieNode) childOrCreate(r rune) (*trieNode, bool) {
	i := sort.Search(len(n.children), func(i int) bool { return n.children[i].char >= r })
	if i < len(n.children) && n.children[i].char == r {
		return n.children[i], false
	}
	c := &trieNode{char: r}
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = c
	return c, true
}

// PrefixTrie is a rune-indexed prefix tree where every node counts how many
// insertions passed through it. It is not safe for concurrent use; the Engine
// serializes access to the trie it owns.
type PrefixTrie struct {
	root  *trieNode
	words int
	nodes int
}

// NewPrefixTrie returns an empty trie.
func NewPrefixTrie() *PrefixTrie {
	return &PrefixTrie{root: &trieNode{}}
}

// Has reports whether word, folded with utils.FoldKey, was inserted as a
// complete word.
func (t *PrefixTrie) Has(word string) bool {
	if word == "" {
		return false
	}
	n := t.find(utils.FoldKey(word))
	return n != nil && n.terminal
}

// Insert adds word to the trie. Every node on the folded path gets its
// frequency bumped, so inserting the same word again raises its frequency.
// The terminal node stores word NFC composed with its casing kept; the last
// insertion's casing wins.
func (t *PrefixTrie) Insert(word string) {
	if word == "" {
		return
	}
	n := t.root
	for _, r := range utils.FoldKey(word) {
		next, created := n.childOrCreate(r)
		if created {
			t.nodes++
		}
		next.freq++
		n = next
	}
	if !n.terminal {
		t.words++
	}
	n.terminal = true
	n.word = utils.Compose(word)
}

// SearchExact returns every word stored under prefix. An unknown prefix yields
// an empty slice; the empty prefix yields the whole trie.
func (t *PrefixTrie) SearchExact(prefix string) []Candidate {
	n := t.find(utils.FoldKey(prefix))
	if n == nil {
		return []Candidate{}
	}
	return collect(n, []Candidate{})
}

// Len returns the number of distinct words stored.
func (t *PrefixTrie) Len() int {
	return t.words
}

// Nodes returns the number of nodes below the root.
func (t *PrefixTrie) Nodes() int {
	return t.nodes
}

func (t *PrefixTrie) find(key string) *trieNode {
	n := t.root
	for _, r := range key {
		n = n.child(r)
		if n == nil {
			return nil
		}
	}
	return n
}

// collect walks the subtree under n in pre-order with an explicit stack,
// visiting children in ascending rune order.
func collect(n *trieNode, out []Candidate) []Candidate {
	stack := []*trieNode{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.terminal {
			out = append(out, Candidate{Word: cur.word, Frequency: cur.freq})
		}
		for i := len(cur.children) - 1; i >= 0; i-- {
			stack = append(stack, cur.children[i])
		}
	}
	return out
}
