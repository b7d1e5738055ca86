package suggest

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/bastiangx/typeahead/internal/utils"
)

// Matcher finds approximate matches for a query within a trie.
type Matcher interface {
	FuzzySearch(t *PrefixTrie, query string, maxDistance int) []Candidate
}

// LevenshteinMatcher is the default Matcher, backed by FuzzySearch.
type LevenshteinMatcher struct{}

// FuzzySearch implements Matcher.
func (LevenshteinMatcher) FuzzySearch(t *PrefixTrie, query string, maxDistance int) []Candidate {
	return FuzzySearch(t, query, maxDistance)
}

// FuzzySearch walks the whole trie and returns every stored word whose
// TokenDistance to query is at most maxDistance. The cost is proportional to
// the number of nodes in the trie, so callers should only reach for it once an
// exact prefix search came up short.
func FuzzySearch(t *PrefixTrie, query string, maxDistance int) []Candidate {
	results := []Candidate{}
	if t == nil || maxDistance < 0 {
		return results
	}
	queryTokens := strings.Fields(utils.FoldKey(query))

	type frame struct {
		node *trieNode
		path string
	}
	stack := []frame{{node: t.root}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if cur.node.terminal && cur.path != "" {
			if tokenDistance(queryTokens, strings.Fields(cur.path)) <= maxDistance {
				results = append(results, Candidate{Word: cur.node.word, Frequency: cur.node.freq})
			}
		}
		for i := len(cur.node.children) - 1; i >= 0; i-- {
			c := cur.node.children[i]
			stack = append(stack, frame{node: c, path: cur.path + string(c.char)})
		}
	}
	return results
}

// TokenDistance compares a and b token by token: both are split on whitespace
// and the Levenshtein distances of tokens at the same position are summed, up
// to the shorter token count. Extra trailing tokens cost nothing.
func TokenDistance(a, b string) int {
	return tokenDistance(strings.Fields(a), strings.Fields(b))
}

func tokenDistance(a, b []string) int {
	n := min(len(a), len(b))
	total := 0
	for i := 0; i < n; i++ {
		total += levenshtein.ComputeDistance(a[i], b[i])
	}
	return total
}
