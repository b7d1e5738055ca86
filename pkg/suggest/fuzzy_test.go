package suggest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTrie(ws ...string) *PrefixTrie {
	trie := NewPrefixTrie()
	for _, w := range ws {
		trie.Insert(w)
	}
	return trie
}

func TestFuzzySearchBound(t *testing.T) {
	trie := newTrie("cat", "bat", "cats", "dog")

	results := FuzzySearch(trie, "cat", 1)
	assert.ElementsMatch(t, []string{"cat", "bat", "cats"}, words(results))
	assert.NotContains(t, words(results), "dog")
}

func TestFuzzySearchIgnoresCase(t *testing.T) {
	trie := newTrie("Cat")

	assert.Equal(t, []string{"Cat"}, words(FuzzySearch(trie, "CAT", 0)))
}

func TestFuzzySearchMultiWord(t *testing.T) {
	trie := newTrie("pizza roma", "pizza", "pasta roma", "bun bo hue")

	// Trailing tokens of the longer side are free.
	assert.ElementsMatch(t, []string{"pizza roma", "pizza"}, words(FuzzySearch(trie, "pizza", 0)))
	assert.ElementsMatch(t, []string{"pizza roma", "pizza"}, words(FuzzySearch(trie, "pizza rom", 1)))
	assert.ElementsMatch(t, []string{"pizza roma", "pizza", "pasta roma"}, words(FuzzySearch(trie, "pizza roma", 3)))
}

func TestFuzzySearchCarriesFrequency(t *testing.T) {
	trie := newTrie("bat", "bat", "cat")

	results := FuzzySearch(trie, "rat", 1)
	assert.Equal(t, []Candidate{{Word: "bat", Frequency: 2}, {Word: "cat", Frequency: 1}}, results)
}

func TestFuzzySearchEdgeCases(t *testing.T) {
	assert.Empty(t, FuzzySearch(NewPrefixTrie(), "cat", 2))
	assert.Empty(t, FuzzySearch(nil, "cat", 2))
	assert.Empty(t, FuzzySearch(newTrie("cat"), "cat", -1))
}

func TestLevenshteinMatcher(t *testing.T) {
	var m Matcher = LevenshteinMatcher{}
	trie := newTrie("cat", "dog")
	assert.Equal(t, []string{"cat"}, words(m.FuzzySearch(trie, "cot", 1)))
}

func TestTokenDistance(t *testing.T) {
	testCases := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"cat", "cat", 0},
		{"cat", "bat", 1},
		{"cat", "cats", 1},
		{"cat", "dog", 3},
		{"kitten", "sitting", 3},
		{"pizza", "pizza roma", 0},
		{"piza rma", "pizza roma", 2},
		{"  pizza   roma ", "pizza roma", 0},
		{"phở", "pho", 1},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s→%s", tc.a, tc.b), func(t *testing.T) {
			assert.Equal(t, tc.expected, TokenDistance(tc.a, tc.b))
		})
	}
}

func BenchmarkFuzzySearch(b *testing.B) {
	trie := NewPrefixTrie()
	for i := 0; i < 1000; i++ {
		trie.Insert(fmt.Sprintf("word%d", i))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		FuzzySearch(trie, "wrd12", 1)
	}
}
