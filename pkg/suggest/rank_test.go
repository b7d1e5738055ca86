package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankStableTies(t *testing.T) {
	candidates := []Candidate{{"a", 5}, {"b", 5}, {"c", 9}}

	for _, limit := range []int{3, 4, 10} {
		assert.Equal(t, []string{"c", "a", "b"}, Rank(candidates, limit), "limit %d", limit)
	}
}

func TestRankDeterministic(t *testing.T) {
	candidates := []Candidate{{"x", 1}, {"y", 1}, {"z", 1}, {"w", 1}}
	first := Rank(candidates, 3)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Rank(candidates, 3))
	}
	assert.Equal(t, []string{"x", "y", "z"}, first)
}

func TestRankTruncates(t *testing.T) {
	candidates := []Candidate{{"low", 1}, {"high", 10}, {"mid", 5}}

	assert.Equal(t, []string{"high"}, Rank(candidates, 1))
	assert.Equal(t, []string{"high", "mid"}, Rank(candidates, 2))
	assert.Equal(t, []string{"high", "mid", "low"}, Rank(candidates, 0), "non-positive limit keeps everything")
}

func TestRankDropsMissingWords(t *testing.T) {
	candidates := []Candidate{{"", 100}, {"kept", 1}}

	assert.Equal(t, []string{"kept"}, Rank(candidates, 1))
}

func TestRankDoesNotMutateInput(t *testing.T) {
	candidates := []Candidate{{"a", 1}, {"b", 2}}
	Rank(candidates, 2)
	assert.Equal(t, []Candidate{{"a", 1}, {"b", 2}}, candidates)
}

func TestRankEmpty(t *testing.T) {
	result := Rank(nil, 5)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}
