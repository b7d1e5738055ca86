package suggest

import "sort"

// Rank orders candidates by frequency, highest first, and returns at most
// limit words. Equal frequencies keep their input order, so identical inputs
// always rank identically. Candidates without a word are skipped.
// A limit of zero or less means no truncation.
func Rank(candidates []Candidate, limit int) []string {
	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Frequency > sorted[j].Frequency
	})

	size := len(sorted)
	if limit > 0 && limit < size {
		size = limit
	}
	words := make([]string, 0, size)
	for _, c := range sorted {
		if limit > 0 && len(words) >= limit {
			break
		}
		if c.Word == "" {
			continue
		}
		words = append(words, c.Word)
	}
	return words
}
