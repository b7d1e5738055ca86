package utils

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// FoldKey returns the form every index key is stored and looked up in:
// NFC composed and lowercased. Decomposed input such as "Pho\u031b\u0309"
// folds to the same key as "phở".
func FoldKey(s string) string {
	return strings.ToLower(Compose(s))
}

// Compose returns s in Unicode normalization form C.
func Compose(s string) string {
	return norm.NFC.String(s)
}

// NormalizeQuery trims surrounding whitespace and folds s with FoldKey.
func NormalizeQuery(s string) string {
	return FoldKey(strings.TrimSpace(s))
}

// CreateRankList creates a slice of ranks based on position.
// The rank starts at 1 for the first item and increments for subsequent items.
// Useful for ranking items that are already sorted.
func CreateRankList(count int) []uint16 {
	if count <= 0 {
		return []uint16{}
	}
	ranks := make([]uint16, count)
	for i := 0; i < count; i++ {
		ranks[i] = uint16(i + 1)
	}
	return ranks
}
