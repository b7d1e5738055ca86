package dictionary

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bastiangx/typeahead/internal/utils"
	"golang.org/x/text/unicode/norm"
)

var (
	bracketedRe = regexp.MustCompile(`[\(\[\{<].*?[\)\]\}>]`)
	symbolRe    = regexp.MustCompile(`[^\p{L}\p{M}\p{N}\s]`)
)

// CleanText normalizes a raw corpus entry into an index term: the text is
// NFC composed, bracketed segments and symbols are removed, words containing
// digits are dropped, whitespace is collapsed and the result is folded with
// utils.FoldKey.
//
//	CleanText("Phở Bò (Tái) 2x") == "phở bò"
func CleanText(text string) string {
	text = norm.NFC.String(text)
	text = bracketedRe.ReplaceAllString(text, "")
	text = symbolRe.ReplaceAllString(text, "")

	fields := strings.Fields(text)
	kept := fields[:0]
	for _, f := range fields {
		if isWord(f) {
			kept = append(kept, f)
		}
	}
	return utils.FoldKey(strings.Join(kept, " "))
}

func isWord(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsMark(r) {
			return false
		}
	}
	return true
}

// GeneratePrefixes expands term into index members: every prefix of 2 up to
// size runes, followed by the full term with marker appended.
//
//	GeneratePrefixes("pizza", 3, "*") == []string{"pi", "piz", "pizza*"}
func GeneratePrefixes(term string, size int, marker string) []string {
	if term == "" {
		return nil
	}
	runes := []rune(term)
	maxLen := min(size, len(runes))

	prefixes := make([]string, 0, maxLen+1)
	for i := 2; i <= maxLen; i++ {
		prefixes = append(prefixes, string(runes[:i]))
	}
	return append(prefixes, term+marker)
}

// IsIndexable reports whether a cleaned term is worth indexing. Single-rune
// terms would only produce their terminated member, which no query of two or
// more runes can reach.
func IsIndexable(term string) bool {
	return utf8.RuneCountInString(term) >= 2
}
