package utils

import (
	"unicode"
	"unicode/utf8"
)

// IsSeparator reports whether r may appear between words of a query.
func IsSeparator(r rune) bool {
	return r == ' ' || r == '-' || r == '\''
}

// IsOnlyNumbers checks if a string consists entirely of numeric digits
func IsOnlyNumbers(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) && r != ' ' {
			return false
		}
	}
	return true
}

// ContainsSpecialChars checks if a string contains characters that are not
// letters, digits, combining marks or separators.
func ContainsSpecialChars(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsMark(r) && !IsSeparator(r) {
			return true
		}
	}
	return false
}

// IsRepetitive checks for a single rune repeated three or more times, e.g. "aaa".
func IsRepetitive(s string) bool {
	if utf8.RuneCountInString(s) <= 2 {
		return false
	}
	first, _ := utf8.DecodeRuneInString(s)
	for _, r := range s {
		if r != first {
			return false
		}
	}
	return true
}

// IsValidInput reports whether a typed query is worth completing.
// Empty, numeric-only, symbol-laden and repetitive input is rejected.
func IsValidInput(s string) bool {
	switch {
	case s == "":
		return false
	case IsOnlyNumbers(s):
		return false
	case ContainsSpecialChars(s):
		return false
	case IsRepetitive(s):
		return false
	}
	return true
}
