// Package orp locates the Optimal Recognition Point of a word.
package orp

import "unicode"

// Rank returns the 0-based position, among word characters only, of the
// fixation letter for a word with n word characters.
func Rank(n int) int {
	switch {
	case n <= 1:
		return 0
	case n <= 5:
		return 1
	case n <= 9:
		return 2
	case n <= 13:
		return 3
	default:
		return n / 4
	}
}

// Index returns the rune index in text of the fixation character.
// Text without word characters resolves to 0.
func Index(text string) int {
	runes := []rune(text)
	rank := Rank(countWordChars(runes))
	seen := 0
	for i, r := range runes {
		if !IsWordChar(r) {
			continue
		}
		if seen == rank {
			return i
		}
		seen++
	}
	return 0
}

// IsWordChar reports whether r counts as a letter for ORP purposes.
func IsWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func countWordChars(runes []rune) int {
	n := 0
	for _, r := range runes {
		if IsWordChar(r) {
			n++
		}
	}
	return n
}
