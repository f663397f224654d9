// Package tokenize splits raw text into pacing-annotated tokens.
package tokenize

import (
	"strings"
	"unicode/utf8"
)

// Pacing multipliers derived from trailing punctuation.
const (
	PacingNormal = 1.0
	PacingComma  = 1.5
	PacingPeriod = 2.0
)

const (
	periodClass = ".!?"
	commaClass  = ",;:"
)

// Token is a whitespace-delimited unit of text with its pacing multiplier.
type Token struct {
	Text   string
	Pacing float64
}

// Stream is the ordered token sequence of one reading session.
// It is never modified after Tokenize returns it.
type Stream []Token

// Len returns the number of tokens.
func (s Stream) Len() int {
	return len(s)
}

// Words returns the display text of each token.
func (s Stream) Words() []string {
	words := make([]string, len(s))
	for i, tok := range s {
		words[i] = tok.Text
	}
	return words
}

// MaxPacing returns the largest pacing multiplier in s, or PacingNormal for an empty slice.
func (s Stream) MaxPacing() float64 {
	maxPacing := PacingNormal
	for _, tok := range s {
		if tok.Pacing > maxPacing {
			maxPacing = tok.Pacing
		}
	}
	return maxPacing
}

// Tokenize collapses whitespace and annotates each word with its pacing multiplier.
// Empty or whitespace-only text yields an empty stream.
func Tokenize(text string) Stream {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Stream{}
	}
	stream := make(Stream, 0, len(fields))
	for _, word := range fields {
		if word == "" {
			continue
		}
		stream = append(stream, Token{Text: word, Pacing: PacingFor(word)})
	}
	return stream
}

// CountWords returns the number of tokens Tokenize would produce.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// PacingFor classifies a word by its last character.
func PacingFor(word string) float64 {
	last, size := utf8.DecodeLastRuneInString(word)
	if size == 0 {
		return PacingNormal
	}
	switch {
	case strings.ContainsRune(periodClass, last):
		return PacingPeriod
	case strings.ContainsRune(commaClass, last):
		return PacingComma
	default:
		return PacingNormal
	}
}
