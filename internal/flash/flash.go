// Package flash composes tokens into the left/focus/right layout shown per flash.
package flash

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/verte-zerg/quickread/internal/orp"
	"github.com/verte-zerg/quickread/internal/tokenize"
)

// Layout is one flash split around its fixation glyph. GapBefore and
// GapAfter mark a side where neighbouring words meet an empty part of the
// middle word, so Left or Right carries no separating space.
type Layout struct {
	Left      string
	Focus     string
	Right     string
	Message   bool
	GapBefore bool
	GapAfter  bool
}

// IsZero reports whether the layout has nothing to show.
func (l Layout) IsZero() bool {
	return l.Left == "" && l.Focus == "" && l.Right == ""
}

// String returns the flash text as it reads.
func (l Layout) String() string {
	return l.Left + l.Focus + l.Right
}

// Spaced returns the layout with a space restored on each gapped side.
func (l Layout) Spaced() Layout {
	if l.GapBefore {
		l.Left += " "
	}
	if l.GapAfter {
		l.Right = " " + l.Right
	}
	l.GapBefore, l.GapAfter = false, false
	return l
}

// Compose lays out a contiguous run of tokens. The middle token
// (index len/2) supplies the fixation point.
func Compose(tokens []tokenize.Token) Layout {
	if len(tokens) == 0 {
		return Layout{}
	}
	mid := len(tokens) / 2
	left, focus, right := Split(tokens[mid].Text)

	before := joinTokens(tokens[:mid])
	after := joinTokens(tokens[mid+1:])
	return Layout{
		Left:      joinParts(before, left),
		Focus:     focus,
		Right:     joinParts(right, after),
		GapBefore: before != "" && left == "",
		GapAfter:  after != "" && right == "",
	}
}

// Message places a reserved literal in the focus slot.
func Message(text string) Layout {
	return Layout{Focus: text, Message: true}
}

// Split divides a single word around its ORP. The focus is the whole
// grapheme cluster starting at the ORP character.
func Split(text string) (left, focus, right string) {
	offset := runeOffset(text, orp.Index(text))
	if offset < 0 {
		return text, "", ""
	}
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		start, end := gr.Positions()
		if offset >= start && offset < end {
			return text[:start], text[start:end], text[end:]
		}
	}
	return text, "", ""
}

// runeOffset converts a rune index to a byte offset, or -1 when out of range.
func runeOffset(text string, index int) int {
	i := 0
	for offset := range text {
		if i == index {
			return offset
		}
		i++
	}
	return -1
}

func joinTokens(tokens []tokenize.Token) string {
	if len(tokens) == 0 {
		return ""
	}
	words := make([]string, len(tokens))
	for i, tok := range tokens {
		words[i] = tok.Text
	}
	return strings.Join(words, " ")
}

// joinParts joins a and b with a space when both are non-empty.
func joinParts(a, b string) string {
	if a == "" || b == "" {
		return a + b
	}
	return a + " " + b
}
