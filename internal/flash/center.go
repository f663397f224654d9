package flash

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Center fits l into width terminal cells so that the focus slot starts on
// the middle column. It returns the number of blank cells to print before
// the trimmed layout. Gapped sides get their space back first. Message
// layouts are centred as a whole.
func Center(l Layout, width int) (int, Layout) {
	l = l.Spaced()
	if width <= 0 {
		return 0, l
	}
	focusWidth := runewidth.StringWidth(l.Focus)
	if l.Message {
		return max(0, (width-focusWidth)/2), l
	}
	mid := width / 2
	l.Left = trimLeft(l.Left, mid)
	pad := mid - runewidth.StringWidth(l.Left)
	room := max(0, width-mid-focusWidth)
	if runewidth.StringWidth(l.Right) > room {
		l.Right = runewidth.Truncate(l.Right, room, "")
	}
	return pad, l
}

// trimLeft drops leading runes until s fits in width cells.
func trimLeft(s string, width int) string {
	for s != "" && runewidth.StringWidth(s) > width {
		_, size := utf8.DecodeRuneInString(s)
		s = s[size:]
	}
	return s
}
