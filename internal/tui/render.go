package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/quickread/internal/flash"
	"github.com/verte-zerg/quickread/internal/playback"
	statsPkg "github.com/verte-zerg/quickread/internal/stats"
)

var (
	contextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	guideStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// renderFlash draws the layout on one line of width cells with the focus
// glyph on the middle column.
func renderFlash(l flash.Layout, width int) string {
	pad, fitted := flash.Center(l, width)
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", pad))
	if fitted.Message {
		b.WriteString(messageStyle.Render(fitted.Focus))
		return b.String()
	}
	if fitted.Left != "" {
		b.WriteString(contextStyle.Render(fitted.Left))
	}
	if fitted.Focus != "" {
		b.WriteString(focusStyle.Render(fitted.Focus))
	}
	if fitted.Right != "" {
		b.WriteString(contextStyle.Render(fitted.Right))
	}
	return b.String()
}

// renderGuide marks the middle column above and below the flash.
func renderGuide(width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat(" ", width/2) + guideStyle.Render("│")
}

// padToWidth right-pads s with spaces to width cells.
func padToWidth(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func renderRemaining(p playback.Progress) string {
	return fmt.Sprintf("%s left", statsPkg.FormatClock(p.Remaining))
}

func renderStatus(status string, state playback.State, p playback.Progress) string {
	segments := make([]string, 0, 4)
	if status != "" {
		segments = append(segments, status)
	}
	segments = append(segments,
		fmt.Sprintf("%d WPM", state.WordsPerMinute),
		fmt.Sprintf("%d per flash", state.WordsPerFlash),
		fmt.Sprintf("word %d/%d", p.Position, p.Total),
	)
	return footerStyle.Render(strings.Join(segments, "  ·  "))
}

func renderInputInfo(words, wpm, wordsPerFlash int) string {
	if words == 0 {
		return footerStyle.Render(fmt.Sprintf("0 words  ·  %d WPM  ·  %d per flash", wpm, wordsPerFlash))
	}
	estimate := playback.Estimate(words, wpm, wordsPerFlash)
	return footerStyle.Render(fmt.Sprintf("%d words  ·  ~%s at %d WPM  ·  %d per flash", words, statsPkg.FormatClock(estimate), wpm, wordsPerFlash))
}

// truncateSource shortens a source label to width cells.
func truncateSource(label string, width int) string {
	if width <= 0 || runewidth.StringWidth(label) <= width {
		return label
	}
	return runewidth.Truncate(label, width, "…")
}
