// Package plain flashes text on a single output line without a full-screen UI.
//
// On a terminal every flash overwrites the previous one in place, centred on
// the focus glyph. Anywhere else each flash is written on its own line.
package plain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/verte-zerg/quickread/internal/flash"
	"github.com/verte-zerg/quickread/internal/history"
	"github.com/verte-zerg/quickread/internal/model"
	"github.com/verte-zerg/quickread/internal/playback"
)

const clearToEOL = "\x1b[K"

// Options configures Read.
type Options struct {
	Config  model.Config
	Tracker *history.Tracker
	Logger  *slog.Logger
}

// Presenter writes Player events to w.
type Presenter struct {
	w         io.Writer
	width     int
	overwrite bool
	focus     lipgloss.Style
	dirty     bool
	err       error
}

// NewPresenter returns a Presenter for w. With overwrite set each flash
// replaces the current line; width centres the focus glyph when positive.
func NewPresenter(w io.Writer, width int, overwrite bool) *Presenter {
	renderer := lipgloss.NewRenderer(w)
	return &Presenter{
		w:         w,
		width:     width,
		overwrite: overwrite,
		focus:     renderer.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true),
	}
}

// Detect reports the usable width of f and whether it is a terminal.
func Detect(f *os.File) (width int, terminal bool) {
	fd := f.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return 0, false
	}
	w, _, err := term.GetSize(int(fd))
	if err != nil {
		return 0, true
	}
	return w, true
}

// Handle implements the Player event handler.
func (p *Presenter) Handle(ev playback.Event) {
	switch ev.Type {
	case playback.EventFlash:
		p.writeFlash(ev.Flash)
	case playback.EventCleared:
		if p.overwrite && p.dirty {
			p.write("\r" + clearToEOL)
		}
	}
}

// Finish ends the current line. It returns the first write error seen.
func (p *Presenter) Finish() error {
	if p.overwrite && p.dirty {
		p.write("\n")
		p.dirty = false
	}
	return p.err
}

func (p *Presenter) writeFlash(l flash.Layout) {
	if !p.overwrite {
		p.write(l.Spaced().String() + "\n")
		return
	}
	// Leave the last column free so the terminal never wraps.
	pad, fitted := flash.Center(l, p.width-1)
	var b strings.Builder
	b.WriteString("\r")
	b.WriteString(strings.Repeat(" ", pad))
	b.WriteString(fitted.Left)
	b.WriteString(p.focus.Render(fitted.Focus))
	b.WriteString(fitted.Right)
	b.WriteString(clearToEOL)
	p.write(b.String())
	p.dirty = true
}

func (p *Presenter) write(s string) {
	if p.err != nil {
		return
	}
	if _, err := io.WriteString(p.w, s); err != nil {
		p.err = fmt.Errorf("failed to write flash: %w", err)
	}
}

// Read plays text to p's writer on the calling goroutine until it finishes
// or ctx is cancelled. Cancellation is not an error; the partial read is
// still recorded.
func Read(ctx context.Context, p *Presenter, source, text string, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	tracker := opts.Tracker
	if tracker == nil {
		tracker = history.NewTracker(nil, logger)
	}
	timer := playback.NewChanTimer()
	player := playback.New(timer, playback.Options{
		WordsPerMinute: opts.Config.WPM,
		WordsPerFlash:  opts.Config.WordsPerFlash,
		OnEvent: func(ev playback.Event) {
			tracker.Observe(ev)
			p.Handle(ev)
		},
		Logger: logger,
	})
	if err := player.StartText(text); err != nil {
		return err
	}
	tracker.Begin(source, player.Len())
	player.Resume()
	runErr := playback.Run(ctx, player, timer)

	writeErr := p.Finish()
	if err := tracker.End(context.Background(), player.State()); err != nil {
		logger.Error("failed to record read", "err", err)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return writeErr
}
