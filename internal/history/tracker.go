// Package history records finished or abandoned reads into the reading log.
package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/verte-zerg/quickread/internal/model"
	"github.com/verte-zerg/quickread/internal/playback"
)

// Saver persists a read record.
type Saver interface {
	InsertRead(ctx context.Context, rec model.ReadRecord) (string, error)
}

// Tracker follows one read through Player events. The zero value discards
// everything; a nil Saver disables recording.
type Tracker struct {
	saver  Saver
	logger *slog.Logger
	now    func() time.Time

	active bool
	rec    model.ReadRecord
}

// NewTracker returns a Tracker that saves through saver.
func NewTracker(saver Saver, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Tracker{saver: saver, logger: logger, now: time.Now}
}

// Begin starts tracking a new text. Any read in progress is dropped.
func (t *Tracker) Begin(source string, totalWords int) {
	t.active = t.saver != nil
	t.rec = model.ReadRecord{Source: source, TotalWords: totalWords}
}

// Observe updates the read from a Player event.
func (t *Tracker) Observe(ev playback.Event) {
	if !t.active {
		return
	}
	switch ev.Type {
	case playback.EventPhaseChanged:
		switch ev.Phase {
		case playback.PhasePlaying:
			if t.rec.StartedAt.IsZero() {
				t.rec.StartedAt = t.now()
			}
		case playback.PhaseFinished:
			t.rec.Completed = true
			t.rec.WordsRead = t.rec.TotalWords
		}
	case playback.EventProgress:
		t.rec.WordsRead = max(t.rec.WordsRead, ev.Progress.Position)
	}
}

// End closes the read and saves it when any words were shown. The settings
// recorded are the ones in effect when the read ended.
func (t *Tracker) End(ctx context.Context, state playback.State) error {
	if !t.active {
		return nil
	}
	t.active = false
	rec := t.rec
	if rec.StartedAt.IsZero() || rec.WordsRead == 0 {
		return nil
	}
	rec.EndedAt = t.now()
	rec.WPM = state.WordsPerMinute
	rec.WordsPerFlash = state.WordsPerFlash
	id, err := t.saver.InsertRead(ctx, rec)
	if err != nil {
		return fmt.Errorf("failed to save read: %w", err)
	}
	t.logger.Debug("read saved", "id", id, "words", rec.WordsRead, "completed", rec.Completed)
	return nil
}
