package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/quickread/internal/model"
	"github.com/verte-zerg/quickread/internal/playback"
)

type fakeSaver struct {
	reads []model.ReadRecord
	err   error
}

func (f *fakeSaver) InsertRead(_ context.Context, rec model.ReadRecord) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.reads = append(f.reads, rec)
	return "id", nil
}

type stepClock struct {
	at time.Time
}

func (c *stepClock) now() time.Time {
	c.at = c.at.Add(time.Minute)
	return c.at
}

func newTestTracker(saver Saver) (*Tracker, *stepClock) {
	clock := &stepClock{at: time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC)}
	tr := NewTracker(saver, nil)
	tr.now = clock.now
	return tr, clock
}

func TestTrackerRecordsFinishedRead(t *testing.T) {
	saver := &fakeSaver{}
	tr, _ := newTestTracker(saver)
	timer := &playback.ManualTimer{}
	p := playback.New(timer, playback.Options{WordsPerMinute: 600, OnEvent: tr.Observe})

	require.NoError(t, p.StartText("one two three"))
	tr.Begin("stdin", p.Len())
	p.Resume()
	for timer.Fire(p) {
	}
	require.Equal(t, playback.PhaseFinished, p.State().Phase)
	require.NoError(t, tr.End(context.Background(), p.State()))

	require.Len(t, saver.reads, 1)
	rec := saver.reads[0]
	assert.Equal(t, "stdin", rec.Source)
	assert.Equal(t, 3, rec.WordsRead)
	assert.Equal(t, 3, rec.TotalWords)
	assert.True(t, rec.Completed)
	assert.Equal(t, 600, rec.WPM)
	assert.Equal(t, 1, rec.WordsPerFlash)
	assert.Equal(t, time.Minute, rec.Duration())
}

func TestTrackerKeepsFurthestPosition(t *testing.T) {
	saver := &fakeSaver{}
	tr, _ := newTestTracker(saver)
	timer := &playback.ManualTimer{}
	p := playback.New(timer, playback.Options{OnEvent: tr.Observe})

	require.NoError(t, p.StartText("a b c d e f"))
	tr.Begin("notes.txt", p.Len())
	p.Resume()
	timer.Fire(p)
	timer.Fire(p)
	p.Stop()
	require.NoError(t, tr.End(context.Background(), p.State()))

	require.Len(t, saver.reads, 1)
	assert.Equal(t, 3, saver.reads[0].WordsRead)
	assert.False(t, saver.reads[0].Completed)
}

func TestTrackerSkipsUnstartedRead(t *testing.T) {
	saver := &fakeSaver{}
	tr, _ := newTestTracker(saver)
	tr.Begin("stdin", 10)
	require.NoError(t, tr.End(context.Background(), playback.State{}))
	assert.Empty(t, saver.reads)
}

func TestTrackerWithoutSaver(t *testing.T) {
	tr := NewTracker(nil, nil)
	tr.Begin("stdin", 3)
	tr.Observe(playback.Event{Type: playback.EventPhaseChanged, Phase: playback.PhasePlaying})
	assert.NoError(t, tr.End(context.Background(), playback.State{}))
}

func TestTrackerWrapsSaveError(t *testing.T) {
	saver := &fakeSaver{err: errors.New("disk full")}
	tr, _ := newTestTracker(saver)
	tr.Begin("stdin", 2)
	tr.Observe(playback.Event{Type: playback.EventPhaseChanged, Phase: playback.PhasePlaying})
	tr.Observe(playback.Event{Type: playback.EventProgress, Progress: playback.Progress{Position: 1, Total: 2}})

	err := tr.End(context.Background(), playback.State{WordsPerMinute: 300, WordsPerFlash: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, saver.err)
	assert.Contains(t, err.Error(), "failed to save read")
}
