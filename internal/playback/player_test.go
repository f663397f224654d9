package playback

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/quickread/internal/flash"
)

type recorder struct {
	events []Event
}

func (r *recorder) handle(e Event) {
	r.events = append(r.events, e)
}

func (r *recorder) flashes() []string {
	var out []string
	for _, e := range r.events {
		if e.Type == EventFlash {
			out = append(out, e.Flash.String())
		}
	}
	return out
}

func (r *recorder) count(typ EventType) int {
	n := 0
	for _, e := range r.events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

func (r *recorder) lastProgress() Progress {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type == EventProgress {
			return r.events[i].Progress
		}
	}
	return Progress{}
}

func (r *recorder) reset() {
	r.events = nil
}

func newTestPlayer(t *testing.T, text string, wpm, wpf int) (*Player, *ManualTimer, *recorder) {
	t.Helper()
	timer := &ManualTimer{}
	rec := &recorder{}
	p := New(timer, Options{WordsPerMinute: wpm, WordsPerFlash: wpf, OnEvent: rec.handle})
	require.NoError(t, p.StartText(text))
	return p, timer, rec
}

func TestPlayToEnd(t *testing.T) {
	p, timer, rec := newTestPlayer(t, "one two three", 600, 1)
	assert.Equal(t, PhaseIdle, p.State().Phase)

	p.Resume()
	assert.Equal(t, PhasePlaying, p.State().Phase)
	assert.Equal(t, []string{"one"}, rec.flashes())
	assert.Equal(t, 1, p.State().Position)
	require.True(t, timer.Pending)
	assert.Equal(t, 100*time.Millisecond, timer.Delay)

	require.True(t, timer.Fire(p))
	assert.Equal(t, 2, p.State().Position)
	assert.Equal(t, []string{"one", "two"}, rec.flashes())
	assert.Equal(t, 100*time.Millisecond, timer.Delay)

	require.True(t, timer.Fire(p))
	assert.Equal(t, 3, p.State().Position)
	assert.Equal(t, PhasePlaying, p.State().Phase)
	assert.InDelta(t, 1.0, rec.lastProgress().Fraction, 1e-9)

	require.True(t, timer.Fire(p))
	assert.Equal(t, PhaseFinished, p.State().Phase)
	assert.Equal(t, []string{"one", "two", "three", DoneMessage}, rec.flashes())
	assert.False(t, timer.Pending)
	assert.False(t, timer.Fire(p))
	assert.Len(t, timer.Delays, 3)
}

func TestPunctuationDelays(t *testing.T) {
	p, timer, _ := newTestPlayer(t, "Hi there. It's nice, ok?", 600, 1)
	p.Resume()
	for timer.Fire(p) {
	}
	assert.Equal(t, []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		100 * time.Millisecond,
		150 * time.Millisecond,
		200 * time.Millisecond,
	}, timer.Delays)
}

func TestBatchDelayUsesSlowestToken(t *testing.T) {
	p, timer, rec := newTestPlayer(t, "Hi there. It's nice, ok?", 600, 2)
	p.Resume()
	for timer.Fire(p) {
	}
	assert.Equal(t, []string{"Hi there.", "It's nice,", "ok?", DoneMessage}, rec.flashes())
	assert.Equal(t, []time.Duration{
		240 * time.Millisecond,
		180 * time.Millisecond,
		240 * time.Millisecond,
	}, timer.Delays)
}

func TestStopCancelsAndIgnoresStaleTick(t *testing.T) {
	p, timer, rec := newTestPlayer(t, "one two three", 600, 1)
	p.Resume()
	stale := timer.Seq

	p.Stop()
	assert.False(t, timer.Pending)
	assert.Equal(t, 1, timer.Cancels)
	assert.Equal(t, PhaseIdle, p.State().Phase)
	assert.Equal(t, 0, p.State().Position)
	assert.Equal(t, 2, rec.count(EventCleared))

	flashes := len(rec.flashes())
	p.Tick(stale)
	assert.Equal(t, 0, p.State().Position)
	assert.Equal(t, PhaseIdle, p.State().Phase)
	assert.Len(t, rec.flashes(), flashes)
}

func TestPauseIgnoresStaleTick(t *testing.T) {
	p, timer, _ := newTestPlayer(t, "one two three", 600, 1)
	p.Resume()
	stale := timer.Seq
	p.Pause()
	assert.Equal(t, PhasePaused, p.State().Phase)

	p.Tick(stale)
	assert.Equal(t, 1, p.State().Position)
}

func TestTickAfterFinishIsNoop(t *testing.T) {
	p, timer, rec := newTestPlayer(t, "one", 600, 1)
	p.Resume()
	last := timer.Seq
	require.True(t, timer.Fire(p))
	require.Equal(t, PhaseFinished, p.State().Phase)

	events := len(rec.events)
	p.Tick(last)
	p.Tick(last + 1)
	assert.Len(t, rec.events, events)
	assert.Equal(t, PhaseFinished, p.State().Phase)
}

func TestToggleFromFinishedRestarts(t *testing.T) {
	p, timer, rec := newTestPlayer(t, "one two", 600, 1)
	p.TogglePlayPause()
	for timer.Fire(p) {
	}
	require.Equal(t, PhaseFinished, p.State().Phase)

	rec.reset()
	p.TogglePlayPause()
	assert.Equal(t, PhasePlaying, p.State().Phase)
	assert.Equal(t, []string{"one"}, rec.flashes())
	assert.Equal(t, 1, p.State().Position)
}

func TestTogglePauseResume(t *testing.T) {
	p, timer, rec := newTestPlayer(t, "a b c d", 600, 1)
	p.TogglePlayPause()
	p.TogglePlayPause()
	assert.Equal(t, PhasePaused, p.State().Phase)
	assert.False(t, timer.Pending)

	p.TogglePlayPause()
	assert.Equal(t, PhasePlaying, p.State().Phase)
	assert.Equal(t, []string{"a", "b"}, rec.flashes())
}

func TestStartEmpty(t *testing.T) {
	timer := &ManualTimer{}
	p := New(timer, Options{})
	require.NoError(t, p.StartText("some words"))

	err := p.StartText("  \n\t ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyInput))
	assert.Equal(t, PhaseIdle, p.State().Phase)
	assert.Equal(t, 0, p.Len())

	p.TogglePlayPause()
	p.Seek(3)
	assert.Equal(t, PhaseIdle, p.State().Phase)
	assert.False(t, timer.Pending)
}

func TestStartReplacesPlayingSession(t *testing.T) {
	p, timer, _ := newTestPlayer(t, "one two three", 600, 1)
	p.Resume()
	stale := timer.Seq

	require.NoError(t, p.StartText("four five"))
	assert.False(t, timer.Pending)
	assert.Equal(t, PhaseIdle, p.State().Phase)
	assert.Equal(t, 2, p.Len())
	p.Tick(stale)
	assert.Equal(t, 0, p.State().Position)
}

func TestSeekWhilePausedPeeks(t *testing.T) {
	p, _, rec := newTestPlayer(t, "zero one two three four five", 600, 2)
	p.Seek(3)
	assert.Equal(t, 3, p.State().Position)
	assert.Equal(t, PhaseIdle, p.State().Phase)
	assert.Equal(t, []string{"three four"}, rec.flashes())
	assert.Equal(t, flash.Compose(p.stream[3:5]), p.Peek())
}

func TestSeekWhilePlayingRestartsTimer(t *testing.T) {
	p, timer, rec := newTestPlayer(t, "zero one two three four five", 600, 1)
	p.Resume()
	first := timer.Seq

	p.Seek(2)
	assert.Equal(t, 1, timer.Cancels)
	assert.NotEqual(t, first, timer.Seq)
	assert.Equal(t, []string{"zero", "three"}, rec.flashes())
	assert.Equal(t, 4, p.State().Position)

	p.Tick(first)
	assert.Equal(t, 4, p.State().Position)
}

func TestSeekClamps(t *testing.T) {
	p, _, _ := newTestPlayer(t, "a b c d e", 600, 1)
	p.Seek(100)
	assert.Equal(t, 4, p.State().Position)
	p.Seek(-100)
	assert.Equal(t, 0, p.State().Position)
}

func TestSeekRoundTrip(t *testing.T) {
	p, _, _ := newTestPlayer(t, "a b c d e f g h i j k l", 600, 1)
	p.Seek(5)
	for _, d := range []int{1, 3, 6} {
		p.Seek(d)
		p.Seek(-d)
		assert.Equal(t, 5, p.State().Position, "delta %d", d)
	}
}

func TestRewindForwardStep(t *testing.T) {
	words := make([]byte, 0, 400)
	for i := 0; i < 200; i++ {
		words = append(words, 'w', ' ')
	}
	p, _, _ := newTestPlayer(t, string(words), 600, 2)
	assert.Equal(t, 20, p.SeekStep())

	p.Forward()
	assert.Equal(t, 20, p.State().Position)
	p.Forward()
	assert.Equal(t, 40, p.State().Position)
	p.Rewind()
	assert.Equal(t, 20, p.State().Position)
	p.Rewind()
	p.Rewind()
	assert.Equal(t, 0, p.State().Position)
}

func TestSetSpeedAppliesToNextDelay(t *testing.T) {
	p, timer, _ := newTestPlayer(t, "one two three", 600, 1)
	p.Resume()
	p.SetSpeed(300)
	assert.Equal(t, 100*time.Millisecond, timer.Delay)

	require.True(t, timer.Fire(p))
	assert.Equal(t, 200*time.Millisecond, timer.Delay)
}

func TestSettingsClamp(t *testing.T) {
	p, _, _ := newTestPlayer(t, "one", 600, 1)
	p.SetSpeed(50)
	assert.Equal(t, MinWPM, p.State().WordsPerMinute)
	p.SetSpeed(5000)
	assert.Equal(t, MaxWPM, p.State().WordsPerMinute)
	p.AdjustSpeed(WPMStep)
	assert.Equal(t, MaxWPM, p.State().WordsPerMinute)
	p.AdjustSpeed(-WPMStep)
	assert.Equal(t, MaxWPM-WPMStep, p.State().WordsPerMinute)

	p.SetWordsPerFlash(0)
	assert.Equal(t, 1, p.State().WordsPerFlash)
	p.SetWordsPerFlash(7)
	assert.Equal(t, 5, p.State().WordsPerFlash)
}

func TestWordsPerFlashAppliesToNextFlash(t *testing.T) {
	p, timer, rec := newTestPlayer(t, "one two three four five six", 600, 1)
	p.Resume()
	p.SetWordsPerFlash(3)
	require.True(t, timer.Fire(p))
	assert.Equal(t, []string{"one", "two three four"}, rec.flashes())
	assert.Equal(t, 4, p.State().Position)
}

func TestProgress(t *testing.T) {
	p, timer, rec := newTestPlayer(t, "a b c d", 600, 1)
	progress := rec.lastProgress()
	assert.Equal(t, 0, progress.Position)
	assert.Equal(t, 4, progress.Total)
	assert.Equal(t, 0.0, progress.Fraction)
	assert.Equal(t, 480*time.Millisecond, progress.Remaining)

	p.Resume()
	timer.Fire(p)
	progress = rec.lastProgress()
	assert.InDelta(t, 0.5, progress.Fraction, 1e-9)
	assert.Equal(t, 240*time.Millisecond, progress.Remaining)
}

func TestInvariantsUnderRandomOperations(t *testing.T) {
	p, timer, _ := newTestPlayer(t, "The quick brown fox, as usual, jumps over the lazy dog. Again!", 250, 2)
	rnd := rand.New(rand.NewSource(7))
	ops := []func(){
		p.TogglePlayPause,
		p.Stop,
		p.Rewind,
		p.Forward,
		func() { timer.Fire(p) },
		func() { timer.Fire(p) },
		func() { p.Seek(rnd.Intn(30) - 15) },
		func() { p.SetSpeed(rnd.Intn(1400) - 100) },
		func() { p.SetWordsPerFlash(rnd.Intn(9) - 2) },
		func() {
			if timer.Seq > 1 {
				p.Tick(timer.Seq - 1)
			}
		},
	}
	for i := 0; i < 2000; i++ {
		ops[rnd.Intn(len(ops))]()
		s := p.State()
		require.GreaterOrEqual(t, s.Position, 0)
		require.LessOrEqual(t, s.Position, s.Total)
		require.GreaterOrEqual(t, s.WordsPerMinute, MinWPM)
		require.LessOrEqual(t, s.WordsPerMinute, MaxWPM)
		require.GreaterOrEqual(t, s.WordsPerFlash, MinWordsPerFlash)
		require.LessOrEqual(t, s.WordsPerFlash, MaxWordsPerFlash)
		require.Equal(t, s.Phase == PhasePlaying, timer.Pending, "step %d phase %s", i, s.Phase)
	}
}
