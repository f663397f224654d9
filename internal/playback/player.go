package playback

import (
	"errors"
	"log/slog"
	"time"

	"github.com/verte-zerg/quickread/internal/flash"
	"github.com/verte-zerg/quickread/internal/tokenize"
)

// ErrEmptyInput indicates a session was started without any readable words.
var ErrEmptyInput = errors.New("text does not contain any readable words")

// DoneMessage is shown in the focus slot once the stream is exhausted.
const DoneMessage = "✓ Done!"

// Options configures a Player.
type Options struct {
	WordsPerMinute int
	WordsPerFlash  int
	// OnEvent receives every event synchronously. It must not call back into the Player.
	OnEvent func(Event)
	Logger  *slog.Logger
}

// Player is the playback scheduler. It is not safe for concurrent use.
type Player struct {
	timer   Timer
	onEvent func(Event)
	logger  *slog.Logger

	stream tokenize.Stream
	state  State
	seq    uint64
	// pending is the seq of the scheduled tick, 0 when nothing is scheduled.
	pending uint64
}

// New creates an idle Player driven by timer.
func New(timer Timer, opts Options) *Player {
	if opts.WordsPerMinute == 0 {
		opts.WordsPerMinute = DefaultWPM
	}
	if opts.WordsPerFlash == 0 {
		opts.WordsPerFlash = DefaultWordsPerFlash
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Player{
		timer:   timer,
		onEvent: opts.OnEvent,
		logger:  logger,
		state: State{
			WordsPerMinute: ClampWPM(opts.WordsPerMinute),
			WordsPerFlash:  ClampWordsPerFlash(opts.WordsPerFlash),
			Phase:          PhaseIdle,
		},
	}
}

// State returns a snapshot of the playback state.
func (p *Player) State() State {
	s := p.state
	s.Total = len(p.stream)
	return s
}

// Len returns the number of tokens in the current stream.
func (p *Player) Len() int {
	return len(p.stream)
}

// Progress returns the current progress, including the remaining-time estimate.
func (p *Player) Progress() Progress {
	total := len(p.stream)
	progress := Progress{Position: p.state.Position, Total: total}
	if total == 0 {
		return progress
	}
	progress.Fraction = float64(p.state.Position) / float64(total)
	progress.Remaining = Estimate(total-p.state.Position, p.state.WordsPerMinute, p.state.WordsPerFlash)
	return progress
}

// Peek composes the flash at the current position without advancing.
func (p *Player) Peek() flash.Layout {
	if p.state.Position >= len(p.stream) {
		return flash.Layout{}
	}
	return flash.Compose(p.batch())
}

// Start replaces the stream and rewinds to an idle state. An empty stream
// leaves the Player idle with no stream and returns ErrEmptyInput.
func (p *Player) Start(stream tokenize.Stream) error {
	p.cancel()
	p.state.Position = 0
	if len(stream) == 0 {
		p.stream = nil
		p.setPhase(PhaseIdle)
		p.emit(Event{Type: EventCleared})
		return ErrEmptyInput
	}
	p.stream = append(tokenize.Stream(nil), stream...)
	p.logger.Debug("session started", "words", len(p.stream))
	p.setPhase(PhaseIdle)
	p.emit(Event{Type: EventCleared})
	p.emitProgress()
	return nil
}

// StartText tokenizes text and starts a session with it.
func (p *Player) StartText(text string) error {
	return p.Start(tokenize.Tokenize(text))
}

// TogglePlayPause pauses while playing and resumes otherwise. A finished
// session restarts from the beginning.
func (p *Player) TogglePlayPause() {
	if len(p.stream) == 0 {
		return
	}
	switch p.state.Phase {
	case PhasePlaying:
		p.Pause()
	case PhaseFinished:
		p.state.Position = 0
		p.Resume()
	default:
		p.Resume()
	}
}

// Resume starts playing from the current position, showing the first flash
// immediately. Playback wraps to the start when the position is at the end.
func (p *Player) Resume() {
	if len(p.stream) == 0 || p.state.Phase == PhasePlaying {
		return
	}
	p.cancel()
	if p.state.Position >= len(p.stream) {
		p.state.Position = 0
	}
	p.setPhase(PhasePlaying)
	p.advance()
}

// Pause halts playback and keeps the position.
func (p *Player) Pause() {
	if p.state.Phase != PhasePlaying {
		return
	}
	p.cancel()
	p.setPhase(PhasePaused)
}

// Stop cancels playback, rewinds to the start and clears the display.
func (p *Player) Stop() {
	p.cancel()
	p.state.Position = 0
	p.setPhase(PhaseIdle)
	p.emit(Event{Type: EventCleared})
	p.emitProgress()
}

// Tick handles expiry of the timer scheduled with seq. Stale or unexpected
// ticks are ignored.
func (p *Player) Tick(seq uint64) {
	if seq == 0 || seq != p.pending || p.state.Phase != PhasePlaying {
		p.logger.Debug("ignoring stale tick", "seq", seq, "pending", p.pending, "phase", p.state.Phase)
		return
	}
	p.pending = 0
	p.advance()
}

// Seek moves the position by delta words, clamped to the stream. While
// playing the flash at the new position is shown and the timer restarts;
// otherwise the flash is redrawn without advancing.
func (p *Player) Seek(delta int) {
	if len(p.stream) == 0 {
		return
	}
	p.cancel()
	p.state.Position = clamp(p.state.Position+delta, 0, len(p.stream)-1)
	if p.state.Phase == PhasePlaying {
		p.advance()
		return
	}
	p.emit(Event{Type: EventFlash, Flash: flash.Compose(p.batch())})
	p.emitProgress()
}

// SeekStep returns the distance Rewind and Forward move.
func (p *Player) SeekStep() int {
	return SeekStep(len(p.stream), p.state.WordsPerFlash)
}

// Rewind seeks backwards by SeekStep words.
func (p *Player) Rewind() {
	p.Seek(-p.SeekStep())
}

// Forward seeks forwards by SeekStep words.
func (p *Player) Forward() {
	p.Seek(p.SeekStep())
}

// SetSpeed sets the reading speed, clamped to [MinWPM, MaxWPM]. A tick
// already scheduled keeps its delay.
func (p *Player) SetSpeed(wpm int) {
	p.state.WordsPerMinute = ClampWPM(wpm)
	if len(p.stream) > 0 {
		p.emitProgress()
	}
}

// AdjustSpeed changes the reading speed by delta words per minute.
func (p *Player) AdjustSpeed(delta int) {
	p.SetSpeed(p.state.WordsPerMinute + delta)
}

// SetWordsPerFlash sets the batch width, clamped to [MinWordsPerFlash, MaxWordsPerFlash].
func (p *Player) SetWordsPerFlash(n int) {
	p.state.WordsPerFlash = ClampWordsPerFlash(n)
	if len(p.stream) > 0 {
		p.emitProgress()
	}
}

// advance shows the next batch and schedules the tick after it, or finishes
// the session when the stream is exhausted.
func (p *Player) advance() {
	if p.state.Position >= len(p.stream) {
		p.finish()
		return
	}
	batch := p.batch()
	p.state.Position += len(batch)
	p.emit(Event{Type: EventFlash, Flash: flash.Compose(batch)})
	p.emitProgress()
	p.schedule(Delay(p.state.WordsPerMinute, p.state.WordsPerFlash, batch.MaxPacing()))
}

func (p *Player) finish() {
	p.cancel()
	p.emit(Event{Type: EventFlash, Flash: flash.Message(DoneMessage)})
	p.setPhase(PhaseFinished)
	p.emitProgress()
}

func (p *Player) batch() tokenize.Stream {
	end := p.state.Position + p.state.WordsPerFlash
	if end > len(p.stream) {
		end = len(p.stream)
	}
	return p.stream[p.state.Position:end]
}

func (p *Player) schedule(delay time.Duration) {
	p.seq++
	p.pending = p.seq
	p.timer.Schedule(delay, p.seq)
}

func (p *Player) cancel() {
	if p.pending == 0 {
		return
	}
	p.pending = 0
	p.timer.Cancel()
}

func (p *Player) setPhase(phase Phase) {
	if p.state.Phase == phase {
		return
	}
	p.logger.Debug("phase changed", "from", p.state.Phase, "to", phase, "position", p.state.Position)
	p.state.Phase = phase
	p.emit(Event{Type: EventPhaseChanged, Phase: phase})
}

func (p *Player) emitProgress() {
	p.emit(Event{Type: EventProgress, Progress: p.Progress()})
}

func (p *Player) emit(event Event) {
	if p.onEvent == nil {
		return
	}
	p.onEvent(event)
}
