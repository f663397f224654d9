package playback

import "time"

// Timer arranges at most one delayed tick for a Player. Expiry must be
// delivered by calling Player.Tick with the scheduled seq on the goroutine
// that owns the Player.
type Timer interface {
	Schedule(delay time.Duration, seq uint64)
	Cancel()
}

// ManualTimer records schedules without a clock. Tests fire it explicitly.
type ManualTimer struct {
	Delay   time.Duration
	Seq     uint64
	Pending bool
	Delays  []time.Duration
	Cancels int
}

// Schedule implements Timer.
func (t *ManualTimer) Schedule(delay time.Duration, seq uint64) {
	t.Delay = delay
	t.Seq = seq
	t.Pending = true
	t.Delays = append(t.Delays, delay)
}

// Cancel implements Timer.
func (t *ManualTimer) Cancel() {
	if t.Pending {
		t.Cancels++
	}
	t.Pending = false
}

// Fire delivers the pending tick to p. It reports false when nothing is pending.
func (t *ManualTimer) Fire(p *Player) bool {
	if !t.Pending {
		return false
	}
	t.Pending = false
	p.Tick(t.Seq)
	return true
}

// ChanTimer backs schedules with time.Timer. Run drains it.
type ChanTimer struct {
	timer *time.Timer
	seq   uint64
}

// NewChanTimer returns an idle ChanTimer.
func NewChanTimer() *ChanTimer {
	return &ChanTimer{}
}

// Schedule implements Timer.
func (t *ChanTimer) Schedule(delay time.Duration, seq uint64) {
	t.Cancel()
	t.timer = time.NewTimer(delay)
	t.seq = seq
}

// Cancel implements Timer.
func (t *ChanTimer) Cancel() {
	if t.timer == nil {
		return
	}
	t.timer.Stop()
	t.timer = nil
}

// C returns the expiry channel of the pending schedule, or nil when idle.
func (t *ChanTimer) C() <-chan time.Time {
	if t.timer == nil {
		return nil
	}
	return t.timer.C
}

func (t *ChanTimer) fired() uint64 {
	t.timer = nil
	return t.seq
}
