package playback

import "context"

// Run drives p with timer on the calling goroutine until nothing is
// scheduled (the session finished or was paused) or ctx is done. A
// cancelled context pauses playback before returning ctx.Err().
func Run(ctx context.Context, p *Player, timer *ChanTimer) error {
	for {
		c := timer.C()
		if c == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			p.Pause()
			return ctx.Err()
		case <-c:
			p.Tick(timer.fired())
		}
	}
}
