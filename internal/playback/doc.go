// Package playback implements the RSVP playback state machine.
//
// A Player owns the token stream, the read position, the pacing settings
// and a single pending timer. Every operation runs synchronously on the
// owner's goroutine; time only enters through a Timer, whose expiry is fed
// back with Player.Tick. Each schedule carries a fresh sequence number, so a
// tick that outlives a pause, stop or seek is ignored.
package playback
