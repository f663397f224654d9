package playback

import (
	"time"

	"github.com/verte-zerg/quickread/internal/flash"
)

// EventType identifies what a Player event carries.
type EventType string

const (
	EventFlash        EventType = "flash"
	EventProgress     EventType = "progress"
	EventPhaseChanged EventType = "phase_changed"
	EventCleared      EventType = "cleared"
)

// Progress describes how far into the stream playback is.
type Progress struct {
	Fraction  float64
	Position  int
	Total     int
	Remaining time.Duration
}

// Event is delivered synchronously to the Player's handler.
type Event struct {
	Type     EventType
	Flash    flash.Layout
	Progress Progress
	Phase    Phase
}
