package playback

// Phase is the playback state machine mode.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhasePlaying  Phase = "playing"
	PhasePaused   Phase = "paused"
	PhaseFinished Phase = "finished"
)

// State is a snapshot of the Player's mutable fields.
type State struct {
	Position       int
	Total          int
	WordsPerFlash  int
	WordsPerMinute int
	Phase          Phase
}
