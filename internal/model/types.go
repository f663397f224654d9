// Package model defines shared data structures.
package model

import "time"

// Config defines reading settings after flags and the config file are merged.
type Config struct {
	WPM           int
	WordsPerFlash int
	RecordHistory bool
	Plain         bool
}

// HistoryFilter defines filters for history output.
type HistoryFilter struct {
	Since *time.Time
	Last  int
}

// ReadRecord captures one reading session once it ends.
type ReadRecord struct {
	ID            string
	Source        string
	StartedAt     time.Time
	EndedAt       time.Time
	WordsRead     int
	TotalWords    int
	WPM           int
	WordsPerFlash int
	Completed     bool
}

// Duration returns how long the session lasted.
func (r ReadRecord) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}
