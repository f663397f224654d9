package playback

import (
	"math"
	"time"
)

const (
	MinWPM     = 100
	MaxWPM     = 1000
	DefaultWPM = 300
	WPMStep    = 25

	MinWordsPerFlash     = 1
	MaxWordsPerFlash     = 5
	DefaultWordsPerFlash = 1

	// MultiWordMultiplier stretches every delay when more than one word is shown.
	MultiWordMultiplier = 1.2
	// AveragePacing approximates mixed punctuation in time estimates.
	AveragePacing = 1.2
	// MinSeekWords is the smallest rewind/forward step before scaling by words per flash.
	MinSeekWords = 10
)

// ClampWPM bounds a reading speed to [MinWPM, MaxWPM].
func ClampWPM(wpm int) int {
	return clamp(wpm, MinWPM, MaxWPM)
}

// ClampWordsPerFlash bounds a batch width to [MinWordsPerFlash, MaxWordsPerFlash].
func ClampWordsPerFlash(n int) int {
	return clamp(n, MinWordsPerFlash, MaxWordsPerFlash)
}

// Delay returns how long a flash stays up. pacing is the largest multiplier
// among the flash's tokens.
func Delay(wpm, wordsPerFlash int, pacing float64) time.Duration {
	ms := baseDelayMs(wpm) * pacing
	if wordsPerFlash > 1 {
		ms *= MultiWordMultiplier
	}
	return msToDuration(ms)
}

// Estimate approximates the time needed to read words at the given settings.
// It uses AveragePacing rather than per-token multipliers.
func Estimate(words, wpm, wordsPerFlash int) time.Duration {
	if words <= 0 {
		return 0
	}
	wordsPerFlash = ClampWordsPerFlash(wordsPerFlash)
	flashes := float64(words) / float64(wordsPerFlash)
	ms := baseDelayMs(wpm) * AveragePacing
	if wordsPerFlash > 1 {
		ms *= MultiWordMultiplier
	}
	return msToDuration(flashes * ms)
}

// SeekStep returns the rewind/forward distance in words for a stream of total words.
func SeekStep(total, wordsPerFlash int) int {
	step := total / 20
	if step < MinSeekWords {
		step = MinSeekWords
	}
	return step * ClampWordsPerFlash(wordsPerFlash)
}

func baseDelayMs(wpm int) float64 {
	return 60000.0 / float64(ClampWPM(wpm))
}

func msToDuration(ms float64) time.Duration {
	return time.Duration(math.Round(ms * float64(time.Millisecond)))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
