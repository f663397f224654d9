// Package stats contains reading history calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/quickread/internal/model"
)

const sparkChars = " .:-=+*#%@"

// EffectiveWPM returns the words actually read per minute of wall-clock time.
func EffectiveWPM(rec model.ReadRecord) float64 {
	minutes := rec.Duration().Minutes()
	if minutes <= 0 {
		return 0
	}
	return float64(rec.WordsRead) / minutes
}

// Completion returns the fraction of the text that was read.
func Completion(rec model.ReadRecord) float64 {
	if rec.TotalWords <= 0 {
		return 0
	}
	return float64(rec.WordsRead) / float64(rec.TotalWords)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints totals across reads.
func RenderSummary(w io.Writer, reads []model.ReadRecord) error {
	if len(reads) == 0 {
		_, err := fmt.Fprintln(w, "No reads found.")
		return err
	}
	var totalWords, completed int
	var totalTime time.Duration
	var totalWPM, bestWPM float64
	for _, rec := range reads {
		totalWords += rec.WordsRead
		totalTime += rec.Duration()
		if rec.Completed {
			completed++
		}
		wpm := EffectiveWPM(rec)
		totalWPM += wpm
		bestWPM = math.Max(bestWPM, wpm)
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Reads: %d (%d completed)", len(reads), completed),
		fmt.Sprintf("Words read: %d", totalWords),
		fmt.Sprintf("Time reading: %s", FormatClock(totalTime)),
		fmt.Sprintf("Avg effective WPM: %.1f", totalWPM/float64(len(reads))),
		fmt.Sprintf("Best effective WPM: %.1f", bestWPM),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTrend prints a sparkline of effective WPM smoothed over window reads.
func RenderTrend(w io.Writer, reads []model.ReadRecord, window int) error {
	if len(reads) < 2 {
		return nil
	}
	values := make([]float64, len(reads))
	for i, rec := range reads {
		values[i] = EffectiveWPM(rec)
	}
	_, err := fmt.Fprintf(w, "Effective WPM trend: [%s]\n\n", Sparkline(MovingAverage(values, window)))
	return err
}

// FormatClock renders a duration as m:ss, truncating to whole seconds.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
