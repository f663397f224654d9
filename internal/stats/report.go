package stats

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/quickread/internal/model"
)

// ReadLister is the part of the store a report needs.
type ReadLister interface {
	ListReads(ctx context.Context, filter model.HistoryFilter) ([]model.ReadRecord, error)
}

// Report contains loaded data for history rendering.
type Report struct {
	Reads []model.ReadRecord
}

// BuildReport loads reads matching filter.
func BuildReport(ctx context.Context, st ReadLister, filter model.HistoryFilter) (Report, error) {
	reads, err := st.ListReads(ctx, filter)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list reads: %w", err)
	}
	return Report{Reads: reads}, nil
}

// Render writes the summary, trend and table sections.
func (r Report) Render(w io.Writer, window int) error {
	if err := RenderSummary(w, r.Reads); err != nil {
		return err
	}
	if err := RenderTrend(w, r.Reads, window); err != nil {
		return err
	}
	return RenderReadTable(w, r.Reads)
}

type yamlRead struct {
	ID            string  `yaml:"id"`
	Source        string  `yaml:"source"`
	StartedAt     string  `yaml:"started_at"`
	EndedAt       string  `yaml:"ended_at"`
	WordsRead     int     `yaml:"words_read"`
	TotalWords    int     `yaml:"total_words"`
	WPM           int     `yaml:"wpm"`
	WordsPerFlash int     `yaml:"words_per_flash"`
	Completed     bool    `yaml:"completed"`
	EffectiveWPM  float64 `yaml:"effective_wpm"`
}

// RenderYAML exports the reads as a YAML list.
func (r Report) RenderYAML(w io.Writer) error {
	out := make([]yamlRead, 0, len(r.Reads))
	for _, rec := range r.Reads {
		out = append(out, yamlRead{
			ID:            rec.ID,
			Source:        rec.Source,
			StartedAt:     rec.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
			EndedAt:       rec.EndedAt.Format("2006-01-02T15:04:05Z07:00"),
			WordsRead:     rec.WordsRead,
			TotalWords:    rec.TotalWords,
			WPM:           rec.WPM,
			WordsPerFlash: rec.WordsPerFlash,
			Completed:     rec.Completed,
			EffectiveWPM:  EffectiveWPM(rec),
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}
