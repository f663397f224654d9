package historyui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/quickread/internal/model"
)

type fakeLister struct {
	reads   []model.ReadRecord
	err     error
	filters []model.HistoryFilter
}

func (f *fakeLister) ListReads(_ context.Context, filter model.HistoryFilter) ([]model.ReadRecord, error) {
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	return f.reads, nil
}

func sampleReads() []model.ReadRecord {
	start := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	return []model.ReadRecord{
		{ID: "1", Source: "notes.txt", StartedAt: start, EndedAt: start.Add(time.Minute), WordsRead: 250, TotalWords: 250, WPM: 300, WordsPerFlash: 1, Completed: true},
		{ID: "2", Source: "pasted", StartedAt: start.Add(time.Hour), EndedAt: start.Add(time.Hour + 2*time.Minute), WordsRead: 500, TotalWords: 900, WPM: 350, WordsPerFlash: 2},
	}
}

func TestModelRendersOverviewAndReads(t *testing.T) {
	lister := &fakeLister{reads: sampleReads()}
	m := NewModel(lister, Filter{Window: 2})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()
	for _, want := range []string{"Overview", "Reads", "Completed", "750", "Best WPM", "250.0"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in overview:\n%s", want, view)
		}
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	view = m.View()
	for _, want := range []string{"notes.txt", "pasted", "500/900", "56%"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in reads table:\n%s", want, view)
		}
	}
}

func TestModelShowsLoadError(t *testing.T) {
	lister := &fakeLister{err: errors.New("database is locked")}
	m := NewModel(lister, Filter{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	view := m.View()
	if !strings.Contains(view, "Failed to load history.") || !strings.Contains(view, "database is locked") {
		t.Fatalf("expected load error in view:\n%s", view)
	}
}

func TestFilterFormAppliesValues(t *testing.T) {
	lister := &fakeLister{reads: sampleReads()}
	m := NewModel(lister, Filter{Window: 5})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	if !m.filterMode {
		t.Fatalf("expected filter mode")
	}
	m.filterInputs[1].SetValue("1")
	m.filterInputs[2].SetValue("3")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterMode {
		t.Fatalf("expected filter mode to close")
	}
	if m.cfg.Last != 1 || m.cfg.Window != 3 {
		t.Fatalf("unexpected filter: %+v", m.cfg)
	}
	last := lister.filters[len(lister.filters)-1]
	if last.Last != 1 || last.Since != nil {
		t.Fatalf("unexpected store filter: %+v", last)
	}
}

func TestFilterFormRejectsBadDate(t *testing.T) {
	m := NewModel(&fakeLister{}, Filter{})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	m.filterInputs[0].SetValue("yesterday")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.filterMode || m.filterError == "" {
		t.Fatalf("expected filter error, got mode=%v err=%q", m.filterMode, m.filterError)
	}
}

func TestParseFilter(t *testing.T) {
	cfg, err := parseFilter("2026-04-01", "10", "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Since == nil || cfg.Since.Day() != 1 || cfg.Last != 10 || cfg.Window != 1 {
		t.Fatalf("unexpected filter: %+v", cfg)
	}
	if _, err := parseFilter("", "-1", ""); err == nil {
		t.Fatalf("expected error for negative last")
	}
	if _, err := parseFilter("", "", "0"); err == nil {
		t.Fatalf("expected error for zero window")
	}
}

func TestWindowSteps(t *testing.T) {
	cases := []struct {
		in, next, prev int
	}{
		{1, 5, 1},
		{5, 10, 1},
		{7, 10, 5},
		{20, 25, 15},
	}
	for _, tc := range cases {
		if got := nextWindow(tc.in); got != tc.next {
			t.Fatalf("nextWindow(%d): expected %d, got %d", tc.in, tc.next, got)
		}
		if got := prevWindow(tc.in); got != tc.prev {
			t.Fatalf("prevWindow(%d): expected %d, got %d", tc.in, tc.prev, got)
		}
	}
}
