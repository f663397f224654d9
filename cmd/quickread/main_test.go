package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/quickread/internal/config"
	"github.com/verte-zerg/quickread/internal/playback"
	"github.com/verte-zerg/quickread/internal/source"
)

func TestDefaultConfigTemplateParses(t *testing.T) {
	commented := regexp.MustCompile(`(?m)^# ([a-z-]+ = )`)
	uncommented := commented.ReplaceAllString(defaultConfigTemplate(), "$1")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(uncommented), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v\n%s", err, uncommented)
	}
	if cfg.Reading.WPM == nil || *cfg.Reading.WPM != playback.DefaultWPM {
		t.Fatalf("expected default wpm, got %v", cfg.Reading.WPM)
	}
	if cfg.Reading.WordsPerFlash == nil || *cfg.Reading.WordsPerFlash != playback.DefaultWordsPerFlash {
		t.Fatalf("expected default words per flash, got %v", cfg.Reading.WordsPerFlash)
	}
	if cfg.Reading.RecordHistory == nil || !*cfg.Reading.RecordHistory {
		t.Fatalf("expected record-history true")
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != defaultLogLevel {
		t.Fatalf("expected default log level, got %v", cfg.Log.Level)
	}
}

func TestApplyIntConfigRespectsFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	var wpm, wpf int
	cmd.Flags().IntVar(&wpm, "wpm", 300, "")
	cmd.Flags().IntVar(&wpf, "wpf", 1, "")
	if err := cmd.Flags().Set("wpm", "450"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	fromFile := 600
	applyIntConfig(cmd, "wpm", &wpm, &fromFile)
	applyIntConfig(cmd, "wpf", &wpf, &fromFile)
	applyIntConfig(cmd, "wpf", &wpf, nil)
	if wpm != 450 {
		t.Fatalf("expected flag value to win, got %d", wpm)
	}
	if wpf != 600 {
		t.Fatalf("expected config value, got %d", wpf)
	}
}

func TestParseSince(t *testing.T) {
	since, err := parseSince("")
	if err != nil || since != nil {
		t.Fatalf("expected no filter, got %v %v", since, err)
	}
	since, err = parseSince("2026-02-03")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if since.Year() != 2026 || since.Month() != 2 || since.Day() != 3 {
		t.Fatalf("unexpected date: %v", since)
	}
	if _, err := parseSince("03/02/2026"); err == nil {
		t.Fatalf("expected error for bad date")
	}
}

func TestWriteEstimate(t *testing.T) {
	var buf bytes.Buffer
	text := source.Text{Label: "notes.txt", Body: strings.Repeat("word ", 300)}
	if err := writeEstimate(&buf, text, 300, 1); err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if buf.String() != "notes.txt: 300 words, ~1:12 at 300 WPM (1 per flash)\n" {
		t.Fatalf("unexpected estimate: %q", buf.String())
	}

	buf.Reset()
	if err := writeEstimate(&buf, text, 5000, 9); err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if !strings.Contains(buf.String(), "at 1000 WPM (5 per flash)") {
		t.Fatalf("expected clamped settings, got %q", buf.String())
	}
}

func TestEmptyTextError(t *testing.T) {
	err := emptyTextError("notes.txt", playback.ErrEmptyInput)
	if !errors.Is(err, playback.ErrEmptyInput) || !strings.HasPrefix(err.Error(), "notes.txt: ") {
		t.Fatalf("unexpected error: %v", err)
	}
	other := errors.New("boom")
	if got := emptyTextError("notes.txt", other); got != other {
		t.Fatalf("expected other errors unchanged, got %v", got)
	}
}
