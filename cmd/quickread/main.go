// Package main provides the CLI entrypoint for quickread.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/quickread/internal/config"
	"github.com/verte-zerg/quickread/internal/history"
	"github.com/verte-zerg/quickread/internal/historyui"
	"github.com/verte-zerg/quickread/internal/logs"
	"github.com/verte-zerg/quickread/internal/model"
	"github.com/verte-zerg/quickread/internal/plain"
	"github.com/verte-zerg/quickread/internal/playback"
	"github.com/verte-zerg/quickread/internal/source"
	"github.com/verte-zerg/quickread/internal/stats"
	"github.com/verte-zerg/quickread/internal/store"
	"github.com/verte-zerg/quickread/internal/tokenize"
	"github.com/verte-zerg/quickread/internal/tui"
)

const (
	defaultTrendWindow = 5
	defaultLogLevel    = "warn"
)

var (
	readWPM           int
	readWordsPerFlash int
	readPlain         bool
	readNoHistory     bool
	readLogFile       string
	readLogLevel      string

	estimateWPM           int
	estimateWordsPerFlash int

	historySince  string
	historyLast   int
	historyWindow int
	historyText   bool
	historyYAML   bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "quickread [file|-]",
		Short: "Terminal RSVP speed reader",
		Long: "Flash text word by word, centred on each word's optimal recognition point.\n" +
			"Reads a text or PDF file, piped stdin (or -), or text pasted into the input view.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runReadCmd,
	}

	rootCmd.Flags().IntVar(&readWPM, "wpm", playback.DefaultWPM, fmt.Sprintf("words per minute (%d-%d)", playback.MinWPM, playback.MaxWPM))
	rootCmd.Flags().IntVar(&readWordsPerFlash, "wpf", playback.DefaultWordsPerFlash, fmt.Sprintf("words per flash (%d-%d)", playback.MinWordsPerFlash, playback.MaxWordsPerFlash))
	rootCmd.Flags().BoolVar(&readPlain, "plain", false, "flash on a single line instead of the full-screen UI")
	rootCmd.Flags().BoolVar(&readNoHistory, "no-history", false, "do not record this read in the history")
	rootCmd.Flags().StringVar(&readLogFile, "log-file", "", "write JSON logs to this file")
	rootCmd.Flags().StringVar(&readLogLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newEstimateCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func runReadCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "wpm", &readWPM, fileCfg.Reading.WPM)
	applyIntConfig(cmd, "wpf", &readWordsPerFlash, fileCfg.Reading.WordsPerFlash)
	applyStringConfig(cmd, "log-file", &readLogFile, fileCfg.Log.File)
	applyStringConfig(cmd, "log-level", &readLogLevel, fileCfg.Log.Level)
	recordHistory := !readNoHistory
	if fileCfg.Reading.RecordHistory != nil && !cmd.Flags().Changed("no-history") {
		recordHistory = *fileCfg.Reading.RecordHistory
	}

	text, err := loadText(args)
	if err != nil {
		return err
	}
	usePlain := readPlain || !isTerminal(os.Stdout)
	if usePlain && text.Body == "" {
		return fmt.Errorf("no text to read: pass a file, pipe text on stdin, or run in a terminal")
	}

	cfg := model.Config{
		WPM:           readWPM,
		WordsPerFlash: readWordsPerFlash,
		RecordHistory: recordHistory,
		Plain:         usePlain,
	}

	logger, closeLog, err := logs.New(logs.Options{Level: readLogLevel, Stderr: cfg.Plain, File: readLogFile})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() {
		if cerr := closeLog(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}()

	var saver history.Saver
	if cfg.RecordHistory {
		st, err := store.Open(config.DefaultDBPath())
		if err != nil {
			logErrf("history disabled: failed to open db: %v\n", err)
		} else {
			saver = st
			defer func() {
				if cerr := st.Close(); cerr != nil {
					logErrf("failed to close db: %v\n", cerr)
				}
			}()
		}
	}
	tracker := history.NewTracker(saver, logger)
	logger.Debug("starting reader", "source", text.Label, "wpm", cfg.WPM, "wpf", cfg.WordsPerFlash, "plain", cfg.Plain)

	if cfg.Plain {
		return runPlain(cfg, text, tracker, logger)
	}

	m, err := tui.NewModel(tui.Options{
		Config:  cfg,
		Source:  text.Label,
		Text:    text.Body,
		Tracker: tracker,
		Logger:  logger,
	})
	if err != nil {
		return emptyTextError(text.Label, err)
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func runPlain(cfg model.Config, text source.Text, tracker *history.Tracker, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	width, terminal := plain.Detect(os.Stdout)
	presenter := plain.NewPresenter(os.Stdout, width, terminal)
	err := plain.Read(ctx, presenter, text.Label, text.Body, plain.Options{
		Config:  cfg,
		Tracker: tracker,
		Logger:  logger,
	})
	if err != nil {
		return emptyTextError(text.Label, err)
	}
	return nil
}

// loadText resolves the positional argument. Without one, piped stdin is
// read; an interactive stdin yields an empty text for the paste box.
func loadText(args []string) (source.Text, error) {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	switch {
	case path == "-" || (path == "" && !isTerminal(os.Stdin)):
		text, err := source.Read(os.Stdin, source.StdinLabel)
		if err != nil {
			return source.Text{}, err
		}
		return text, nil
	case path != "":
		return source.LoadFile(path)
	default:
		return source.Text{}, nil
	}
}

func emptyTextError(label string, err error) error {
	if errors.Is(err, playback.ErrEmptyInput) {
		return fmt.Errorf("%s: %w", label, err)
	}
	return err
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newEstimateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate [file|-]",
		Short: "Count words and estimate reading time",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEstimateCmd,
	}
	cmd.Flags().IntVar(&estimateWPM, "wpm", playback.DefaultWPM, "words per minute")
	cmd.Flags().IntVar(&estimateWordsPerFlash, "wpf", playback.DefaultWordsPerFlash, "words per flash")
	return cmd
}

func runEstimateCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "wpm", &estimateWPM, fileCfg.Reading.WPM)
	applyIntConfig(cmd, "wpf", &estimateWordsPerFlash, fileCfg.Reading.WordsPerFlash)

	text, err := loadText(args)
	if err != nil {
		return err
	}
	if text.Body == "" {
		return fmt.Errorf("no text to estimate: pass a file or pipe text on stdin")
	}
	return writeEstimate(cmd.OutOrStdout(), text, estimateWPM, estimateWordsPerFlash)
}

func writeEstimate(w io.Writer, text source.Text, wpm, wordsPerFlash int) error {
	wpm = playback.ClampWPM(wpm)
	wordsPerFlash = playback.ClampWordsPerFlash(wordsPerFlash)
	words := tokenize.CountWords(text.Body)
	estimate := playback.Estimate(words, wpm, wordsPerFlash)
	if _, err := fmt.Fprintf(w, "%s: %d words, ~%s at %d WPM (%d per flash)\n", text.Label, words, stats.FormatClock(estimate), wpm, wordsPerFlash); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show reading history",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N reads")
	cmd.Flags().IntVar(&historyWindow, "window", defaultTrendWindow, "moving average window for the WPM trend")
	cmd.Flags().BoolVar(&historyText, "text", false, "print a text report instead of opening the browser")
	cmd.Flags().BoolVar(&historyYAML, "yaml", false, "export reads as YAML")
	cmd.MarkFlagsMutuallyExclusive("text", "yaml")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	since, err := parseSince(historySince)
	if err != nil {
		return err
	}
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if historyWindow < 1 {
		return fmt.Errorf("--window must be >= 1")
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	out := cmd.OutOrStdout()
	if historyYAML || historyText || !isTerminal(os.Stdout) {
		report, err := stats.BuildReport(context.Background(), st, model.HistoryFilter{Since: since, Last: historyLast})
		if err != nil {
			return err
		}
		if historyYAML {
			return report.RenderYAML(out)
		}
		return report.Render(out, historyWindow)
	}

	m := historyui.NewModel(st, historyui.Filter{Since: since, Last: historyLast, Window: historyWindow})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func parseSince(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid --since value: %w", err)
	}
	return &parsed, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# quickread configuration
# Uncomment a value to enable it. CLI flags override config values.

[reading]
# wpm = %d                # Words per minute (%d-%d)
# words-per-flash = %d     # Words shown per flash (%d-%d)
# record-history = true   # Record reads for 'quickread history'

[log]
# file = %q
# level = %q          # debug, info, warn or error
`,
		playback.DefaultWPM, playback.MinWPM, playback.MaxWPM,
		playback.DefaultWordsPerFlash, playback.MinWordsPerFlash, playback.MaxWordsPerFlash,
		config.DefaultLogPath(),
		defaultLogLevel,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
