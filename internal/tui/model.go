// Package tui provides the Bubble Tea reading interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/quickread/internal/flash"
	"github.com/verte-zerg/quickread/internal/history"
	"github.com/verte-zerg/quickread/internal/model"
	"github.com/verte-zerg/quickread/internal/playback"
	"github.com/verte-zerg/quickread/internal/tokenize"
)

// PastedSource labels text typed or pasted into the input view.
const PastedSource = "pasted"

// maxEditableText bounds how much preloaded text is copied into the paste box.
const maxEditableText = 64 << 10

type viewMode int

const (
	modeInput viewMode = iota
	modeReading
)

// Options configures a Model.
type Options struct {
	Config model.Config
	// Source and Text preload a document and open the reading view. An
	// empty Text opens the paste box instead.
	Source  string
	Text    string
	Tracker *history.Tracker
	Logger  *slog.Logger
}

// Model implements the Bubble Tea reading UI.
type Model struct {
	logger  *slog.Logger
	player  *playback.Player
	timer   *tickTimer
	tracker *history.Tracker

	readingKeys readingKeys
	inputKeys   inputKeys
	help        help.Model
	input       textarea.Model
	bar         progress.Model

	mode     viewMode
	source   string
	layout   flash.Layout
	progress playback.Progress
	phase    playback.Phase
	status   string
	errMsg   string

	width  int
	height int
}

// NewModel constructs a reading TUI model. It returns playback.ErrEmptyInput
// when preloaded text has no readable words.
func NewModel(opts Options) (*Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	tracker := opts.Tracker
	if tracker == nil {
		tracker = history.NewTracker(nil, logger)
	}
	m := &Model{
		logger:      logger,
		timer:       &tickTimer{},
		tracker:     tracker,
		readingKeys: newReadingKeys(),
		inputKeys:   newInputKeys(),
		help:        help.New(),
		input:       newInput(),
		bar:         progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		phase:       playback.PhaseIdle,
	}
	m.player = playback.New(m.timer, playback.Options{
		WordsPerMinute: opts.Config.WPM,
		WordsPerFlash:  opts.Config.WordsPerFlash,
		OnEvent:        m.handleEvent,
		Logger:         logger,
	})
	if opts.Text == "" {
		m.input.Focus()
		return m, nil
	}
	if err := m.startText(opts.Source, opts.Text); err != nil {
		return nil, err
	}
	if len(opts.Text) <= maxEditableText {
		m.input.SetValue(opts.Text)
	}
	return m, nil
}

func newInput() textarea.Model {
	input := textarea.New()
	input.Placeholder = "Paste or type the text to read..."
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.MaxHeight = 0
	return input
}

// autoStartMsg starts playback of preloaded text once the program runs.
type autoStartMsg struct{}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.mode == modeInput {
		return textarea.Blink
	}
	return func() tea.Msg { return autoStartMsg{} }
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case autoStartMsg:
		if m.mode == modeReading && m.phase == playback.PhaseIdle {
			m.player.Resume()
		}
		return m, m.timer.take()
	case tickMsg:
		m.player.Tick(msg.seq)
		m.recordIfFinished()
		return m, m.timer.take()
	case tea.KeyMsg:
		if key.Matches(msg, forceQuit) {
			m.endRead()
			return m, tea.Quit
		}
		if m.mode == modeInput {
			return m.updateInput(msg)
		}
		return m.updateReading(msg)
	}
	if m.mode == modeInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.inputKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.inputKeys.Start):
		if err := m.startText(PastedSource, m.input.Value()); err != nil {
			if errors.Is(err, playback.ErrEmptyInput) {
				m.errMsg = "Nothing to read yet: paste some text first."
				return m, nil
			}
			m.errMsg = err.Error()
			return m, nil
		}
		m.input.Blur()
		m.player.Resume()
		return m, m.timer.take()
	case key.Matches(msg, m.inputKeys.Faster):
		m.player.AdjustSpeed(playback.WPMStep)
		return m, nil
	case key.Matches(msg, m.inputKeys.Slower):
		m.player.AdjustSpeed(-playback.WPMStep)
		return m, nil
	case key.Matches(msg, m.inputKeys.WordsPerFlash):
		next := m.player.State().WordsPerFlash%playback.MaxWordsPerFlash + 1
		m.player.SetWordsPerFlash(next)
		return m, nil
	}
	m.errMsg = ""
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateReading(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.readingKeys.Quit):
		m.endRead()
		return m, tea.Quit
	case key.Matches(msg, m.readingKeys.PlayPause):
		m.player.TogglePlayPause()
	case key.Matches(msg, m.readingKeys.Rewind):
		m.player.Rewind()
		m.status = fmt.Sprintf("Rewound to word %d", m.player.State().Position+1)
	case key.Matches(msg, m.readingKeys.Forward):
		m.player.Forward()
		m.status = fmt.Sprintf("Skipped to word %d", m.player.State().Position+1)
	case key.Matches(msg, m.readingKeys.Faster):
		m.player.AdjustSpeed(playback.WPMStep)
	case key.Matches(msg, m.readingKeys.Slower):
		m.player.AdjustSpeed(-playback.WPMStep)
	case key.Matches(msg, m.readingKeys.WordsPerFlash):
		m.player.SetWordsPerFlash(int(msg.Runes[0] - '0'))
	case key.Matches(msg, m.readingKeys.Stop):
		m.player.Stop()
		m.status = "Stopped"
	case key.Matches(msg, m.readingKeys.Back):
		if m.phase == playback.PhasePlaying {
			m.player.Pause()
			break
		}
		m.endRead()
		m.player.Stop()
		m.mode = modeInput
		m.status = ""
		return m, m.input.Focus()
	case key.Matches(msg, m.readingKeys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, m.timer.take()
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.mode == modeInput {
		return m.viewInput()
	}
	return m.viewReading()
}

func (m *Model) viewInput() string {
	state := m.player.State()
	lines := []string{
		titleStyle.Render("quickread"),
		m.input.View(),
		renderInputInfo(tokenize.CountWords(m.input.Value()), state.WordsPerMinute, state.WordsPerFlash),
	}
	if m.errMsg != "" {
		lines = append(lines, errorStyle.Render(m.errMsg))
	}
	lines = append(lines, m.help.View(m.inputKeys))
	content := strings.Join(lines, "\n")
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) viewReading() string {
	width := m.contentWidth()
	flashBlock := strings.Join([]string{
		padToWidth(renderGuide(width), width),
		padToWidth(renderFlash(m.layout, width), width),
		padToWidth(renderGuide(width), width),
	}, "\n")
	bar := m.bar.ViewAs(m.progress.Fraction) + "  " + footerStyle.Render(renderRemaining(m.progress))
	footer := []string{
		bar,
		renderStatus(m.status, m.player.State(), m.progress),
		footerStyle.Render(truncateSource(m.source, width)),
		m.help.View(m.readingKeys),
	}
	if m.width == 0 || m.height == 0 {
		return flashBlock + "\n\n" + strings.Join(footer, "\n")
	}
	footerBlock := lipgloss.JoinVertical(lipgloss.Center, footer...)
	bodyHeight := m.height - lipgloss.Height(footerBlock)
	if bodyHeight < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, flashBlock)
	}
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, flashBlock)
	footerLines := lipgloss.Place(m.width, lipgloss.Height(footerBlock), lipgloss.Center, lipgloss.Bottom, footerBlock)
	return body + "\n" + footerLines
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	m.input.SetWidth(max(20, min(width-4, 100)))
	m.input.SetHeight(max(3, height-8))
	m.bar.Width = max(10, min(width-16, 60))
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 60
	}
	return max(1, int(float64(m.width)*0.70))
}

// startText loads text into the Player and switches to the reading view,
// closing the previous read first.
func (m *Model) startText(source, text string) error {
	m.endRead()
	if err := m.player.StartText(text); err != nil {
		return err
	}
	m.source = source
	m.tracker.Begin(source, m.player.Len())
	m.layout = m.player.Peek()
	m.mode = modeReading
	m.status = "Press space to start"
	m.errMsg = ""
	return nil
}

func (m *Model) handleEvent(ev playback.Event) {
	m.tracker.Observe(ev)
	switch ev.Type {
	case playback.EventFlash:
		m.layout = ev.Flash
	case playback.EventProgress:
		m.progress = ev.Progress
	case playback.EventCleared:
		m.layout = flash.Layout{}
	case playback.EventPhaseChanged:
		m.phase = ev.Phase
		switch ev.Phase {
		case playback.PhasePlaying:
			m.status = ""
		case playback.PhasePaused:
			m.status = "Paused"
		case playback.PhaseFinished:
			m.status = fmt.Sprintf("Finished! %d words", m.progress.Total)
		}
	}
}

// recordIfFinished saves a completed read and starts tracking a replay.
func (m *Model) recordIfFinished() {
	if m.phase != playback.PhaseFinished {
		return
	}
	m.endRead()
	m.tracker.Begin(m.source, m.player.Len())
}

func (m *Model) endRead() {
	if err := m.tracker.End(context.Background(), m.player.State()); err != nil {
		m.logger.Error("failed to record read", "err", err)
	}
}
