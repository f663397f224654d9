package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type tickMsg struct {
	seq uint64
}

// tickTimer turns Player schedules into tea.Tick commands. A command that
// already left for the runtime cannot be recalled; the Player drops its
// tick by sequence number.
type tickTimer struct {
	cmd tea.Cmd
}

func (t *tickTimer) Schedule(delay time.Duration, seq uint64) {
	t.cmd = tea.Tick(delay, func(time.Time) tea.Msg {
		return tickMsg{seq: seq}
	})
}

func (t *tickTimer) Cancel() {
	t.cmd = nil
}

// take hands the pending command to Update's caller.
func (t *tickTimer) take() tea.Cmd {
	cmd := t.cmd
	t.cmd = nil
	return cmd
}
