package tui

import "github.com/charmbracelet/bubbles/key"

type readingKeys struct {
	PlayPause     key.Binding
	Rewind        key.Binding
	Forward       key.Binding
	Faster        key.Binding
	Slower        key.Binding
	WordsPerFlash key.Binding
	Stop          key.Binding
	Back          key.Binding
	Help          key.Binding
	Quit          key.Binding
}

type inputKeys struct {
	Start         key.Binding
	Faster        key.Binding
	Slower        key.Binding
	WordsPerFlash key.Binding
	Quit          key.Binding
}

var forceQuit = key.NewBinding(key.WithKeys("ctrl+c"))

func newReadingKeys() readingKeys {
	return readingKeys{
		PlayPause:     key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "play/pause")),
		Rewind:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "rewind")),
		Forward:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "forward")),
		Faster:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "faster")),
		Slower:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "slower")),
		WordsPerFlash: key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "words per flash")),
		Stop:          key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Back:          key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "pause/back")),
		Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:          key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

func (k readingKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Rewind, k.Forward, k.Faster, k.Slower, k.Help, k.Quit}
}

func (k readingKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.Stop, k.Back},
		{k.Rewind, k.Forward},
		{k.Faster, k.Slower, k.WordsPerFlash},
		{k.Help, k.Quit},
	}
}

func newInputKeys() inputKeys {
	return inputKeys{
		Start:         key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "start reading")),
		Faster:        key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "faster")),
		Slower:        key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "slower")),
		WordsPerFlash: key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "words per flash")),
		Quit:          key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "quit")),
	}
}

func (k inputKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Faster, k.Slower, k.WordsPerFlash, k.Quit}
}

func (k inputKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
