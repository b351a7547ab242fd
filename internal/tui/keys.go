package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left    key.Binding
	Right   key.Binding
	Up      key.Binding
	Down    key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	FitView key.Binding
	Help    key.Binding
	Close   key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Left:    key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←/h", "pan left")),
	Right:   key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("→/l", "pan right")),
	Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "pan up")),
	Down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "pan down")),
	ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
	ZoomOut: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
	FitView: key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "fit view")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Close:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.ZoomIn, k.ZoomOut, k.FitView},
		{k.Help, k.Close, k.Quit},
	}
}
