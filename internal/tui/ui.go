// Package tui is a terminal client for the canvas session.
package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

type quitMessage struct{}

type UIModel struct {
	apiHost     string
	canvas      tea.Model
	help        tea.Model
	overlay     tea.Model
	helpVisible bool
}

func NewUIModel(apiHost string) *UIModel {
	return &UIModel{apiHost: apiHost}
}

func (m *UIModel) Init() tea.Cmd {
	cmds := []tea.Cmd{}

	if m.apiHost == "" {
		m.apiHost = "localhost:8080"
	}
	m.canvas = newCanvasModel(m.apiHost)
	cmds = append(cmds, m.canvas.Init())

	m.help = newHelpModel()
	cmds = append(cmds, m.help.Init())

	m.helpVisible = false
	m.overlay = overlay.New(m.help, m.canvas, overlay.Center, overlay.Center, 0, 0)
	cmds = append(cmds, m.overlay.Init())

	return tea.Batch(cmds...)
}

func (m *UIModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{}

	passToCanvas := func() {
		cm, cmd := m.canvas.Update(message)
		m.canvas = cm
		cmds = append(cmds, cmd)
	}

	passToHelp := func() {
		hm, cmd := m.help.Update(message)
		m.help = hm
		cmds = append(cmds, cmd)
	}

	switch msg := message.(type) {
	case helpClosedMessage:
		m.helpVisible = false
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.canvas.Update(quitMessage{})
			return m, tea.Quit
		case !m.helpVisible && key.Matches(msg, keys.Help):
			m.helpVisible = true
			return m, nil
		}
		if m.helpVisible {
			passToHelp()
		} else {
			passToCanvas()
		}
	case tea.MouseMsg:
		if !m.helpVisible {
			passToCanvas()
		}
	default:
		passToCanvas()
	}

	return m, tea.Batch(cmds...)
}

func (m *UIModel) View() string {
	if m.helpVisible {
		return m.overlay.View()
	}
	return m.canvas.View()
}
