package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpToggle(t *testing.T) {
	m := NewUIModel("localhost:0")
	m.Init()

	m.Update(runes("?"))
	require.True(t, m.helpVisible)
	assert.Contains(t, m.View(), "zoom in")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	msg := cmd()
	// the help model's close command comes back batched
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c == nil {
				continue
			}
			if closed, ok := c().(helpClosedMessage); ok {
				msg = closed
			}
		}
	}
	m.Update(msg)
	assert.False(t, m.helpVisible)
}

func TestKeysGoToCanvasWhenHelpHidden(t *testing.T) {
	m := NewUIModel("localhost:0")
	m.Init()

	m.Update(runes("+"))
	c := m.canvas.(*canvasModel)
	assert.NotNil(t, c.zoom)
}

func TestMouseIgnoredUnderHelp(t *testing.T) {
	m := NewUIModel("localhost:0")
	m.Init()
	m.Update(runes("?"))

	m.Update(tea.MouseMsg{X: 2, Y: headerLines + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, -1, m.canvas.(*canvasModel).dragItem)
}

func TestQuit(t *testing.T) {
	m := NewUIModel("localhost:0")
	m.Init()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}
