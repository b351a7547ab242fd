package tui

import (
	"testing"

	"github.com/JackWithOneEye/flowcanvas/internal/autoscroll"
	"github.com/JackWithOneEye/flowcanvas/internal/geom"
	"github.com/JackWithOneEye/flowcanvas/internal/protocol"
	"github.com/JackWithOneEye/flowcanvas/internal/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCanvas() *canvasModel {
	m := newCanvasModel("localhost:0")
	m.layout(80, 24)
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLayout(t *testing.T) {
	m := newTestCanvas()
	assert.Equal(t, 65, m.cols)
	assert.Equal(t, 22, m.rows)
	assert.Equal(t, geom.Rect{X: 150, Y: 20, Width: 650, Height: 440}, m.root())

	m.Update(tea.WindowSizeMsg{Width: 10, Height: 1})
	assert.Equal(t, 0, m.cols)
	assert.Equal(t, 0, m.rows)
}

func TestServerFrameAppliedOnTick(t *testing.T) {
	m := newTestCanvas()
	out := protocol.Output{
		State: viewport.State{Scale: 0.5, Scroll: geom.Delta{Left: -40, Top: -20}},
		Phase: autoscroll.PhaseTicking,
	}

	m.Update(wsMessage{Data: out.Bytes()})
	assert.Equal(t, 1.0, m.state.Scale, "frames are applied on tick")

	m.Update(tickMsg{})
	assert.Equal(t, out, m.state)
	assert.Nil(t, m.pendingData)
}

func TestBadServerFrame(t *testing.T) {
	m := newTestCanvas()
	m.Update(wsMessage{Data: []byte{1, 2}})
	m.Update(tickMsg{})
	require.Error(t, m.err)
	assert.Contains(t, m.View(), "Error:")
}

func TestZoomAnimation(t *testing.T) {
	m := newTestCanvas()
	m.Update(runes("+"))
	require.NotNil(t, m.zoom)
	assert.Equal(t, 1.25, m.zoomTarget)

	// a second step while animating starts from the target, which is the max
	m.Update(runes("+"))
	assert.Equal(t, 1.25, m.zoomTarget)

	for range 6 {
		m.Update(tickMsg{})
	}
	assert.Nil(t, m.zoom, "animation finished")
}

func TestZoomOutFloor(t *testing.T) {
	m := newTestCanvas()
	m.state.Scale = 0.25
	m.Update(runes("-"))
	assert.Nil(t, m.zoom, "already at the minimum")

	m.state.Scale = 0.5
	m.Update(runes("-"))
	require.NotNil(t, m.zoom)
	assert.Equal(t, 0.25, m.zoomTarget)

	m.Update(runes("0"))
	assert.Nil(t, m.zoom, "fit view cancels the animation")
}

func TestNodeAt(t *testing.T) {
	m := newTestCanvas()
	// Start sits at content (80, 80): canvas cell (8, 4)
	assert.Equal(t, 0, m.nodeAt(paletteWidth+1+8, headerLines+4))
	assert.Equal(t, 0, m.nodeAt(paletteWidth+1+19, headerLines+5))
	assert.Equal(t, -1, m.nodeAt(paletteWidth+1+7, headerLines+4))

	m.state.Scroll = geom.Delta{Left: -80}
	assert.Equal(t, 0, m.nodeAt(paletteWidth+1, headerLines+4))
}

func TestPaletteDrop(t *testing.T) {
	m := newTestCanvas()
	n := len(m.nodes)

	m.Update(tea.MouseMsg{X: 2, Y: headerLines + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	require.Equal(t, 0, m.dragItem)

	m.Update(tea.MouseMsg{X: 40, Y: 10, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	ev := m.dragEvent(protocol.DragOver)
	assert.Equal(t, 405.0, ev.ClientX)
	assert.Equal(t, 210.0, ev.ClientY)
	assert.Equal(t, m.root(), ev.Root)
	assert.Equal(t, paletteItemRect(0), ev.Target)

	m.Update(tea.MouseMsg{X: 40, Y: 10, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	assert.Equal(t, -1, m.dragItem)
	require.Len(t, m.nodes, n+1)
	assert.Equal(t, node{label: "Task", x: 195, y: 170}, m.nodes[n])
}

func TestPaletteDropOutsideCanvas(t *testing.T) {
	m := newTestCanvas()
	n := len(m.nodes)

	m.Update(tea.MouseMsg{X: 2, Y: headerLines + 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	require.Equal(t, 1, m.dragItem)
	m.Update(tea.MouseMsg{X: 3, Y: headerLines + 3, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	assert.Equal(t, -1, m.dragItem)
	assert.Len(t, m.nodes, n)
}

func TestBackgroundPan(t *testing.T) {
	m := newTestCanvas()
	m.Update(tea.MouseMsg{X: 30, Y: 15, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.True(t, m.pressed)

	m.Update(tea.MouseMsg{X: 28, Y: 16, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	assert.Equal(t, 28, m.lastX)
	assert.Equal(t, 16, m.lastY)

	m.Update(tea.MouseMsg{X: 28, Y: 16, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	assert.False(t, m.pressed)
}

func TestView(t *testing.T) {
	m := newTestCanvas()
	v := m.View()
	assert.Contains(t, v, "Palette")
	assert.Contains(t, v, "[Gateway]")
	assert.Contains(t, v, "Start")
	assert.Contains(t, v, "Zoom: 100%")
	assert.Contains(t, v, "Disconnected")
	assert.Contains(t, v, "·")

	// rows at scale 1 are one dot period apart and render the same string
	assert.Equal(t, 1, m.rowCache.Len())
}

func TestBackgroundRow(t *testing.T) {
	m := newTestCanvas()
	tile := m.globals.Background.At(m.state.State)

	row := []rune(m.backgroundRow(tile, 0))
	require.Len(t, row, m.cols)
	assert.Equal(t, '·', row[0])
	assert.Equal(t, ' ', row[1])
	assert.Equal(t, '·', row[2])

	m.state.Scroll = geom.Delta{Left: -10}
	row = []rune(m.backgroundRow(m.globals.Background.At(m.state.State), 0))
	assert.Equal(t, ' ', row[0])
	assert.Equal(t, '·', row[1])
}

func TestViewAtTinyScale(t *testing.T) {
	m := newTestCanvas()
	m.state.Scale = 1e-5
	v := m.View()
	assert.Contains(t, v, "Zoom:")
	assert.NotContains(t, v, "·")
}
