package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/JackWithOneEye/flowcanvas/cmd/web"
	"github.com/JackWithOneEye/flowcanvas/internal/background"
	"github.com/JackWithOneEye/flowcanvas/internal/controls"
	"github.com/JackWithOneEye/flowcanvas/internal/geom"
	"github.com/JackWithOneEye/flowcanvas/internal/lrucache"
	"github.com/JackWithOneEye/flowcanvas/internal/protocol"
	"github.com/JackWithOneEye/flowcanvas/internal/viewport"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/coder/websocket"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// tickMsg is sent every 1/30th second to trigger UI updates
type tickMsg struct{}

const frameRate = 30

// One terminal cell stands for a cellWidth x cellHeight px area of the
// viewport.
const (
	cellWidth  = 10.0
	cellHeight = 20.0
)

const (
	headerLines  = 1
	statusLines  = 1
	paletteWidth = 14

	wheelStep  = 60.0
	arrowStep  = 4 * cellWidth
	zoomTime   = 0.15 // seconds
	nodeWidth  = 120.0
	nodeHeight = 40.0
)

var contentSize = geom.Size{Width: 1400, Height: 900}

type node struct {
	label string
	x, y  float64 // unscaled content px
}

func sampleNodes() []node {
	return []node{
		{"Start", 80, 80},
		{"Fetch", 420, 160},
		{"Decide", 760, 80},
		{"End", 1100, 320},
	}
}

var paletteItems = []string{"Task", "Gateway", "Event"}

type rowKey struct {
	size, radius   float64
	phaseX, phaseY float64
	cols           int
}

type canvasModel struct {
	apiHost   string
	conn      *websocket.Conn
	connected bool
	err       error
	globals   web.Globals
	state     protocol.Output

	termWidth, termHeight int
	cols, rows            int

	nodes []node

	// pointer state
	pressed      bool
	lastX, lastY int
	dragItem     int // palette index, -1 when no palette drag
	dragX, dragY int

	zoom       *gween.Tween
	zoomTarget float64

	pendingData []byte
	rowCache    lrucache.LruCache[rowKey, string]
}

func newCanvasModel(apiHost string) *canvasModel {
	return &canvasModel{
		apiHost:    apiHost,
		globals:    defaultGlobals(),
		state:      protocol.Output{State: viewport.State{Scale: 1}},
		termWidth:  80,
		termHeight: 24,
		nodes:      sampleNodes(),
		dragItem:   -1,
		rowCache:   lrucache.NewLruCache[rowKey, string](512),
	}
}

func defaultGlobals() web.Globals {
	return web.Globals{
		Zoom:       controls.DefaultPanel(),
		Background: background.DefaultPattern(),
	}
}

// tick returns a command that sends a tickMsg every 1/30th second (30 FPS)
func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m *canvasModel) Init() tea.Cmd {
	m.layout(m.termWidth, m.termHeight)
	return tea.Batch(connectToAPI(m.apiHost), tick())
}

// layout sizes the canvas area for a terminal of w x h cells.
func (m *canvasModel) layout(w, h int) {
	m.termWidth, m.termHeight = w, h
	m.cols = max(w-paletteWidth-1, 0)
	m.rows = max(h-headerLines-statusLines, 0)
}

// root is the viewport rectangle in client px.
func (m *canvasModel) root() geom.Rect {
	return geom.Rect{
		X:      float64(paletteWidth+1) * cellWidth,
		Y:      float64(headerLines) * cellHeight,
		Width:  float64(m.cols) * cellWidth,
		Height: float64(m.rows) * cellHeight,
	}
}

func (m *canvasModel) containerSize() geom.Size {
	r := m.root()
	return geom.Size{Width: r.Width, Height: r.Height}
}

// clientPos returns the centre of terminal cell (x, y) in client px.
func clientPos(x, y int) (float64, float64) {
	return (float64(x) + 0.5) * cellWidth, (float64(y) + 0.5) * cellHeight
}

func (m *canvasModel) inCanvas(x, y int) bool {
	return x > paletteWidth && x <= paletteWidth+m.cols && y >= headerLines && y < headerLines+m.rows
}

// paletteItemAt returns the palette item drawn on terminal row y.
func paletteItemAt(x, y int) int {
	if x >= paletteWidth {
		return -1
	}
	i := y - headerLines - 1
	if i < 0 || i%2 != 0 || i/2 >= len(paletteItems) {
		return -1
	}
	return i / 2
}

func paletteItemRect(i int) geom.Rect {
	return geom.Rect{
		X:      0,
		Y:      float64(headerLines+1+2*i) * cellHeight,
		Width:  float64(paletteWidth) * cellWidth,
		Height: cellHeight,
	}
}

func (m *canvasModel) isConnected() bool {
	return m.connected && m.conn != nil
}

func (m *canvasModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case quitMessage:
		if m.conn != nil {
			m.conn.Close(websocket.StatusNormalClosure, "")
			m.conn = nil
		}
		return m, nil
	case connectionResult:
		m.connected = msg.Connected
		m.err = msg.Err
		m.conn = msg.Conn
		if !m.isConnected() {
			return m, nil
		}
		m.globals = msg.Globals
		return m, tea.Batch(
			listenForMessages(m.conn),
			send(m.conn,
				&protocol.Resize{Target: protocol.Container, Size: m.containerSize()},
				&protocol.Resize{Target: protocol.Content, Size: contentSize},
			),
		)
	case wsMessage:
		if msg.Err != nil {
			m.err = msg.Err
			m.connected = false
			return m, nil
		}
		m.pendingData = msg.Data
		if m.isConnected() {
			return m, listenForMessages(m.conn)
		}
	case tickMsg:
		return m, tea.Batch(m.onTick(), tick())
	case tea.WindowSizeMsg:
		m.layout(msg.Width, msg.Height)
		m.rowCache.Purge()
		return m, send(m.conn, &protocol.Resize{Target: protocol.Container, Size: m.containerSize()})
	case tea.KeyMsg:
		return m, m.onKey(msg)
	case tea.MouseMsg:
		return m, m.onMouse(msg)
	}
	return m, nil
}

func (m *canvasModel) onTick() tea.Cmd {
	if m.pendingData != nil {
		out, err := processServerMessage(m.pendingData)
		if err != nil {
			m.err = err
		} else {
			m.state = out
		}
		m.pendingData = nil
	}

	var msgs []protocol.ClientMessage
	if m.zoom != nil {
		v, done := m.zoom.Update(1.0 / frameRate)
		scale := float64(v)
		if done {
			scale = m.zoomTarget
			m.zoom = nil
		}
		msgs = append(msgs, &protocol.SetScale{Scale: scale})
	}
	// terminals report no motion while the pointer rests, keep the
	// drag-over stream going like a browser does
	if m.dragItem >= 0 {
		msgs = append(msgs, m.dragEvent(protocol.DragOver))
	}
	return send(m.conn, msgs...)
}

// currentZoom is the scale the next zoom step starts from.
func (m *canvasModel) currentZoom() float64 {
	if m.zoom != nil {
		return m.zoomTarget
	}
	return m.state.Scale
}

func (m *canvasModel) animateZoom(to float64) {
	if to == m.currentZoom() {
		return
	}
	m.zoom = gween.New(float32(m.state.Scale), float32(to), zoomTime, ease.OutQuad)
	m.zoomTarget = to
}

func (m *canvasModel) onKey(msg tea.KeyMsg) tea.Cmd {
	panel := m.globals.Zoom
	switch {
	case key.Matches(msg, keys.ZoomIn):
		m.animateZoom(panel.ZoomedIn(m.currentZoom()))
	case key.Matches(msg, keys.ZoomOut):
		m.animateZoom(panel.ZoomedOut(m.currentZoom()))
	case key.Matches(msg, keys.FitView):
		m.zoom = nil
		return send(m.conn, &protocol.Command{Cmd: protocol.FitView})
	case key.Matches(msg, keys.Left):
		return send(m.conn, &protocol.ScrollBy{Delta: geom.Delta{Left: arrowStep}})
	case key.Matches(msg, keys.Right):
		return send(m.conn, &protocol.ScrollBy{Delta: geom.Delta{Left: -arrowStep}})
	case key.Matches(msg, keys.Up):
		return send(m.conn, &protocol.ScrollBy{Delta: geom.Delta{Top: arrowStep}})
	case key.Matches(msg, keys.Down):
		return send(m.conn, &protocol.ScrollBy{Delta: geom.Delta{Top: -arrowStep}})
	}
	return nil
}

func (m *canvasModel) onMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.IsWheel() {
		w := &protocol.Wheel{ShiftKey: msg.Shift}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			w.DeltaY = -wheelStep
		case tea.MouseButtonWheelDown:
			w.DeltaY = wheelStep
		case tea.MouseButtonWheelLeft:
			w.DeltaX = -wheelStep
		case tea.MouseButtonWheelRight:
			w.DeltaX = wheelStep
		}
		if !m.inCanvas(msg.X, msg.Y) {
			return nil
		}
		return send(m.conn, w)
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		if i := paletteItemAt(msg.X, msg.Y); i >= 0 {
			m.dragItem = i
			m.dragX, m.dragY = msg.X, msg.Y
			return send(m.conn, m.dragEvent(protocol.DragStart))
		}
		if !m.inCanvas(msg.X, msg.Y) {
			return nil
		}
		m.pressed = true
		m.lastX, m.lastY = msg.X, msg.Y
		cx, cy := clientPos(msg.X, msg.Y)
		return send(m.conn, &protocol.Mouse{
			Type:         protocol.MouseDown,
			Buttons:      1,
			OnBackground: m.nodeAt(msg.X, msg.Y) < 0,
			ClientX:      cx,
			ClientY:      cy,
		})
	case tea.MouseActionMotion:
		if m.dragItem >= 0 {
			m.dragX, m.dragY = msg.X, msg.Y
			return send(m.conn, m.dragEvent(protocol.DragOver))
		}
		if !m.pressed {
			return nil
		}
		dx, dy := msg.X-m.lastX, msg.Y-m.lastY
		m.lastX, m.lastY = msg.X, msg.Y
		cx, cy := clientPos(msg.X, msg.Y)
		return send(m.conn, &protocol.Mouse{
			Type:      protocol.MouseMove,
			Buttons:   1,
			ClientX:   cx,
			ClientY:   cy,
			MovementX: float64(dx) * cellWidth,
			MovementY: float64(dy) * cellHeight,
		})
	case tea.MouseActionRelease:
		if m.dragItem >= 0 {
			m.dragX, m.dragY = msg.X, msg.Y
			drop := m.dragEvent(protocol.Drop)
			if m.inCanvas(msg.X, msg.Y) {
				m.dropNode(paletteItems[m.dragItem], drop.ClientX, drop.ClientY)
			}
			m.dragItem = -1
			return send(m.conn, drop)
		}
		if !m.pressed {
			return nil
		}
		m.pressed = false
		cx, cy := clientPos(msg.X, msg.Y)
		return send(m.conn, &protocol.Mouse{Type: protocol.MouseUp, ClientX: cx, ClientY: cy})
	}
	return nil
}

func (m *canvasModel) dragEvent(t protocol.DragType) *protocol.Drag {
	cx, cy := clientPos(m.dragX, m.dragY)
	return &protocol.Drag{
		Type:    t,
		ClientX: cx,
		ClientY: cy,
		Root:    m.root(),
		Target:  paletteItemRect(m.dragItem),
	}
}

// dropNode adds a node centred on the client position.
func (m *canvasModel) dropNode(label string, cx, cy float64) {
	r := m.root()
	s := m.state
	x := (cx-r.X-s.Scroll.Left)/s.Scale - nodeWidth/2
	y := (cy-r.Y-s.Scroll.Top)/s.Scale - nodeHeight/2
	m.nodes = append(m.nodes, node{label: label, x: math.Max(x, 0), y: math.Max(y, 0)})
}

// nodeBox returns the cell rectangle of n inside the canvas area, which may
// extend past its edges.
func (m *canvasModel) nodeBox(n node) (col, row, w, h int) {
	s := m.state
	col = int(math.Floor((n.x*s.Scale + s.Scroll.Left) / cellWidth))
	row = int(math.Floor((n.y*s.Scale + s.Scroll.Top) / cellHeight))
	w = max(3, int(math.Round(nodeWidth*s.Scale/cellWidth)))
	h = max(1, int(math.Round(nodeHeight*s.Scale/cellHeight)))
	return col, row, w, h
}

// nodeAt returns the index of the topmost node under terminal cell (x, y).
func (m *canvasModel) nodeAt(x, y int) int {
	cx, cy := x-paletteWidth-1, y-headerLines
	for i := len(m.nodes) - 1; i >= 0; i-- {
		col, row, w, h := m.nodeBox(m.nodes[i])
		if cx >= col && cx < col+w && cy >= row && cy < row+h {
			return i
		}
	}
	return -1
}

// backgroundRow renders the dots of canvas row r.
func (m *canvasModel) backgroundRow(tile background.Tile, r int) string {
	band := tile
	band.Y -= float64(r) * cellHeight
	key := rowKey{size: tile.Size, radius: tile.Radius, cols: m.cols}
	if tile.Size > 0 {
		key.phaseX = math.Mod(band.X, tile.Size)
		key.phaseY = math.Mod(band.Y, tile.Size)
		band.X, band.Y = key.phaseX, key.phaseY
	}
	if s, ok := m.rowCache.Get(key); ok {
		return s
	}

	line := []rune(strings.Repeat(" ", m.cols))
	for _, p := range band.Dots(float64(m.cols)*cellWidth, cellHeight) {
		if p.Y < 0 || p.Y >= cellHeight {
			continue
		}
		if c := int(p.X / cellWidth); p.X >= 0 && c < m.cols {
			line[c] = '·'
		}
	}
	s := string(line)
	m.rowCache.Add(key, s)
	return s
}

// canvasRows renders the canvas area: background dots under the nodes.
func (m *canvasModel) canvasRows() []string {
	tile := m.globals.Background.At(m.state.State)

	grid := make([][]rune, m.rows)
	isNode := make([][]bool, m.rows)
	for r := range grid {
		grid[r] = []rune(m.backgroundRow(tile, r))
		isNode[r] = make([]bool, m.cols)
	}

	for _, n := range m.nodes {
		col, row, w, h := m.nodeBox(n)
		label := []rune(n.label)
		if len(label) > w {
			label = label[:w]
		}
		labelRow := row + h/2
		labelCol := col + (w-len(label))/2
		for r := max(row, 0); r < min(row+h, m.rows); r++ {
			for c := max(col, 0); c < min(col+w, m.cols); c++ {
				ch := ' '
				if r == labelRow && c >= labelCol && c < labelCol+len(label) {
					ch = label[c-labelCol]
				}
				grid[r][c] = ch
				isNode[r][c] = true
			}
		}
	}

	rows := make([]string, m.rows)
	for r := range grid {
		rows[r] = renderRun(grid[r], isNode[r])
	}
	return rows
}

// renderRun styles runs of background and node cells with one SGR sequence
// per run.
func renderRun(line []rune, isNode []bool) string {
	var b strings.Builder
	start := 0
	for i := 1; i <= len(line); i++ {
		if i < len(line) && isNode[i] == isNode[start] {
			continue
		}
		seg := string(line[start:i])
		if isNode[start] {
			b.WriteString(nodeStyle.Render(seg))
		} else {
			b.WriteString(dotStyle.Render(seg))
		}
		start = i
	}
	return b.String()
}

func (m *canvasModel) paletteView() string {
	lines := make([]string, max(m.rows, 1))
	for i := range lines {
		lines[i] = strings.Repeat(" ", paletteWidth)
	}
	lines[0] = fmt.Sprintf("%-*s", paletteWidth, " Palette")
	for i, item := range paletteItems {
		r := 1 + 2*i
		if r >= len(lines) {
			break
		}
		style := paletteItemStyle
		text := fmt.Sprintf(" [%s]", item)
		if i == m.dragItem {
			style = paletteActiveStyle
		}
		lines[r] = style.Width(paletteWidth).Render(text)
	}
	return paletteStyle.Render(strings.Join(lines, "\n"))
}

func (m *canvasModel) statusLine() string {
	s := m.state
	return fmt.Sprintf("Zoom: %s • Scroll: (%.0f, %.0f) • Bounds: (%.0f, %.0f) • Auto-scroll: %s • %s",
		controls.Percent(s.Scale),
		s.Scroll.Left, s.Scroll.Top,
		s.ScrollBounds.Left, s.ScrollBounds.Top,
		phaseStatus(s.Phase.String()),
		connectedStatus(m.connected))
}

func (m *canvasModel) View() string {
	var s strings.Builder

	title := titleStyle.Render("flowcanvas")
	hint := statusStyle.Render("[?] help")
	gap := max(m.termWidth-lipgloss.Width(title)-lipgloss.Width(hint)-2, 1)
	s.WriteString(" " + title + strings.Repeat(" ", gap) + hint)
	s.WriteString("\n")

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.paletteView(), strings.Join(m.canvasRows(), "\n"))
	s.WriteString(body)
	s.WriteString("\n")

	if m.err != nil {
		s.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	} else {
		s.WriteString(statusStyle.Render(m.statusLine()))
	}
	if m.dragItem >= 0 {
		s.WriteString(" " + ghostStyle.Render("dragging "+paletteItems[m.dragItem]))
	}
	return s.String()
}
