package protocol

import (
	"fmt"
	"unicode/utf8"

	"github.com/JackWithOneEye/flowcanvas/internal/geom"
)

type clientMessageType uint8

const (
	command clientMessageType = iota
	wheel
	key
	mouse
	drag
	resize
	setScale
	scrollBy
)

type ClientMessage interface {
	Encode() []byte
	decode(r *reader)
}

func DecodeClientMessage(b []byte) (ClientMessage, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("client message: %w", ErrTooShort)
	}
	var msg ClientMessage
	var name string
	switch clientMessageType(b[0]) {
	case command:
		msg, name = &Command{}, "Command"
	case wheel:
		msg, name = &Wheel{}, "Wheel"
	case key:
		msg, name = &Key{}, "Key"
	case mouse:
		msg, name = &Mouse{}, "Mouse"
	case drag:
		msg, name = &Drag{}, "Drag"
	case resize:
		msg, name = &Resize{}, "Resize"
	case setScale:
		msg, name = &SetScale{}, "SetScale"
	case scrollBy:
		msg, name = &ScrollBy{}, "ScrollBy"
	default:
		return nil, fmt.Errorf("unknown client message type: %d", b[0])
	}
	r := &reader{b: b, off: 1}
	msg.decode(r)
	if r.err != nil {
		return nil, fmt.Errorf("[%s] %w", name, r.err)
	}
	return msg, nil
}

type CommandType uint8

const (
	ZoomIn CommandType = iota
	ZoomOut
	FitView
)

type Command struct {
	Cmd CommandType
}

func (c *Command) Encode() []byte {
	w := newWriter(2)
	w.u8(uint8(command))
	w.u8(uint8(c.Cmd))
	return w.b
}

func (c *Command) decode(r *reader) {
	c.Cmd = CommandType(r.u8())
}

type Wheel struct {
	DeltaX, DeltaY float64
	ShiftKey       bool
}

func (m *Wheel) Encode() []byte {
	w := newWriter(2 + 2*sizeF64)
	w.u8(uint8(wheel))
	w.f64(m.DeltaX)
	w.f64(m.DeltaY)
	w.bool(m.ShiftKey)
	return w.b
}

func (m *Wheel) decode(r *reader) {
	m.DeltaX = r.f64()
	m.DeltaY = r.f64()
	m.ShiftKey = r.bool()
}

type Key struct {
	Down bool
	// Key is the key name, truncated to at most 255 bytes on a rune boundary.
	Key string
}

func (m *Key) Encode() []byte {
	k := m.Key
	if len(k) > maxStr {
		n := maxStr
		for n > 0 && !utf8.RuneStart(k[n]) {
			n--
		}
		k = k[:n]
	}
	w := newWriter(3 + len(k))
	w.u8(uint8(key))
	w.bool(m.Down)
	w.str(k)
	return w.b
}

func (m *Key) decode(r *reader) {
	m.Down = r.bool()
	m.Key = r.str()
}

type MouseType uint8

const (
	MouseDown MouseType = iota
	MouseMove
	MouseUp
)

type Mouse struct {
	Type         MouseType
	Buttons      uint8
	OnBackground bool
	ClientX      float64
	ClientY      float64
	MovementX    float64
	MovementY    float64
}

func (m *Mouse) Encode() []byte {
	w := newWriter(4 + 4*sizeF64)
	w.u8(uint8(mouse))
	w.u8(uint8(m.Type))
	w.u8(m.Buttons)
	w.bool(m.OnBackground)
	w.f64(m.ClientX)
	w.f64(m.ClientY)
	w.f64(m.MovementX)
	w.f64(m.MovementY)
	return w.b
}

func (m *Mouse) decode(r *reader) {
	m.Type = MouseType(r.u8())
	m.Buttons = r.u8()
	m.OnBackground = r.bool()
	m.ClientX = r.f64()
	m.ClientY = r.f64()
	m.MovementX = r.f64()
	m.MovementY = r.f64()
}

type DragType uint8

const (
	DragStart DragType = iota
	DragOver
	DragEnd
	Drop
)

type Drag struct {
	Type    DragType
	ClientX float64
	ClientY float64
	// Root is the bounding rectangle of the viewport element.
	Root geom.Rect
	// Target is the bounding rectangle of the dragged element.
	Target geom.Rect
}

func (m *Drag) Encode() []byte {
	w := newWriter(2 + 2*sizeF64 + 2*sizeRect)
	w.u8(uint8(drag))
	w.u8(uint8(m.Type))
	w.f64(m.ClientX)
	w.f64(m.ClientY)
	w.rect(m.Root)
	w.rect(m.Target)
	return w.b
}

func (m *Drag) decode(r *reader) {
	m.Type = DragType(r.u8())
	m.ClientX = r.f64()
	m.ClientY = r.f64()
	m.Root = r.rect()
	m.Target = r.rect()
}

type ResizeTarget uint8

const (
	Container ResizeTarget = iota
	Content
)

// Resize is a size observation of the viewport element or the content layer.
type Resize struct {
	Target ResizeTarget
	Size   geom.Size
}

func (m *Resize) Encode() []byte {
	w := newWriter(2 + sizeSize)
	w.u8(uint8(resize))
	w.u8(uint8(m.Target))
	w.size(m.Size)
	return w.b
}

func (m *Resize) decode(r *reader) {
	m.Target = ResizeTarget(r.u8())
	m.Size = r.size()
}

type SetScale struct {
	Scale float64
}

func (m *SetScale) Encode() []byte {
	w := newWriter(1 + sizeF64)
	w.u8(uint8(setScale))
	w.f64(m.Scale)
	return w.b
}

func (m *SetScale) decode(r *reader) {
	m.Scale = r.f64()
}

type ScrollBy struct {
	Delta geom.Delta
}

func (m *ScrollBy) Encode() []byte {
	w := newWriter(1 + sizeDelta)
	w.u8(uint8(scrollBy))
	w.delta(m.Delta)
	return w.b
}

func (m *ScrollBy) decode(r *reader) {
	m.Delta = r.delta()
}
