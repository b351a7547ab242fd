package engine

import (
	"github.com/JackWithOneEye/flowcanvas/internal/event"
	"github.com/JackWithOneEye/flowcanvas/internal/protocol"
	"github.com/sirupsen/logrus"
)

var mouseKinds = map[protocol.MouseType]event.Kind{
	protocol.MouseDown: event.KindMouseDown,
	protocol.MouseMove: event.KindMouseMove,
	protocol.MouseUp:   event.KindMouseUp,
}

var dragKinds = map[protocol.DragType]event.Kind{
	protocol.DragStart: event.KindDragStart,
	protocol.DragOver:  event.KindDragOver,
	protocol.DragEnd:   event.KindDragEnd,
	protocol.Drop:      event.KindDrop,
}

// handle applies one client message. Input events go through the same
// event targets a browser would dispatch them on: wheel, mouse-down and the
// drag family on the viewport root, everything else on the document.
func (e *engine) handle(msg protocol.ClientMessage) {
	switch m := msg.(type) {
	case *protocol.Command:
		e.handleCommand(m)
	case *protocol.Wheel:
		e.root.Dispatch(event.Wheel{DeltaX: m.DeltaX, DeltaY: m.DeltaY, ShiftKey: m.ShiftKey})
	case *protocol.Key:
		kind := event.KindKeyUp
		if m.Down {
			kind = event.KindKeyDown
		}
		e.document.Dispatch(event.Key{Type: kind, Key: m.Key})
	case *protocol.Mouse:
		kind, ok := mouseKinds[m.Type]
		if !ok {
			logrus.Warnf("unknown mouse event type: %d", m.Type)
			return
		}
		ev := event.Mouse{
			Type:         kind,
			Buttons:      int(m.Buttons),
			OnBackground: m.OnBackground,
			ClientX:      m.ClientX,
			ClientY:      m.ClientY,
			MovementX:    m.MovementX,
			MovementY:    m.MovementY,
		}
		if kind == event.KindMouseDown {
			e.root.Dispatch(ev)
		} else {
			e.document.Dispatch(ev)
		}
	case *protocol.Drag:
		kind, ok := dragKinds[m.Type]
		if !ok {
			logrus.Warnf("unknown drag event type: %d", m.Type)
			return
		}
		// tick timing follows the loop clock, client clocks are not trusted
		e.root.Dispatch(event.Drag{
			Type:    kind,
			ClientX: m.ClientX,
			ClientY: m.ClientY,
			Root:    m.Root,
			Target:  m.Target,
			Time:    e.now(),
		})
	case *protocol.Resize:
		switch m.Target {
		case protocol.Container:
			e.canvas.SetContainerSize(m.Size)
		case protocol.Content:
			e.canvas.SetContentSize(m.Size)
		default:
			logrus.Warnf("unknown resize target: %d", m.Target)
		}
	case *protocol.SetScale:
		e.canvas.UpdateScale(m.Scale)
	case *protocol.ScrollBy:
		e.canvas.ScrollBy(m.Delta)
	}
}

func (e *engine) handleCommand(c *protocol.Command) {
	switch c.Cmd {
	case protocol.ZoomIn:
		e.panel.ZoomIn(e.canvas)
	case protocol.ZoomOut:
		e.panel.ZoomOut(e.canvas)
	case protocol.FitView:
		e.panel.FitView(e.canvas)
	default:
		logrus.Warnf("unknown command: %d", c.Cmd)
	}
}
