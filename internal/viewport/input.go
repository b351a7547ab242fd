package viewport

import (
	"github.com/JackWithOneEye/flowcanvas/internal/event"
	"github.com/JackWithOneEye/flowcanvas/internal/geom"
)

const shiftKeyName = "Shift"

// Bind wires the canvas to its event targets: wheel and mouse-down on the
// viewport root, key and pointer tracking on the document so that a release
// outside the viewport still ends a drag. Closing the returned group removes
// every subscription.
func (c *Canvas) Bind(root, document *event.Bus) *event.Group {
	g := &event.Group{}
	g.Add(
		root.On(event.KindWheel, func(ev event.Event) bool {
			return c.HandleWheel(ev.(event.Wheel))
		}),
		root.On(event.KindMouseDown, func(ev event.Event) bool {
			c.HandleMouseDown(ev.(event.Mouse))
			return false
		}),
		document.On(event.KindKeyDown, func(ev event.Event) bool {
			c.HandleKey(ev.(event.Key))
			return false
		}),
		document.On(event.KindKeyUp, func(ev event.Event) bool {
			c.HandleKey(ev.(event.Key))
			return false
		}),
		document.On(event.KindMouseMove, func(ev event.Event) bool {
			c.HandleMouseMove(ev.(event.Mouse))
			return false
		}),
		document.On(event.KindMouseUp, func(ev event.Event) bool {
			c.HandleMouseUp(ev.(event.Mouse))
			return false
		}),
	)
	return g
}

// HandleWheel pans by the inverted wheel delta. It always reports true: the
// browser's two-finger page swipe must not run for a canvas wheel event.
//
// Some platforms do not turn shift+wheel into a horizontal delta; when the
// modifier is held and no horizontal delta arrived, the vertical one is used
// horizontally.
func (c *Canvas) HandleWheel(ev event.Wheel) bool {
	deltaX := -ev.DeltaX
	deltaY := -ev.DeltaY
	if (c.shiftKey || ev.ShiftKey) && ev.DeltaX == 0 {
		deltaX = -ev.DeltaY
		deltaY = 0
	}
	c.ScrollBy(geom.Delta{Left: deltaX, Top: deltaY})
	return true
}

// HandleKey tracks the shift modifier.
func (c *Canvas) HandleKey(ev event.Key) {
	if ev.Key != shiftKeyName {
		return
	}
	switch ev.Type {
	case event.KindKeyDown:
		c.shiftKey = true
	case event.KindKeyUp:
		c.shiftKey = false
	}
}

// ShiftKey reports the tracked modifier state.
func (c *Canvas) ShiftKey() bool { return c.shiftKey }

// HandleMouseDown starts a drag pan for a lone primary-button press on the
// viewport background.
func (c *Canvas) HandleMouseDown(ev event.Mouse) {
	if !ev.OnBackground || ev.Buttons != event.PrimaryButton {
		return
	}
	c.setDragging(true)
}

// HandleMouseMove pans by the pointer movement while a drag pan is active.
func (c *Canvas) HandleMouseMove(ev event.Mouse) {
	if !c.dragging {
		return
	}
	c.ScrollBy(geom.Delta{Left: ev.MovementX, Top: ev.MovementY})
}

// HandleMouseUp ends a drag pan.
func (c *Canvas) HandleMouseUp(event.Mouse) {
	c.setDragging(false)
}

func (c *Canvas) setDragging(v bool) {
	if c.dragging == v {
		return
	}
	c.dragging = v
	c.notify()
}
