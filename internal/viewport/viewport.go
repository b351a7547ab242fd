// Package viewport is the single source of truth for the canvas scale and
// scroll offset.
//
// Every write goes through a clamp so that, for all reachable states,
//
//	bounds.Left <= scroll.Left <= 0
//	bounds.Top  <= scroll.Top  <= 0
//
// Bounds are recomputed explicitly whenever the scale, the container size or
// the content size changes. A Canvas is not safe for concurrent use; it is
// owned by the loop that delivers its events.
package viewport

import (
	"fmt"
	"math"

	"github.com/JackWithOneEye/flowcanvas/internal/geom"
)

// State is a snapshot of the viewport.
type State struct {
	Scale         float64    `json:"scale"`
	Scroll        geom.Delta `json:"scroll"`
	ScrollBounds  geom.Delta `json:"scrollBounds"`
	ContainerSize geom.Size  `json:"containerSize"`
	ContentSize   geom.Size  `json:"contentSize"`
	Dragging      bool       `json:"dragging"`
}

// Transform renders the CSS transform a content layer applies for s.
func (s State) Transform() string {
	return fmt.Sprintf("translate(%gpx, %gpx) scale(%g)", s.Scroll.Left, s.Scroll.Top, s.Scale)
}

// Listener is notified after every change to the viewport.
type Listener func(State)

// Canvas tracks scale, scroll and scroll bounds of one viewport.
type Canvas struct {
	scale     float64
	scroll    geom.Delta
	bounds    geom.Delta
	container geom.Size
	content   geom.Size

	dragging bool
	shiftKey bool

	listeners      map[uint32]Listener
	listenerOrder  []uint32
	nextListenerID uint32
}

// New returns a Canvas with scale 1 and no scroll.
func New() *Canvas {
	return &Canvas{
		scale:     1,
		listeners: make(map[uint32]Listener),
	}
}

// State returns the current snapshot.
func (c *Canvas) State() State {
	return State{
		Scale:         c.scale,
		Scroll:        c.scroll,
		ScrollBounds:  c.bounds,
		ContainerSize: c.container,
		ContentSize:   c.content,
		Dragging:      c.dragging,
	}
}

func (c *Canvas) Scale() float64 { return c.scale }

func (c *Canvas) Scroll() geom.Delta { return c.scroll }

func (c *Canvas) ScrollBounds() geom.Delta { return c.bounds }

func (c *Canvas) ContainerSize() geom.Size { return c.container }

func (c *Canvas) ContentSize() geom.Size { return c.content }

// Dragging reports whether a click-drag pan is in progress.
func (c *Canvas) Dragging() bool { return c.dragging }

// ScrollBy moves the scroll offset by delta, clamping each axis into its
// bounds. Listeners are not notified when the clamped offset equals the
// current one.
func (c *Canvas) ScrollBy(delta geom.Delta) {
	left := geom.Clamp(c.scroll.Left+geom.Finite(delta.Left), c.bounds.Left, 0)
	top := geom.Clamp(c.scroll.Top+geom.Finite(delta.Top), c.bounds.Top, 0)
	if left == c.scroll.Left && top == c.scroll.Top {
		return
	}
	c.scroll = geom.Delta{Left: left, Top: top}
	c.notify()
}

// UpdateScale sets the scale. Equal, non-positive and non-finite values are
// ignored.
func (c *Canvas) UpdateScale(scale float64) {
	if scale == c.scale || !(scale > 0) || math.IsInf(scale, 0) {
		return
	}
	c.scale = scale
	c.recomputeBounds()
	c.notify()
}

// ResetCanvas restores scale 1 and scroll {0, 0}.
func (c *Canvas) ResetCanvas() {
	changed := c.scale != 1 || !c.scroll.IsZero()
	c.scale = 1
	c.scroll = geom.Delta{}
	c.recomputeBounds()
	if changed {
		c.notify()
	}
}

// SetContainerSize records a size observation of the viewport element.
func (c *Canvas) SetContainerSize(size geom.Size) {
	size = size.Sanitize()
	if size == c.container {
		return
	}
	c.container = size
	c.recomputeBounds()
	c.notify()
}

// SetContentSize records a size observation of the unscaled content layer.
func (c *Canvas) SetContentSize(size geom.Size) {
	size = size.Sanitize()
	if size == c.content {
		return
	}
	c.content = size
	c.recomputeBounds()
	c.notify()
}

// Subscribe registers fn for change notifications. The returned function
// removes it.
func (c *Canvas) Subscribe(fn Listener) (unsubscribe func()) {
	c.nextListenerID++
	id := c.nextListenerID
	c.listeners[id] = fn
	c.listenerOrder = append(c.listenerOrder, id)
	return func() {
		if _, ok := c.listeners[id]; !ok {
			return
		}
		delete(c.listeners, id)
		for i, v := range c.listenerOrder {
			if v == id {
				c.listenerOrder = append(c.listenerOrder[:i], c.listenerOrder[i+1:]...)
				break
			}
		}
	}
}

// recomputeBounds derives the scroll bounds from the current geometry and
// pulls the scroll offset back inside them.
func (c *Canvas) recomputeBounds() {
	c.bounds = Bounds(c.container, c.content, c.scale)
	c.scroll = geom.Delta{
		Left: geom.Clamp(c.scroll.Left, c.bounds.Left, 0),
		Top:  geom.Clamp(c.scroll.Top, c.bounds.Top, 0),
	}
}

func (c *Canvas) notify() {
	if len(c.listenerOrder) == 0 {
		return
	}
	s := c.State()
	ids := append([]uint32(nil), c.listenerOrder...)
	for _, id := range ids {
		if fn, ok := c.listeners[id]; ok {
			fn(s)
		}
	}
}

// Bounds returns the most negative legal scroll offset on each axis for
// content of the given natural size rendered at scale inside container.
// Panning stops once two thirds of the container would show empty space
// beyond the content. An unmeasured axis permits no panning.
func Bounds(container, content geom.Size, scale float64) geom.Delta {
	return geom.Delta{
		Left: axisBound(container.Width, content.Width, scale),
		Top:  axisBound(container.Height, content.Height, scale),
	}
}

func axisBound(containerExtent, contentExtent, scale float64) float64 {
	if containerExtent <= 0 {
		return 0 // not measured yet
	}
	visible := contentExtent * scale
	b := math.Min(-(visible - containerExtent*2/3), 0)
	if b == 0 {
		return 0 // no negative zero
	}
	return b
}
