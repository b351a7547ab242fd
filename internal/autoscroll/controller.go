// Package autoscroll pans the viewport while an external drag-and-drop
// gesture holds the pointer near one of its edges.
//
// The controller keeps no viewport state of its own: it reads scroll,
// bounds and size from the viewport on every tick and calls back into
// ScrollBy. Each processed drag-over tick replaces the batch of scroll steps
// scheduled by the previous one.
package autoscroll

import (
	"math"
	"time"

	"github.com/JackWithOneEye/flowcanvas/internal/event"
	"github.com/JackWithOneEye/flowcanvas/internal/geom"
	"github.com/JackWithOneEye/flowcanvas/internal/scheduler"
)

// Viewport is the part of the viewport the controller reads and drives.
type Viewport interface {
	Scroll() geom.Delta
	ScrollBounds() geom.Delta
	ContainerSize() geom.Size
	ScrollBy(delta geom.Delta)
}

// Scheduler hands out task batches.
type Scheduler interface {
	NewBatch(now time.Time) *scheduler.Batch
}

// Phase is the gesture state of the controller.
type Phase uint8

const (
	// PhaseIdle: no drag in progress.
	PhaseIdle Phase = iota
	// PhaseArmed: drag started, geometry captured, no drag-over seen yet.
	PhaseArmed
	// PhaseTicking: drag-over events are arriving.
	PhaseTicking
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseArmed:
		return "armed"
	case PhaseTicking:
		return "ticking"
	}
	return "unknown"
}

type Option func(*Controller)

// WithClock sets the time source used for events that carry no timestamp.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// Controller is the edge auto-scroll state machine.
type Controller struct {
	cfg   Config
	vp    Viewport
	sched Scheduler
	now   func() time.Time

	phase    Phase
	root     geom.Rect
	inTarget geom.Insets
	lastTick time.Time
	pending  *scheduler.Batch
}

func New(cfg Config, vp Viewport, sched Scheduler, opts ...Option) *Controller {
	c := &Controller{
		cfg:   cfg.normalized(),
		vp:    vp,
		sched: sched,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bind subscribes the controller to the drag events of the viewport root.
func (c *Controller) Bind(root *event.Bus) *event.Group {
	g := &event.Group{}
	g.Add(
		root.On(event.KindDragStart, func(ev event.Event) bool {
			c.DragStart(ev.(event.Drag))
			return false
		}),
		root.On(event.KindDragOver, func(ev event.Event) bool {
			c.DragOver(ev.(event.Drag))
			return false
		}),
		root.On(event.KindDragEnd, func(ev event.Event) bool {
			c.DragEnd(ev.(event.Drag))
			return false
		}),
		root.On(event.KindDrop, func(ev event.Event) bool {
			c.DragEnd(ev.(event.Drag))
			return false
		}),
	)
	return g
}

func (c *Controller) Config() Config { return c.cfg }

func (c *Controller) Phase() Phase { return c.phase }

// Pending returns the number of scheduled scroll steps that have not run.
func (c *Controller) Pending() int { return c.pending.Pending() }

// DragStart captures the viewport rectangle and, unless proximity is
// measured from the pointer, where the pointer grabbed the dragged element.
func (c *Controller) DragStart(ev event.Drag) {
	c.reset()
	c.phase = PhaseArmed
	c.root = ev.Root
	if !c.cfg.MouseScroll {
		c.inTarget = geom.InsetsOf(ev.Target, geom.Finite(ev.ClientX), geom.Finite(ev.ClientY))
	}
}

// DragOver processes one drag-over tick.
func (c *Controller) DragOver(ev event.Drag) {
	if c.phase == PhaseIdle {
		return
	}
	now := ev.Time
	if now.IsZero() {
		now = c.now()
	}
	if c.lastTick.IsZero() {
		c.lastTick = now
		c.phase = PhaseTicking
		return
	}
	elapsed := now.Sub(c.lastTick)
	if elapsed < c.cfg.ScrollRate {
		return
	}
	c.lastTick = now

	c.pending.Cancel()
	c.pending = nil

	delta, _, ok := Delta(c.cfg, Geometry{
		X:            geom.Finite(ev.ClientX) - c.root.X,
		Y:            geom.Finite(ev.ClientY) - c.root.Y,
		Size:         c.vp.ContainerSize(),
		InTarget:     c.inTarget,
		Scroll:       c.vp.Scroll(),
		ScrollBounds: c.vp.ScrollBounds(),
	})
	if !ok {
		return
	}

	// a longer gap between ticks gets more steps
	steps := int(math.Floor(float64(elapsed)/float64(c.cfg.ScrollRate) + 0.5))
	batch := c.sched.NewBatch(now)
	for i := range steps {
		batch.After(time.Duration(i)*c.cfg.ScrollRate, func() {
			c.vp.ScrollBy(delta)
		})
	}
	c.pending = batch
}

// DragEnd cancels every scheduled step and returns to idle. Drop is handled
// the same way.
func (c *Controller) DragEnd(event.Drag) {
	c.reset()
}

func (c *Controller) reset() {
	c.pending.Cancel()
	c.pending = nil
	c.phase = PhaseIdle
	c.root = geom.Rect{}
	c.inTarget = geom.Insets{}
	c.lastTick = time.Time{}
}
