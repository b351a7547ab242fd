package viewport

import (
	"testing"

	"github.com/JackWithOneEye/flowcanvas/internal/event"
	"github.com/JackWithOneEye/flowcanvas/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bound(t *testing.T) (*Canvas, *event.Bus, *event.Bus, *event.Group) {
	t.Helper()
	c := newMeasured(geom.Size{Width: 300, Height: 300}, geom.Size{Width: 900, Height: 900})
	root, doc := event.NewBus(), event.NewBus()
	g := c.Bind(root, doc)
	t.Cleanup(g.Close)
	return c, root, doc, g
}

func TestWheelPansOppositeToDelta(t *testing.T) {
	c, root, _, _ := bound(t)

	prevented := root.Dispatch(event.Wheel{DeltaX: 30, DeltaY: 40})
	assert.True(t, prevented, "page swipe must be suppressed")
	assert.Equal(t, geom.Delta{Left: -30, Top: -40}, c.Scroll())

	root.Dispatch(event.Wheel{DeltaX: -10, DeltaY: -100})
	assert.Equal(t, geom.Delta{Left: -20, Top: 0}, c.Scroll())
}

func TestWheelIsPreventedEvenWhenClamped(t *testing.T) {
	_, root, _, _ := bound(t)
	assert.True(t, root.Dispatch(event.Wheel{DeltaY: -100}))
}

func TestShiftWheelScrollsHorizontally(t *testing.T) {
	c, root, doc, _ := bound(t)

	doc.Dispatch(event.Key{Type: event.KindKeyDown, Key: "Shift"})
	require.True(t, c.ShiftKey())
	root.Dispatch(event.Wheel{DeltaY: 50})
	assert.Equal(t, geom.Delta{Left: -50, Top: 0}, c.Scroll())

	// a platform that does report the horizontal delta keeps both axes
	root.Dispatch(event.Wheel{DeltaX: 10, DeltaY: 20})
	assert.Equal(t, geom.Delta{Left: -60, Top: -20}, c.Scroll())

	doc.Dispatch(event.Key{Type: event.KindKeyUp, Key: "Shift"})
	require.False(t, c.ShiftKey())
	root.Dispatch(event.Wheel{DeltaY: 50})
	assert.Equal(t, geom.Delta{Left: -60, Top: -70}, c.Scroll())
}

func TestShiftReportedOnWheelEvent(t *testing.T) {
	c, root, _, _ := bound(t)
	root.Dispatch(event.Wheel{DeltaY: 25, ShiftKey: true})
	assert.Equal(t, geom.Delta{Left: -25}, c.Scroll())
}

func TestOtherKeysDoNotToggleShift(t *testing.T) {
	c, _, doc, _ := bound(t)
	doc.Dispatch(event.Key{Type: event.KindKeyDown, Key: "Control"})
	assert.False(t, c.ShiftKey())
}

func TestDragPan(t *testing.T) {
	c, root, doc, _ := bound(t)
	n := countNotifications(c)

	doc.Dispatch(event.Mouse{Type: event.KindMouseMove, MovementX: -20, MovementY: -20})
	assert.Equal(t, geom.Delta{}, c.Scroll(), "no pan before press")

	root.Dispatch(event.Mouse{Type: event.KindMouseDown, Buttons: event.PrimaryButton, OnBackground: true})
	require.True(t, c.Dragging())

	doc.Dispatch(event.Mouse{Type: event.KindMouseMove, MovementX: -20, MovementY: -5})
	doc.Dispatch(event.Mouse{Type: event.KindMouseMove, MovementX: -5, MovementY: -5})
	assert.Equal(t, geom.Delta{Left: -25, Top: -10}, c.Scroll())

	doc.Dispatch(event.Mouse{Type: event.KindMouseUp})
	require.False(t, c.Dragging())

	doc.Dispatch(event.Mouse{Type: event.KindMouseMove, MovementX: -100})
	assert.Equal(t, geom.Delta{Left: -25, Top: -10}, c.Scroll())
	assert.Equal(t, 4, *n, "press, two moves, release")
}

func TestDragPanIgnoresChildAndNonPrimaryPress(t *testing.T) {
	c, root, _, _ := bound(t)

	root.Dispatch(event.Mouse{Type: event.KindMouseDown, Buttons: event.PrimaryButton, OnBackground: false})
	assert.False(t, c.Dragging())

	root.Dispatch(event.Mouse{Type: event.KindMouseDown, Buttons: 2, OnBackground: true})
	assert.False(t, c.Dragging())

	root.Dispatch(event.Mouse{Type: event.KindMouseDown, Buttons: 3, OnBackground: true})
	assert.False(t, c.Dragging())
}

func TestBindTeardown(t *testing.T) {
	c, root, doc, g := bound(t)
	require.Equal(t, 6, g.Len())

	g.Close()
	for _, k := range []event.Kind{event.KindWheel, event.KindMouseDown} {
		assert.Zero(t, root.Len(k), k.String())
	}
	for _, k := range []event.Kind{event.KindKeyDown, event.KindKeyUp, event.KindMouseMove, event.KindMouseUp} {
		assert.Zero(t, doc.Len(k), k.String())
	}

	assert.False(t, root.Dispatch(event.Wheel{DeltaY: 10}))
	assert.Equal(t, geom.Delta{}, c.Scroll())
}
