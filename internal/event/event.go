// Package event models the input events the viewport reacts to and the
// targets they are dispatched on.
//
// A Bus stands in for one event target (the viewport root element or the
// document). Subscriptions return a Handle; a Group collects the handles of
// one owner so they can be removed together when the owner is torn down.
// A Bus is not safe for concurrent use: it belongs to the loop that
// dispatches on it.
package event

import (
	"time"

	"github.com/JackWithOneEye/flowcanvas/internal/geom"
)

// Kind identifies an event type.
type Kind uint8

const (
	KindWheel Kind = iota
	KindKeyDown
	KindKeyUp
	KindMouseDown
	KindMouseMove
	KindMouseUp
	KindDragStart
	KindDragOver
	KindDragEnd
	KindDrop

	kindCount
)

var kindNames = [kindCount]string{
	"wheel", "keydown", "keyup", "mousedown", "mousemove", "mouseup",
	"dragstart", "dragover", "dragend", "drop",
}

func (k Kind) String() string {
	if k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Event is anything that can be dispatched on a Bus.
type Event interface {
	Kind() Kind
}

// PrimaryButton is the Buttons bitmask of a lone primary (left) button.
const PrimaryButton = 1

// Wheel is a wheel or two-finger pan gesture.
type Wheel struct {
	DeltaX, DeltaY float64
	// ShiftKey is the modifier state reported with the event, if the source
	// reports one.
	ShiftKey bool
}

func (Wheel) Kind() Kind { return KindWheel }

// Key is a key press or release.
type Key struct {
	Type Kind // KindKeyDown or KindKeyUp
	Key  string
}

func (k Key) Kind() Kind { return k.Type }

// Mouse is a mouse press, move or release.
type Mouse struct {
	Type    Kind // KindMouseDown, KindMouseMove or KindMouseUp
	Buttons int
	// OnBackground is true when the event target is the viewport element
	// itself rather than one of its children.
	OnBackground         bool
	ClientX, ClientY     float64
	MovementX, MovementY float64
}

func (m Mouse) Kind() Kind { return m.Type }

// Drag is an HTML5-style drag-and-drop event.
type Drag struct {
	Type             Kind // KindDragStart, KindDragOver, KindDragEnd or KindDrop
	ClientX, ClientY float64
	// Root is the bounding rectangle of the viewport element.
	Root geom.Rect
	// Target is the bounding rectangle of the dragged element.
	Target geom.Rect
	// Time is when the event was produced. Zero means "now".
	Time time.Time
}

func (d Drag) Kind() Kind { return d.Type }
