package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusDispatchOrderAndPreventDefault(t *testing.T) {
	b := NewBus()
	var calls []string
	b.On(KindWheel, func(Event) bool { calls = append(calls, "a"); return false })
	b.On(KindWheel, func(Event) bool { calls = append(calls, "b"); return true })
	b.On(KindKeyDown, func(Event) bool { calls = append(calls, "key"); return false })

	prevented := b.Dispatch(Wheel{DeltaY: 10})
	assert.True(t, prevented)
	assert.Equal(t, []string{"a", "b"}, calls)

	prevented = b.Dispatch(Key{Type: KindKeyDown, Key: "Shift"})
	assert.False(t, prevented)
	assert.Equal(t, []string{"a", "b", "key"}, calls)
}

func TestHandleRemove(t *testing.T) {
	b := NewBus()
	n := 0
	h := b.On(KindMouseMove, func(Event) bool { n++; return false })
	require.Equal(t, 1, b.Len(KindMouseMove))

	b.Dispatch(Mouse{Type: KindMouseMove})
	h.Remove()
	h.Remove()
	b.Dispatch(Mouse{Type: KindMouseMove})

	assert.Equal(t, 1, n)
	assert.Equal(t, 0, b.Len(KindMouseMove))
}

func TestRemoveDuringDispatch(t *testing.T) {
	b := NewBus()
	n := 0
	var self Handle
	self = b.On(KindDragOver, func(Event) bool { self.Remove(); return false })
	b.Dispatch(Drag{Type: KindDragOver})
	assert.Equal(t, 0, b.Len(KindDragOver))

	// a handler removed by an earlier one is skipped for the current event
	var later Handle
	b.On(KindDrop, func(Event) bool { later.Remove(); return false })
	later = b.On(KindDrop, func(Event) bool { n++; return true })

	prevented := b.Dispatch(Drag{Type: KindDrop})
	assert.False(t, prevented)
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, b.Len(KindDrop))
}

func TestAddDuringDispatch(t *testing.T) {
	b := NewBus()
	n := 0
	added := false
	b.On(KindWheel, func(Event) bool {
		if !added {
			added = true
			b.On(KindWheel, func(Event) bool { n++; return false })
		}
		return false
	})

	b.Dispatch(Wheel{})
	assert.Equal(t, 0, n, "added handler waits for the next event")
	b.Dispatch(Wheel{})
	assert.Equal(t, 1, n)
}

func TestGroupClose(t *testing.T) {
	root, doc := NewBus(), NewBus()
	var g Group
	noop := func(Event) bool { return false }
	g.Add(
		root.On(KindWheel, noop),
		doc.On(KindMouseMove, noop),
		doc.On(KindMouseUp, noop),
	)
	other := doc.On(KindMouseUp, noop)
	require.Equal(t, 3, g.Len())

	g.Close()
	g.Close()

	assert.Equal(t, 0, root.Len(KindWheel))
	assert.Equal(t, 0, doc.Len(KindMouseMove))
	assert.Equal(t, 1, doc.Len(KindMouseUp))
	assert.Equal(t, 0, g.Len())
	other.Remove()
	assert.Equal(t, 0, doc.Len(KindMouseUp))
}

func TestZeroHandleAndUnknownKind(t *testing.T) {
	b := NewBus()
	h := b.On(kindCount, func(Event) bool { return true })
	h.Remove()
	Handle{}.Remove()
	assert.Equal(t, "unknown", kindCount.String())
	assert.Equal(t, "dragover", KindDragOver.String())
}
