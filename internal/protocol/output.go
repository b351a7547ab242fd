package protocol

import (
	"fmt"

	"github.com/JackWithOneEye/flowcanvas/internal/autoscroll"
	"github.com/JackWithOneEye/flowcanvas/internal/viewport"
)

const outputSize = sizeF64 + 2*sizeDelta + 2*sizeSize + 2

// Output is the state frame sent to clients after every change.
type Output struct {
	viewport.State
	Phase autoscroll.Phase
}

func (o *Output) Encode(b []byte) {
	w := &writer{b: b}
	w.f64(o.Scale)
	w.delta(o.Scroll)
	w.delta(o.ScrollBounds)
	w.size(o.ContainerSize)
	w.size(o.ContentSize)
	w.bool(o.Dragging)
	w.u8(uint8(o.Phase))
}

func (o *Output) EncodeSize() int {
	return outputSize
}

// Bytes returns a freshly allocated encoding of o.
func (o *Output) Bytes() []byte {
	b := make([]byte, o.EncodeSize())
	o.Encode(b)
	return b
}

func (o *Output) Decode(b []byte) error {
	r := &reader{b: b}
	o.Scale = r.f64()
	o.Scroll = r.delta()
	o.ScrollBounds = r.delta()
	o.ContainerSize = r.size()
	o.ContentSize = r.size()
	o.Dragging = r.bool()
	o.Phase = autoscroll.Phase(r.u8())
	if r.err != nil {
		return fmt.Errorf("[Output] %w", r.err)
	}
	return nil
}
