package protocol

import (
	"testing"

	"github.com/JackWithOneEye/flowcanvas/internal/autoscroll"
	"github.com/JackWithOneEye/flowcanvas/internal/geom"
	"github.com/JackWithOneEye/flowcanvas/internal/viewport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputEncoding(t *testing.T) {
	o := Output{
		State: viewport.State{
			Scale:         1.25,
			Scroll:        geom.Delta{Left: -100, Top: -4},
			ScrollBounds:  geom.Delta{Left: -925, Top: -550},
			ContainerSize: geom.Size{Width: 300, Height: 300},
			ContentSize:   geom.Size{Width: 900, Height: 600},
			Dragging:      true,
		},
		Phase: autoscroll.PhaseTicking,
	}
	b := o.Bytes()
	require.Len(t, b, o.EncodeSize())
	assert.Equal(t, byte(1), b[len(b)-2])
	assert.Equal(t, byte(autoscroll.PhaseTicking), b[len(b)-1])

	var got Output
	require.NoError(t, got.Decode(b))
	assert.Equal(t, o, got)
}

func TestOutputDecodeShort(t *testing.T) {
	var o Output
	err := o.Decode(make([]byte, outputSize-1))
	assert.ErrorIs(t, err, ErrTooShort)
}
