package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeSanitize(t *testing.T) {
	s := Size{Width: -4, Height: math.NaN()}.Sanitize()
	assert.Equal(t, Size{}, s)
	assert.True(t, s.Empty())

	s = Size{Width: 300, Height: math.Inf(1)}.Sanitize()
	assert.Equal(t, Size{Width: 300}, s)
	assert.True(t, s.Empty())

	assert.False(t, Size{Width: 1, Height: 1}.Empty())
}

func TestSizeMax(t *testing.T) {
	layout := Size{Width: 1400, Height: 900}
	tests := []struct {
		name     string
		extent   Size
		expected Size
	}{
		{"inside the box", Size{Width: 1400, Height: 900}, layout},
		{"overflow to the right", Size{Width: 1720, Height: 900}, Size{Width: 1720, Height: 900}},
		{"overflow below", Size{Width: 10, Height: 1240}, Size{Width: 1400, Height: 1240}},
		{"unmeasured", Size{Width: math.NaN(), Height: -1}, layout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, layout.Max(tt.extent))
		})
	}
}

func TestInsetsOf(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 50}
	in := InsetsOf(r, 30, 25)
	assert.Equal(t, Insets{Left: 20, Right: 80, Top: 5, Bottom: 45}, in)
	assert.True(t, r.Contains(110, 70))
	assert.False(t, r.Contains(9, 20))
}

func TestClampAndFinite(t *testing.T) {
	assert.Equal(t, -700.0, Clamp(-900, -700, 0))
	assert.Equal(t, 0.0, Clamp(12, -700, 0))
	assert.Equal(t, -5.0, Clamp(-5, -700, 0))
	assert.Equal(t, 0.0, Finite(math.Inf(-1)))
	assert.Equal(t, 3.5, Finite(3.5))
}

func TestDelta(t *testing.T) {
	d := Delta{Left: -1, Top: 2}.Add(Delta{Left: 1, Top: -2})
	assert.True(t, d.IsZero())
}
