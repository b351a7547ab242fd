package controls

import (
	"testing"

	"github.com/JackWithOneEye/flowcanvas/internal/geom"
	"github.com/JackWithOneEye/flowcanvas/internal/viewport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZoomSteps(t *testing.T) {
	p := DefaultPanel()
	tests := []struct {
		name string
		fn   func(float64) float64
		in   float64
		want float64
	}{
		{"in from 1", p.ZoomedIn, 1, 1.25},
		{"in capped", p.ZoomedIn, 1.25, 1.25},
		{"in from odd scale", p.ZoomedIn, 1.1, 1.25},
		{"out from 1", p.ZoomedOut, 1, 0.75},
		{"out floored", p.ZoomedOut, 0.25, 0.25},
		{"out from odd scale", p.ZoomedOut, 0.4, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.in))
		})
	}
}

func TestReachedFlags(t *testing.T) {
	p := DefaultPanel()
	assert.True(t, p.MinReached(0.25))
	assert.False(t, p.MinReached(0.5))
	assert.True(t, p.MaxReached(1.25))
	assert.False(t, p.MaxReached(1))
}

func TestPanelDrivesCanvas(t *testing.T) {
	p := DefaultPanel()
	c := viewport.New()
	c.SetContainerSize(geom.Size{Width: 300, Height: 300})
	c.SetContentSize(geom.Size{Width: 600, Height: 600})

	for range 10 {
		p.ZoomOut(c)
	}
	require.Equal(t, 0.25, c.Scale())
	assert.Equal(t, geom.Delta{}, c.ScrollBounds(), "content fits at a quarter scale")

	assert.Equal(t, 0.5, p.ZoomIn(c))
	c.ScrollBy(geom.Delta{Left: -100, Top: -50})

	p.FitView(c)
	assert.Equal(t, 1.0, c.Scale())
	assert.Equal(t, geom.Delta{}, c.Scroll())
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "100%", Percent(1))
	assert.Equal(t, "25%", Percent(0.25))
	assert.Equal(t, "125%", Percent(1.25))
}
