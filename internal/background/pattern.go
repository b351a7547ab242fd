// Package background computes the dot grid drawn behind the canvas content.
package background

import (
	"math"

	"github.com/JackWithOneEye/flowcanvas/internal/viewport"
)

const (
	DefaultGap    = 20.0
	DefaultRadius = 1.5

	// MinTileSize is the smallest tile, in px, that is still drawn. Below
	// it the dots merge into a flat tint.
	MinTileSize = 1.0
)

// Pattern is the unscaled dot grid.
type Pattern struct {
	Gap    float64 `json:"gap"`
	Radius float64 `json:"radius"`
}

func DefaultPattern() Pattern {
	return Pattern{Gap: DefaultGap, Radius: DefaultRadius}
}

// Tile is one repetition of the pattern in viewport coordinates. The dot
// sits in the top left corner of the tile, touching both sides.
type Tile struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Size   float64 `json:"size"`
	Radius float64 `json:"radius"`
}

// At returns the tile for a viewport state. The origin follows the scroll
// offset so the dots move with the content.
func (p Pattern) At(s viewport.State) Tile {
	return Tile{
		X:      s.Scroll.Left,
		Y:      s.Scroll.Top,
		Size:   p.Gap * s.Scale,
		Radius: p.Radius * s.Scale,
	}
}

// Point is a dot centre.
type Point struct {
	X, Y float64
}

// Dots returns the centres of every dot that is at least partly visible in
// the rectangle (0, 0, width, height), row by row. Tiles smaller than
// MinTileSize yield no dots.
func (t Tile) Dots(width, height float64) []Point {
	if !(t.Size >= MinTileSize) || !(width > 0) || !(height > 0) {
		return nil
	}
	x0 := first(t.X+t.Radius, t.Size, t.Radius)
	y0 := first(t.Y+t.Radius, t.Size, t.Radius)

	var pts []Point
	for y := y0; y-t.Radius < height; y += t.Size {
		for x := x0; x-t.Radius < width; x += t.Size {
			pts = append(pts, Point{X: x, Y: y})
		}
	}
	return pts
}

// first returns the smallest c = centre + k*size with c+radius > 0.
func first(centre, size, radius float64) float64 {
	m := math.Mod(centre+radius, size)
	if m <= 0 {
		m += size
	}
	return m - radius
}
