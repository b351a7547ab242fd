// Package geom holds the small value types shared by the viewport core and
// its collaborators.
package geom

import "math"

// Delta is a scroll offset or a change to one. Left and Top follow the
// content translation convention: panning towards the bottom right of the
// content makes both more negative.
type Delta struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
}

// Add returns the component-wise sum of d and o.
func (d Delta) Add(o Delta) Delta {
	return Delta{Left: d.Left + o.Left, Top: d.Top + o.Top}
}

// IsZero reports whether both components are zero.
func (d Delta) IsZero() bool {
	return d.Left == 0 && d.Top == 0
}

// Size is a measured extent. A zero component means "not measured yet".
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Sanitize replaces negative and non-finite components with 0.
func (s Size) Sanitize() Size {
	return Size{Width: nonNegative(s.Width), Height: nonNegative(s.Height)}
}

// Max returns the component-wise maximum of s and o, sanitized.
func (s Size) Max(o Size) Size {
	return Size{
		Width:  math.Max(nonNegative(s.Width), nonNegative(o.Width)),
		Height: math.Max(nonNegative(s.Height), nonNegative(o.Height)),
	}
}

// Empty reports whether either component is zero.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect is an axis-aligned rectangle in document coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Contains reports whether (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.Right() && y >= r.Y && y <= r.Bottom()
}

// Insets are distances from a point to the four sides of a rectangle.
type Insets struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// InsetsOf returns the distances from (x, y) to each side of r.
func InsetsOf(r Rect, x, y float64) Insets {
	return Insets{
		Left:   x - r.X,
		Right:  r.Right() - x,
		Top:    y - r.Y,
		Bottom: r.Bottom() - y,
	}
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// Finite returns v, or 0 when v is NaN or infinite.
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func nonNegative(v float64) float64 {
	v = Finite(v)
	if v < 0 {
		return 0
	}
	return v
}
