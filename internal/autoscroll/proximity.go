package autoscroll

import (
	"cmp"
	"math"
	"slices"

	"github.com/JackWithOneEye/flowcanvas/internal/geom"
)

// Edge is a side of the viewport.
type Edge uint8

// Edges are listed in tie-break priority order.
const (
	EdgeLeft Edge = iota
	EdgeTop
	EdgeRight
	EdgeBottom
)

func (e Edge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeTop:
		return "top"
	case EdgeRight:
		return "right"
	case EdgeBottom:
		return "bottom"
	}
	return "unknown"
}

// fullSpeedDistance is how close to the edge, in px, MaxSpeed is reached.
const fullSpeedDistance = 30

type edgeDistance struct {
	edge  Edge
	value float64
}

// Geometry is what a tick needs to know about the viewport.
type Geometry struct {
	// X and Y are the pointer position relative to the viewport.
	X, Y float64
	// Size is the viewport size.
	Size geom.Size
	// InTarget is the pointer's distance to each side of the dragged element.
	InTarget     geom.Insets
	Scroll       geom.Delta
	ScrollBounds geom.Delta
}

// blocked reports which edges cannot scroll any further. Scrolling towards
// the left or top edge moves the offset towards 0; towards the right or
// bottom edge it moves it towards the bound.
func blocked(scroll, bounds geom.Delta) [4]bool {
	return [4]bool{
		EdgeLeft:   scroll.Left == 0,
		EdgeTop:    scroll.Top == 0,
		EdgeRight:  scroll.Left <= bounds.Left,
		EdgeBottom: scroll.Top <= bounds.Top,
	}
}

// distances returns the signed distance of each edge to its trigger zone,
// negative inside the zone, sorted ascending with ties kept in edge order.
func distances(cfg Config, g Geometry) []edgeDistance {
	thX := math.Min(cfg.ScrollThreshold, g.Size.Width/2)
	thY := math.Min(cfg.ScrollThreshold, g.Size.Height/2)
	in := g.InTarget

	ds := []edgeDistance{
		{EdgeLeft, g.X - in.Left - thX},
		{EdgeTop, g.Y - in.Top - thY},
		{EdgeRight, g.Size.Width - in.Right - g.X - thX},
		{EdgeBottom, g.Size.Height - in.Bottom - g.Y - thY},
	}
	stop := blocked(g.Scroll, g.ScrollBounds)
	for i := range ds {
		if stop[ds[i].edge] {
			ds[i].value = 0
		}
	}
	slices.SortStableFunc(ds, func(a, b edgeDistance) int {
		return cmp.Compare(a.value, b.value)
	})
	return ds
}

// Speed returns the scroll step for a negative edge distance. The step ramps
// from MinSpeed at the threshold up to MaxSpeed within fullSpeedDistance of
// the edge.
func Speed(cfg Config, distance float64) float64 {
	cfg = cfg.normalized()
	near := fullSpeedDistance - cfg.ScrollThreshold
	if distance < near {
		return cfg.MaxSpeed
	}
	ramp := cfg.MinSpeed + (cfg.MaxSpeed-cfg.MinSpeed)*distance/near
	return math.Min(cfg.MaxSpeed, roundHalfUp(ramp))
}

// Delta returns the scroll step for one tick, or false when the pointer is
// not inside any trigger zone of an edge that can still scroll.
func Delta(cfg Config, g Geometry) (geom.Delta, Edge, bool) {
	cfg = cfg.normalized()
	if g.Size.Empty() {
		return geom.Delta{}, 0, false
	}
	winner := distances(cfg, g)[0]
	if !(winner.value < 0) {
		return geom.Delta{}, 0, false
	}
	speed := Speed(cfg, winner.value)

	var d geom.Delta
	switch winner.edge {
	case EdgeLeft:
		d.Left = speed
	case EdgeRight:
		d.Left = -speed
	case EdgeTop:
		d.Top = speed
	case EdgeBottom:
		d.Top = -speed
	}
	return d, winner.edge, true
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
