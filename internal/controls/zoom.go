// Package controls implements the zoom button panel of the canvas.
package controls

import (
	"math"
	"strconv"
)

const (
	DefaultStep = 0.25
	DefaultMin  = 0.25
	DefaultMax  = 1.25
)

// Scaler is a viewport the panel can drive.
type Scaler interface {
	Scale() float64
	UpdateScale(scale float64)
	ResetCanvas()
}

// Panel holds the zoom step and the scale range of the buttons.
type Panel struct {
	Step float64 `json:"step" validate:"gt=0"`
	Min  float64 `json:"min" validate:"gt=0"`
	Max  float64 `json:"max" validate:"gt=0,gtefield=Min"`
}

func DefaultPanel() Panel {
	return Panel{Step: DefaultStep, Min: DefaultMin, Max: DefaultMax}
}

// ZoomedIn returns the scale one step above s, capped at Max.
func (p Panel) ZoomedIn(s float64) float64 {
	return math.Min(s+p.Step, p.Max)
}

// ZoomedOut returns the scale one step below s, floored at Min.
func (p Panel) ZoomedOut(s float64) float64 {
	return math.Max(s-p.Step, p.Min)
}

func (p Panel) MinReached(s float64) bool { return s <= p.Min }

func (p Panel) MaxReached(s float64) bool { return s >= p.Max }

// ZoomIn applies one zoom-in step to v and returns the new scale.
func (p Panel) ZoomIn(v Scaler) float64 {
	v.UpdateScale(p.ZoomedIn(v.Scale()))
	return v.Scale()
}

// ZoomOut applies one zoom-out step to v and returns the new scale.
func (p Panel) ZoomOut(v Scaler) float64 {
	v.UpdateScale(p.ZoomedOut(v.Scale()))
	return v.Scale()
}

// FitView restores scale 1 and scroll {0, 0}.
func (p Panel) FitView(v Scaler) {
	v.ResetCanvas()
}

// Percent renders s as the label shown between the zoom buttons, e.g. "75%".
func Percent(s float64) string {
	return strconv.FormatFloat(s*100, 'f', -1, 64) + "%"
}
