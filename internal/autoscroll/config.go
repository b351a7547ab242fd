package autoscroll

import "time"

const (
	DefaultScrollThreshold = 150.0
	DefaultMaxSpeed        = 4.0
	DefaultMinSpeed        = 1.0
	DefaultScrollRate      = 5 * time.Millisecond
)

// Config tunes the auto-scroll behaviour.
type Config struct {
	// ScrollThreshold is the distance in px from an edge at which scrolling
	// starts. It is capped at half the container extent of each axis.
	ScrollThreshold float64 `json:"scrollThreshold" validate:"gt=0"`
	// MaxSpeed is the scroll step in px per tick at the edge.
	MaxSpeed float64 `json:"maxSpeed" validate:"gt=0,gtefield=MinSpeed"`
	// MinSpeed is the scroll step in px per tick at the threshold.
	MinSpeed float64 `json:"minSpeed" validate:"gte=0"`
	// ScrollRate is the minimum time between processed ticks and the spacing
	// of the scroll steps scheduled by one tick.
	ScrollRate time.Duration `json:"scrollRate" validate:"gt=0"`
	// MouseScroll measures proximity from the pointer instead of the edges of
	// the dragged element.
	MouseScroll bool `json:"mouseScroll"`
}

func DefaultConfig() Config {
	return Config{
		ScrollThreshold: DefaultScrollThreshold,
		MaxSpeed:        DefaultMaxSpeed,
		MinSpeed:        DefaultMinSpeed,
		ScrollRate:      DefaultScrollRate,
	}
}

// normalized replaces unusable values with the defaults.
func (c Config) normalized() Config {
	d := DefaultConfig()
	if !(c.ScrollThreshold > 0) {
		c.ScrollThreshold = d.ScrollThreshold
	}
	if !(c.MinSpeed >= 0) {
		c.MinSpeed = d.MinSpeed
	}
	if !(c.MaxSpeed > 0) {
		c.MaxSpeed = d.MaxSpeed
	}
	if c.MaxSpeed < c.MinSpeed {
		c.MaxSpeed = c.MinSpeed
	}
	if c.ScrollRate <= 0 {
		c.ScrollRate = d.ScrollRate
	}
	return c
}
