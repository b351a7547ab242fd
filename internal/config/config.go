package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/JackWithOneEye/flowcanvas/internal/autoscroll"
	"github.com/JackWithOneEye/flowcanvas/internal/controls"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type env struct {
	Port      uint   `mapstructure:"PORT" validate:"gt=0,lte=65535"`
	LogLevel  string `mapstructure:"LOG_LEVEL" validate:"oneof=trace debug info warn warning error fatal panic"`
	DevMode   bool   `mapstructure:"DEV_MODE"`
	AssetsDir string `mapstructure:"ASSETS_DIR" validate:"required"`

	ScrollThreshold float64 `mapstructure:"SCROLL_THRESHOLD" validate:"gt=0"`
	MaxSpeed        float64 `mapstructure:"MAX_SPEED" validate:"gt=0,gtefield=MinSpeed"`
	MinSpeed        float64 `mapstructure:"MIN_SPEED" validate:"gte=0"`
	ScrollRateMs    uint    `mapstructure:"SCROLL_RATE_MS" validate:"gt=0"`
	MouseScroll     bool    `mapstructure:"MOUSE_SCROLL"`

	ZoomStep float64 `mapstructure:"ZOOM_STEP" validate:"gt=0"`
	ZoomMin  float64 `mapstructure:"ZOOM_MIN" validate:"gt=0"`
	ZoomMax  float64 `mapstructure:"ZOOM_MAX" validate:"gtefield=ZoomMin"`
}

var defaults = map[string]any{
	"PORT":             8080,
	"LOG_LEVEL":        "info",
	"DEV_MODE":         false,
	"ASSETS_DIR":       "./cmd/web/assets",
	"SCROLL_THRESHOLD": autoscroll.DefaultScrollThreshold,
	"MAX_SPEED":        autoscroll.DefaultMaxSpeed,
	"MIN_SPEED":        autoscroll.DefaultMinSpeed,
	"SCROLL_RATE_MS":   uint(autoscroll.DefaultScrollRate / time.Millisecond),
	"MOUSE_SCROLL":     false,
	"ZOOM_STEP":        controls.DefaultStep,
	"ZOOM_MIN":         controls.DefaultMin,
	"ZOOM_MAX":         controls.DefaultMax,
}

type Config struct {
	env *env
}

// Load reads file (a dotenv file, may be missing) and the environment.
// Environment variables take precedence over the file.
func Load(file string) (*Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.SetConfigFile(file)
	v.SetConfigType("env")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
		logrus.Debugf("no config file at %s, using environment", file)
	}

	var e env
	if err := v.Unmarshal(&e); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := validator.New().Struct(&e); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Config{&e}, nil
}

func (c *Config) Port() uint {
	return c.env.Port
}

func (c *Config) LogLevel() logrus.Level {
	l, err := logrus.ParseLevel(c.env.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return l
}

func (c *Config) DevMode() bool {
	return c.env.DevMode
}

func (c *Config) AssetsDir() string {
	return c.env.AssetsDir
}

func (c *Config) AutoScroll() autoscroll.Config {
	return autoscroll.Config{
		ScrollThreshold: c.env.ScrollThreshold,
		MaxSpeed:        c.env.MaxSpeed,
		MinSpeed:        c.env.MinSpeed,
		ScrollRate:      time.Duration(c.env.ScrollRateMs) * time.Millisecond,
		MouseScroll:     c.env.MouseScroll,
	}
}

func (c *Config) ZoomPanel() controls.Panel {
	return controls.Panel{
		Step: c.env.ZoomStep,
		Min:  c.env.ZoomMin,
		Max:  c.env.ZoomMax,
	}
}
