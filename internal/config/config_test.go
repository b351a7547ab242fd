package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JackWithOneEye/flowcanvas/internal/autoscroll"
	"github.com/JackWithOneEye/flowcanvas/internal/controls"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, uint(8080), cfg.Port())
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel())
	assert.False(t, cfg.DevMode())
	assert.Equal(t, autoscroll.DefaultConfig(), cfg.AutoScroll())
	assert.Equal(t, controls.DefaultPanel(), cfg.ZoomPanel())
}

func TestFileValues(t *testing.T) {
	p := writeEnv(t, "PORT=9000\nLOG_LEVEL=debug\nDEV_MODE=true\nSCROLL_RATE_MS=8\nMOUSE_SCROLL=true\nZOOM_MAX=2\n")
	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, uint(9000), cfg.Port())
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel())
	assert.True(t, cfg.DevMode())
	assert.Equal(t, 8*time.Millisecond, cfg.AutoScroll().ScrollRate)
	assert.True(t, cfg.AutoScroll().MouseScroll)
	assert.Equal(t, 2.0, cfg.ZoomPanel().Max)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	p := writeEnv(t, "PORT=9000\n")
	t.Setenv("PORT", "9100")
	t.Setenv("MAX_SPEED", "6")

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, uint(9100), cfg.Port())
	assert.Equal(t, 6.0, cfg.AutoScroll().MaxSpeed)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		env  string
	}{
		{"zero port", "PORT=0\n"},
		{"bad level", "LOG_LEVEL=loud\n"},
		{"max below min", "MIN_SPEED=5\nMAX_SPEED=2\n"},
		{"zero rate", "SCROLL_RATE_MS=0\n"},
		{"zoom range", "ZOOM_MIN=1\nZOOM_MAX=0.5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeEnv(t, tt.env))
			assert.ErrorContains(t, err, "invalid config")
		})
	}
}
