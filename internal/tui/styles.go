package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme colors
var (
	borderColor   = lipgloss.Color("240")
	titleFg       = lipgloss.Color("#ffffff")
	statusFg      = lipgloss.Color("#cccccc")
	dotFg         = lipgloss.Color("#5c6370")
	nodeFg        = lipgloss.Color("#1a192b")
	nodeBg        = lipgloss.Color("#e6e6e6")
	ghostFg       = lipgloss.Color("#7aa2f7")
	errorFg       = lipgloss.Color("#ff6b6b")
	successFg     = lipgloss.Color("#51cf66")
	modalBorderFg = lipgloss.Color("62")
	modalBg       = lipgloss.Color("235")
	modalFg       = lipgloss.Color("252")
)

// Base styles
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(titleFg).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(statusFg).
			AlignHorizontal(lipgloss.Right)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorFg).
			Bold(true)

	dotStyle = lipgloss.NewStyle().
			Foreground(dotFg)

	nodeStyle = lipgloss.NewStyle().
			Foreground(nodeFg).
			Background(nodeBg)

	ghostStyle = lipgloss.NewStyle().
			Foreground(ghostFg).
			Bold(true)

	paletteStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(borderColor)

	paletteItemStyle = lipgloss.NewStyle().
				Foreground(modalFg)

	paletteActiveStyle = lipgloss.NewStyle().
				Foreground(ghostFg).
				Bold(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(modalBorderFg).
			Background(modalBg).
			Foreground(modalFg).
			Padding(1, 2)
)

// connectedStatus returns a styled status indicator for connection state
func connectedStatus(connected bool) string {
	if connected {
		return lipgloss.NewStyle().Foreground(successFg).Render("● Connected")
	}
	return lipgloss.NewStyle().Foreground(errorFg).Render("○ Disconnected")
}

// phaseStatus renders the auto-scroll phase, highlighted while ticking.
func phaseStatus(phase string) string {
	if phase == "ticking" {
		return lipgloss.NewStyle().Foreground(successFg).Render("⇆ " + phase)
	}
	return lipgloss.NewStyle().Foreground(statusFg).Render(phase)
}
