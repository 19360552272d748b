package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha palette.
var (
	colorBase     = lipgloss.Color("#1E1E2E") // background
	colorSurface1 = lipgloss.Color("#45475A") // lighter surface
	colorText     = lipgloss.Color("#CDD6F4") // primary text
	colorSubtext  = lipgloss.Color("#A6ADC8") // secondary text
	colorDim      = lipgloss.Color("#585B70") // muted, borders

	colorAccent = lipgloss.Color("#CBA6F7") // mauve – primary accent
	colorGreen  = lipgloss.Color("#A6E3A1") // OK / healthy
	colorYellow = lipgloss.Color("#F9E2AF") // warning
	colorRed    = lipgloss.Color("#F38BA8") // error
	colorTeal   = lipgloss.Color("#94E2D5") // secondary highlight
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(1, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorSubtext)

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText)

	errStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)
