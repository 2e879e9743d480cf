package monitor

import "github.com/charmbracelet/lipgloss"

// Dashboard color palette.
const (
	ColorBorder        = lipgloss.Color("#2A2A4A")
	ColorHealthy       = lipgloss.Color("#39FF14")
	ColorWarning       = lipgloss.Color("#FFAA00")
	ColorCritical      = lipgloss.Color("#FF0055")
	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")
	ColorAccent        = lipgloss.Color("#FF2E97")
)

// Thresholds for percentage metric severity levels.
const (
	WarningThreshold  = 70.0
	CriticalThreshold = 90.0
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	MetricNameStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	MetricValueStyle = lipgloss.NewStyle().
				Foreground(ColorTextPrimary).
				Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorCritical)

	PausedStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)
)

// severityColor maps a percentage value to its severity color.
func severityColor(percent float64) lipgloss.Color {
	switch {
	case percent >= CriticalThreshold:
		return ColorCritical
	case percent >= WarningThreshold:
		return ColorWarning
	default:
		return ColorHealthy
	}
}
