package theme

import "github.com/charmbracelet/lipgloss"

var (
	Base     = lipgloss.Color("#1e1e2e")
	Mantle   = lipgloss.Color("#181825")
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Yellow   = lipgloss.Color("#f9e2af")
	Red      = lipgloss.Color("#f38ba8")
	Peach    = lipgloss.Color("#fab387")

	App = lipgloss.NewStyle().
		Background(Base).
		Foreground(Text).
		Padding(1, 2)

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Mantle).
		Foreground(Text).
		Padding(1)

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Good  = lipgloss.NewStyle().Foreground(Green).Bold(true)
	Warn  = lipgloss.NewStyle().Foreground(Yellow).Bold(true)
	Bad   = lipgloss.NewStyle().Foreground(Red).Bold(true)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)
)

// ScoreStyle picks a style for an overall score out of 100.
func ScoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= 75:
		return Good
	case score >= 50:
		return Warn
	default:
		return Bad
	}
}
