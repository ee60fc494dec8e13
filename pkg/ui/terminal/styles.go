package terminal

import "github.com/charmbracelet/lipgloss"

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#9D8CFF"})

	IDStyle = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#0B7285", Dark: "#66D9E8"})

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#868E96", Dark: "#868E96"})

	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#2B8A3E", Dark: "#69DB7C"})

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#C92A2A", Dark: "#FF6B6B"})

	DocumentStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#CED4DA", Dark: "#495057"})
)
