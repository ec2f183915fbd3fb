package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#04B575")).
		Bold(true)

	Info = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#87C1FF"))

	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFA07A"))

	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF616E")).
		Bold(true)

	logoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF86C8")).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF86C8")).
			Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF86C8")).
			Bold(true)

	defaultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87C1FF")).
			MarginLeft(2)
)

const logo = "ScaffoldIT · tomo plugin renamer"

// Logo renders the banner shown before the first prompt.
func Logo() string {
	return logoStyle.Render(logo)
}
