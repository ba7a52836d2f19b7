// Package styles holds the shared palette of the classhelper TUI.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	Primary   = lipgloss.AdaptiveColor{Light: "#5A3FC0", Dark: "#7D56F4"}
	Highlight = lipgloss.AdaptiveColor{Light: "#1F1F1F", Dark: "#FAFAFA"}
	Surface   = lipgloss.AdaptiveColor{Light: "#E4DEFA", Dark: "#3C3478"}
	Border    = lipgloss.AdaptiveColor{Light: "#C5C5C5", Dark: "#4A4A4A"}
	Muted     = lipgloss.AdaptiveColor{Light: "#7A7A7A", Dark: "#8A8A8A"}
	Success   = lipgloss.AdaptiveColor{Light: "#1E8E3E", Dark: "#04B575"}
	Warning   = lipgloss.AdaptiveColor{Light: "#B26A00", Dark: "#FFB86C"}
	Danger    = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#FF6B6B"}
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			MarginBottom(1)

	InfoStyle    = lipgloss.NewStyle().Foreground(Primary)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Danger).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	HelpStyle    = lipgloss.NewStyle().Foreground(Muted)

	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Danger).
			Padding(0, 2)
)

// RenderTitle renders a screen title.
func RenderTitle(title string) string {
	return TitleStyle.Render(title)
}
