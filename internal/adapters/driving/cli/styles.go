package cli

import "github.com/charmbracelet/lipgloss"

// Terminal styles for human-readable output. JSON output is never
// styled.
var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	styleScore   = lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4"))
	styleMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	styleSnippet = lipgloss.NewStyle().PaddingLeft(6)
	styleAnswer  = lipgloss.NewStyle().PaddingLeft(2)
)
