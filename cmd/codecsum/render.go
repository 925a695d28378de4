package main

import (
	"github.com/charmbracelet/lipgloss"

	"codecsum/internal/summary"
)

var batchNameStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

// renderText flattens a summary for the terminal, emphasizing batch names
// unless plain output was requested.
func renderText(s *summary.Summary, plain bool) string {
	if plain {
		return s.String()
	}
	return s.Render(func(f summary.Fragment) string {
		if f.BatchIndex >= 0 {
			return batchNameStyle.Render(f.Text)
		}
		return f.Text
	})
}
