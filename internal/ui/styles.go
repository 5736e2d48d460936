package ui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used across the storefront screens
type Styles struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Price    lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Panel    lipgloss.Style
	Focused  lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00A278")),
		Header:   lipgloss.NewStyle().Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00A278")),
		Price:    lipgloss.NewStyle().Foreground(lipgloss.Color("#1B5E20")),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("#B26A00")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("#C62828")),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		Focused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00A278")).
			Padding(0, 1),
	}
}
