package desk

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	header    lipgloss.Style
	item      lipgloss.Style
	detail    lipgloss.Style
	warning   lipgloss.Style
	success   lipgloss.Style
	section   lipgloss.Style
	empty     lipgloss.Style
	label     lipgloss.Style
	statusTag map[string]lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		header:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		item:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		warning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		success: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("114")),
		section: lipgloss.NewStyle().MarginTop(1),
		empty:   lipgloss.NewStyle().Faint(true),
		label:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		statusTag: map[string]lipgloss.Style{
			"pending":    lipgloss.NewStyle().Foreground(lipgloss.Color("221")),
			"notStarted": lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			"inProgress": lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
			"completed":  lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
			"cancelled":  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		},
	}
}
