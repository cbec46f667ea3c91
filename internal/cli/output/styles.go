package output

import "github.com/charmbracelet/lipgloss"

// Styles are the lipgloss styles used by text output.
type Styles struct {
	Header  lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Bar     lipgloss.Style
}

func newStyles(lr *lipgloss.Renderer) Styles {
	return Styles{
		Header:  lr.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		Header2: lr.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Bold:    lr.NewStyle().Bold(true),
		Muted:   lr.NewStyle().Foreground(lipgloss.Color("245")),
		Success: lr.NewStyle().Foreground(lipgloss.Color("42")),
		Warning: lr.NewStyle().Foreground(lipgloss.Color("214")),
		Error:   lr.NewStyle().Foreground(lipgloss.Color("196")),
		Info:    lr.NewStyle().Foreground(lipgloss.Color("39")),
		Bar:     lr.NewStyle().Foreground(lipgloss.Color("63")),
	}
}
