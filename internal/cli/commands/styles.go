package commands

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles used by terminal output.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
	Card    lipgloss.Style
	Bar     lipgloss.Style
}

// NewStyles builds the style set. Colors degrade to plain text when
// the terminal does not support them.
func NewStyles() *Styles {
	if termenv.EnvColorProfile() == termenv.Ascii {
		plain := lipgloss.NewStyle()
		return &Styles{
			Title:   plain,
			Label:   plain,
			Value:   plain,
			Error:   plain,
			Warning: plain,
			Muted:   plain,
			Card:    lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 2),
			Bar:     plain,
		}
	}

	return &Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Value:   lipgloss.NewStyle().Bold(true),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Card:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2),
		Bar:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
}
