package tui

import "github.com/charmbracelet/lipgloss"

var (
	gold  = lipgloss.Color("#F4C542")
	muted = lipgloss.Color("#D1D5DB")
	red   = lipgloss.Color("#EF4444")
)

// Styles groups the lipgloss styles the wizard renders with.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Prompt   lipgloss.Style
	Focused  lipgloss.Style
	Selected lipgloss.Style
	Option   lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(gold).MarginBottom(1),
		Subtitle: lipgloss.NewStyle().Foreground(muted).Italic(true),
		Prompt:   lipgloss.NewStyle().Foreground(muted),
		Focused:  lipgloss.NewStyle().Foreground(gold).Bold(true),
		Selected: lipgloss.NewStyle().Foreground(gold),
		Option:   lipgloss.NewStyle().Foreground(muted),
		Error:    lipgloss.NewStyle().Foreground(red),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1),
	}
}
