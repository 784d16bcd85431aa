package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/yewfence/mdblog/internal/theme"
)

// Styles are the lipgloss styles of the reader views, derived from a theme.
type Styles struct {
	PanelBorder lipgloss.Style
	Header      lipgloss.Style
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Body        lipgloss.Style
	Dim         lipgloss.Style
	Error       lipgloss.Style
}

func NewStyles(th theme.Theme) Styles {
	return Styles{
		PanelBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(th.Border),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(th.Accent).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(th.Accent).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(th.Border),

		Subtitle: lipgloss.NewStyle().
			Foreground(th.Subtle),

		Body: lipgloss.NewStyle().
			Foreground(th.Text),

		Dim: lipgloss.NewStyle().
			Foreground(th.Dim),

		Error: lipgloss.NewStyle().
			Foreground(th.Error),
	}
}
