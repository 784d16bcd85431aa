package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines a color palette used by all reader views.
type Theme struct {
	Bg       lipgloss.Color
	Accent   lipgloss.Color
	Subtle   lipgloss.Color
	Text     lipgloss.Color
	Dim      lipgloss.Color
	Border   lipgloss.Color
	StatusBg lipgloss.Color
	StatusFg lipgloss.Color
	Error    lipgloss.Color
}

// DefaultTheme returns the default color palette (catppuccin-inspired).
func DefaultTheme() Theme {
	return Theme{
		Bg:       lipgloss.Color("#1e1e2e"),
		Accent:   lipgloss.Color("#cba6f7"),
		Subtle:   lipgloss.Color("#6c7086"),
		Text:     lipgloss.Color("#cdd6f4"),
		Dim:      lipgloss.Color("#585b70"),
		Border:   lipgloss.Color("#45475a"),
		StatusBg: lipgloss.Color("#313244"),
		StatusFg: lipgloss.Color("#cdd6f4"),
		Error:    lipgloss.Color("#f38ba8"),
	}
}
