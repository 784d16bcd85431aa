package panel

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yewfence/mdblog/internal/theme"
)

// themeOrDefault returns th, or the default theme when a panel has none.
func themeOrDefault(th *theme.Theme) theme.Theme {
	if th == nil {
		return theme.DefaultTheme()
	}
	return *th
}

// dialog frames lines in the rounded accent border shared by overlays.
func dialog(th theme.Theme, width int, title string, lines ...string) string {
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.Accent).
		Padding(0, 1).
		Width(width)

	heading := lipgloss.NewStyle().Bold(true).Foreground(th.Accent).Render(title)
	return frame.Render(heading + "\n" + strings.Join(lines, "\n"))
}
