package reader

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// overlayCenter paints box over the middle of screen. Both may carry ANSI
// styling; columns are measured by display width.
func overlayCenter(screen, box string, width, height int) string {
	rows := strings.Split(screen, "\n")
	boxRows := strings.Split(box, "\n")
	boxWidth := lipgloss.Width(box)

	top := max(0, (height-len(boxRows))/2)
	left := max(0, (width-boxWidth)/2)

	for i, line := range boxRows {
		r := top + i
		if r >= len(rows) {
			break
		}
		under := rows[r]
		if pad := left - lipgloss.Width(under); pad > 0 {
			under += strings.Repeat(" ", pad)
		}
		row := ansi.Cut(under, 0, left) + line + ansi.Cut(under, left+boxWidth, width)
		rows[r] = ansi.Truncate(row, width, "")
	}

	return strings.Join(rows, "\n")
}
