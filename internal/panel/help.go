package panel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yewfence/mdblog/internal/theme"
)

// HelpEntry represents a single key binding for display.
type HelpEntry struct {
	Key   string
	Label string
}

// Help renders a popup listing the key bindings of the current view.
type Help struct {
	title   string
	entries []HelpEntry
	width   int
	theme   *theme.Theme
}

func NewHelp() Help {
	return Help{}
}

// SetTheme sets the color theme for the popup.
func (h *Help) SetTheme(th *theme.Theme) { h.theme = th }

func (h *Help) SetEntries(title string, entries []HelpEntry) {
	h.title = title
	h.entries = entries
}

func (h *Help) SetWidth(width int) {
	h.width = width
}

func (h *Help) Clear() {
	h.entries = nil
	h.title = ""
}

func (h Help) Visible() bool {
	return len(h.entries) > 0
}

func (h Help) View() string {
	if len(h.entries) == 0 {
		return ""
	}

	th := h.theme
	if th == nil {
		d := theme.DefaultTheme()
		th = &d
	}

	width := h.width
	if width == 0 {
		width = 60
	}

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.Accent).
		Padding(0, 1).
		Width(width - 4)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.Accent)

	keyStyle := lipgloss.NewStyle().
		Foreground(th.Accent).
		Bold(true)

	labelStyle := lipgloss.NewStyle().
		Foreground(th.Text)

	lines := []string{titleStyle.Render(h.title)}

	// Two columns when there is room.
	colWidth := (width - 4) / 2
	if colWidth < 20 {
		colWidth = width - 4
	}

	cell := func(e HelpEntry) string {
		return fmt.Sprintf("%s %s", keyStyle.Render(fmt.Sprintf("%-6s", e.Key)), labelStyle.Render(e.Label))
	}

	for i := 0; i < len(h.entries); i += 2 {
		left := cell(h.entries[i])
		if i+1 < len(h.entries) && colWidth < width-4 {
			pad := colWidth - lipgloss.Width(left)
			if pad < 1 {
				pad = 1
			}
			lines = append(lines, left+strings.Repeat(" ", pad)+cell(h.entries[i+1]))
		} else {
			lines = append(lines, left)
		}
	}

	return borderStyle.Render(strings.Join(lines, "\n"))
}
