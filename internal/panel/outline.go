package panel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yewfence/mdblog/internal/theme"
)

// Outline is the column next to a post listing its section headings.
type Outline struct {
	width  int
	height int
	lines  []string
	theme  *theme.Theme
}

func NewOutline() Outline {
	return Outline{}
}

func (o *Outline) SetTheme(th *theme.Theme) { o.theme = th }

// SetOutline replaces the listed headings. Lines are already indented by
// heading level.
func (o *Outline) SetOutline(lines []string) { o.lines = lines }

func (o *Outline) Clear() { o.lines = nil }

func (o Outline) Lines() []string { return o.lines }

func (o Outline) View() string {
	if o.width == 0 || o.height == 0 {
		return ""
	}
	th := themeOrDefault(o.theme)

	header := lipgloss.NewStyle().Bold(true).Foreground(th.Accent).Padding(0, 1)
	entry := lipgloss.NewStyle().Foreground(th.Subtle)
	dim := lipgloss.NewStyle().Foreground(th.Dim).Padding(0, 1)

	out := []string{header.Render("Contents")}
	if len(o.lines) == 0 {
		return strings.Join(append(out, dim.Render("No sections")), "\n")
	}

	room := max(1, o.height-2)
	shown := o.lines
	if len(shown) > room {
		shown = shown[:room-1]
	}
	for _, l := range shown {
		out = append(out, " "+entry.Render(truncate(l, o.width-2)))
	}
	if hidden := len(o.lines) - len(shown); hidden > 0 {
		out = append(out, dim.Render(fmt.Sprintf("+%d more", hidden)))
	}
	return strings.Join(out, "\n")
}

func (o *Outline) SetSize(width, height int) {
	o.width = width
	o.height = height
}
