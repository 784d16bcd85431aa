package panel

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yewfence/mdblog/internal/theme"
)

// ListItem is one post row in the blog index.
type ListItem struct {
	Path    string
	Title   string
	Date    time.Time
	Summary string
	Hidden  bool
}

// PostSelectedMsg is sent when a post is chosen in the list.
type PostSelectedMsg struct {
	Path string
}

// List is the blog index panel, newest post first.
type List struct {
	items    []ListItem
	cursor   int
	offset   int
	width    int
	height   int
	focused  bool
	theme    *theme.Theme
	emptyMsg string
}

func NewList() List {
	return List{focused: true, emptyMsg: "No posts yet"}
}

// SetTheme sets the color theme for the list.
func (l *List) SetTheme(th *theme.Theme) { l.theme = th }

// SetItems replaces the list contents, keeping the cursor on the same post
// when it is still present.
func (l *List) SetItems(items []ListItem) {
	selected := l.Selected()
	l.items = items
	if selected != "" {
		l.Select(selected)
	}
	l.clamp()
}

// Select moves the cursor to path. It reports whether path is listed.
func (l *List) Select(path string) bool {
	for i, it := range l.items {
		if it.Path == path {
			l.cursor = i
			l.scrollToCursor()
			return true
		}
	}
	return false
}

// Selected returns the path under the cursor, or "" for an empty list.
func (l List) Selected() string {
	if l.cursor < len(l.items) {
		return l.items[l.cursor].Path
	}
	return ""
}

func (l List) Len() int {
	return len(l.items)
}

func (l *List) clamp() {
	if l.cursor >= len(l.items) {
		l.cursor = len(l.items) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	l.scrollToCursor()
}

// rowsPerItem: title line, summary line, spacer.
const rowsPerItem = 3

func (l List) visibleItems() int {
	n := (l.height - 1) / rowsPerItem
	if n < 1 {
		n = 1
	}
	return n
}

func (l *List) scrollToCursor() {
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if vis := l.visibleItems(); l.cursor-l.offset >= vis {
		l.offset = l.cursor - vis + 1
	}
}

func (l List) Update(msg tea.Msg) (List, tea.Cmd) {
	if !l.focused {
		return l, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if l.cursor < len(l.items)-1 {
				l.cursor++
				l.scrollToCursor()
			}
		case "k", "up":
			if l.cursor > 0 {
				l.cursor--
				l.scrollToCursor()
			}
		case "G", "end":
			if len(l.items) == 0 {
				break
			}
			l.cursor = len(l.items) - 1
			l.scrollToCursor()
		case "g", "home":
			l.cursor = 0
			l.offset = 0
		case "enter":
			if l.cursor < len(l.items) {
				path := l.items[l.cursor].Path
				return l, func() tea.Msg {
					return PostSelectedMsg{Path: path}
				}
			}
		}
	}

	return l, nil
}

func (l List) View() string {
	if l.width == 0 || l.height == 0 {
		return ""
	}

	th := l.theme
	if th == nil {
		d := theme.DefaultTheme()
		th = &d
	}

	titleStyle := lipgloss.NewStyle().Foreground(th.Text)
	selectedStyle := lipgloss.NewStyle().Foreground(th.Accent).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(th.Dim)
	badgeStyle := lipgloss.NewStyle().Foreground(th.Error)

	if len(l.items) == 0 {
		return dimStyle.Render("  " + l.emptyMsg)
	}

	var b strings.Builder
	end := l.offset + l.visibleItems()
	for i := l.offset; i < len(l.items) && i < end; i++ {
		it := l.items[i]

		prefix := "  "
		style := titleStyle
		if i == l.cursor {
			prefix = "> "
			style = selectedStyle
		}

		line := prefix + truncate(it.Title, l.width-16)
		if !it.Date.IsZero() {
			line += " " + dimStyle.Render(it.Date.Format("2006-01-02"))
		}
		if it.Hidden {
			line += " " + badgeStyle.Render("[hidden]")
		}
		b.WriteString(style.Render(line))
		b.WriteByte('\n')

		if it.Summary != "" {
			b.WriteString(dimStyle.Render("    " + truncate(it.Summary, l.width-6)))
		}
		b.WriteString("\n\n")
	}

	if len(l.items) > end {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ... %d more", len(l.items)-end)))
	}

	return strings.TrimRight(b.String(), "\n")
}

func (l *List) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.scrollToCursor()
}

func (l *List) SetFocused(focused bool) {
	l.focused = focused
}

// truncate shortens s to at most width runes, marking the cut with "...".
func truncate(s string, width int) string {
	r := []rune(s)
	if width < 4 || len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
