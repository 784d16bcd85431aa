package panel

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yewfence/mdblog/internal/theme"
)

// FinderItem is one search hit.
type FinderItem struct {
	Title   string
	Path    string
	Date    string
	Summary string
}

// FinderResultMsg is sent when a post is picked from the results.
type FinderResultMsg struct {
	Path  string
	Query string
}

// FinderClosedMsg is sent when the search is dismissed.
type FinderClosedMsg struct {
	Query string
}

// SearchFunc returns the posts matching query.
type SearchFunc func(query string) []FinderItem

// Finder is the search-as-you-type overlay of the reader.
type Finder struct {
	input    textinput.Model
	items    []FinderItem
	cursor   int
	offset   int // first visible result
	width    int
	height   int
	visible  bool
	searchFn SearchFunc
	theme    *theme.Theme
}

func NewFinder() Finder {
	ti := textinput.New()
	ti.Placeholder = "title, words or heading..."
	ti.Prompt = "/ "
	ti.CharLimit = 200
	ti.Width = 50

	return Finder{input: ti}
}

func (f *Finder) SetTheme(th *theme.Theme) { f.theme = th }

func (f *Finder) SetSearchFunc(fn SearchFunc) { f.searchFn = fn }

// Show opens the finder with query already typed in and runs it.
func (f *Finder) Show(query string) {
	f.visible = true
	f.input.SetValue(query)
	f.input.CursorEnd()
	f.input.Focus()
	f.search()
}

func (f *Finder) Hide() {
	f.visible = false
	f.input.Blur()
}

func (f Finder) Visible() bool { return f.visible }

// Items returns the current results.
func (f Finder) Items() []FinderItem { return f.items }

func (f *Finder) search() {
	f.cursor, f.offset = 0, 0
	f.items = nil
	if f.searchFn != nil {
		f.items = f.searchFn(f.input.Value())
	}
}

// rows is how many results fit in the overlay.
func (f Finder) rows() int {
	n := (f.height*2/3 - 6) / 2
	if n < 3 {
		n = 3
	}
	return n
}

func (f *Finder) move(delta int) {
	if len(f.items) == 0 {
		return
	}
	f.cursor = max(0, min(len(f.items)-1, f.cursor+delta))

	rows := f.rows()
	if f.cursor < f.offset {
		f.offset = f.cursor
	}
	if f.cursor >= f.offset+rows {
		f.offset = f.cursor - rows + 1
	}
}

func (f Finder) Update(msg tea.Msg) (Finder, tea.Cmd) {
	if !f.visible {
		return f, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		query := f.input.Value()
		switch msg.String() {
		case "esc":
			f.Hide()
			return f, func() tea.Msg { return FinderClosedMsg{Query: query} }
		case "enter":
			if len(f.items) == 0 {
				return f, nil
			}
			path := f.items[f.cursor].Path
			f.Hide()
			return f, func() tea.Msg { return FinderResultMsg{Path: path, Query: query} }
		case "up", "ctrl+p", "ctrl+k":
			f.move(-1)
			return f, nil
		case "down", "ctrl+n", "ctrl+j":
			f.move(1)
			return f, nil
		case "pgup":
			f.move(-f.rows())
			return f, nil
		case "pgdown":
			f.move(f.rows())
			return f, nil
		}
	}

	before := f.input.Value()
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	if f.input.Value() != before {
		f.search()
	}
	return f, cmd
}

func (f Finder) View() string {
	if !f.visible {
		return ""
	}
	th := themeOrDefault(f.theme)

	width := f.width
	if width == 0 {
		width = 60
	}
	inner := width - 6

	dim := lipgloss.NewStyle().Foreground(th.Dim)
	normal := lipgloss.NewStyle().Foreground(th.Text)
	current := lipgloss.NewStyle().Foreground(th.Accent).Bold(true)

	title := "Search"
	if n := len(f.items); n == 1 {
		title += " (1 post)"
	} else if n > 1 {
		title += fmt.Sprintf(" (%d posts)", n)
	}

	lines := []string{f.input.View(), ""}
	if len(f.items) == 0 {
		lines = append(lines, dim.Render("No matching posts"))
		return dialog(th, inner, title, lines...)
	}

	end := min(len(f.items), f.offset+f.rows())
	for i := f.offset; i < end; i++ {
		item := f.items[i]
		name := item.Title
		if name == "" {
			name = item.Path
		}

		style, marker := normal, "  "
		if i == f.cursor {
			style, marker = current, "> "
		}

		head := marker + truncate(name, inner-len(item.Date)-3)
		if item.Date != "" {
			head += " " + dim.Render(item.Date)
		}
		lines = append(lines, style.Render(head), dim.Render("  "+truncate(item.Summary, inner-2)))
	}
	if rest := len(f.items) - end; rest > 0 {
		lines = append(lines, dim.Render(fmt.Sprintf("  %d more below", rest)))
	}

	return dialog(th, inner, title, lines...)
}

func (f *Finder) SetSize(width, height int) {
	f.width = width
	f.height = height
	f.input.Width = max(10, width/2-8)
}
