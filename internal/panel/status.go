package panel

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yewfence/mdblog/internal/theme"
)

// Status is the status bar at the bottom.
type Status struct {
	width  int
	mode   string
	file   string
	owner  bool
	hint   string
	errMsg string
	theme  *theme.Theme
}

func NewStatus(owner bool) Status {
	return Status{
		mode:  "POSTS",
		owner: owner,
		hint:  "? help",
	}
}

// SetTheme sets the color theme for the status bar.
func (s *Status) SetTheme(th *theme.Theme) { s.theme = th }

func (s *Status) SetMode(mode string) {
	s.mode = mode
}

func (s *Status) SetFile(file string) {
	s.file = file
}

func (s *Status) SetWidth(width int) {
	s.width = width
}

func (s *Status) SetError(msg string) {
	s.errMsg = msg
}

func (s *Status) ClearError() {
	s.errMsg = ""
}

func (s Status) ErrorText() string {
	return s.errMsg
}

func (s Status) View() string {
	if s.width == 0 {
		return ""
	}

	th := s.theme
	if th == nil {
		d := theme.DefaultTheme()
		th = &d
	}

	bar := lipgloss.NewStyle().
		Background(th.StatusBg).
		Foreground(th.StatusFg).
		Padding(0, 1)

	modeStyle := lipgloss.NewStyle().
		Background(th.Accent).
		Foreground(th.Bg).
		Bold(true).
		Padding(0, 1)

	left := modeStyle.Render(s.mode)
	if s.owner {
		left += bar.Foreground(th.Accent).Render("owner")
	}

	if s.errMsg != "" {
		left += bar.Foreground(th.Error).Render(s.errMsg)
	} else if s.file != "" {
		left += bar.Render(s.file)
	}

	right := bar.Foreground(th.Subtle).Render(s.hint)

	padLen := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padLen < 0 {
		padLen = 0
	}
	padding := lipgloss.NewStyle().Background(th.StatusBg).Render(strings.Repeat(" ", padLen))

	return left + padding + right
}
