package theme

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// WithOverrides applies colors from the config file onto base. Keys are
// field names in snake case ("accent", "status_bg"); values are hex colors
// or ANSI 256 indexes. Unknown keys and malformed values are ignored.
func WithOverrides(colors map[string]string, base Theme) Theme {
	t := base

	fields := map[string]*lipgloss.Color{
		"bg":        &t.Bg,
		"accent":    &t.Accent,
		"subtle":    &t.Subtle,
		"text":      &t.Text,
		"dim":       &t.Dim,
		"border":    &t.Border,
		"status_bg": &t.StatusBg,
		"status_fg": &t.StatusFg,
		"error":     &t.Error,
	}

	for key, value := range colors {
		field, ok := fields[strings.ToLower(strings.TrimSpace(key))]
		if !ok {
			continue
		}
		if c := strings.TrimSpace(value); isColor(c) {
			*field = lipgloss.Color(c)
		}
	}

	return t
}

// isColor accepts #rgb, #rrggbb and ANSI 256 indexes (0-255).
func isColor(c string) bool {
	if hexColor.MatchString(c) {
		return true
	}
	if c == "" || len(c) > 3 {
		return false
	}
	n := 0
	for _, r := range c {
		if r < '0' || r > '9' {
			return false
		}
		n = n*10 + int(r-'0')
	}
	return n <= 255
}
