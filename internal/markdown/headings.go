package markdown

import (
	"strings"
)

// Heading represents a markdown heading.
type Heading struct {
	Level int
	Kind  HeadingKind
	Text  string
	Line  int // 1-based line number
}

// ExtractHeadings lists the ATX and Setext headings of a post body, in
// order. Fenced code blocks are skipped. The body must already be free of
// frontmatter; Line is relative to the body.
func ExtractHeadings(body []byte) []Heading {
	var headings []Heading
	lines := splitLines(string(body))

	fence := ""
	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])

		if fence != "" {
			if strings.HasPrefix(trimmed, fence) {
				fence = ""
			}
			continue
		}
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			fence = trimmed[:3]
			continue
		}

		if text, ok := atxText(lines[i]); ok {
			headings = append(headings, Heading{
				Level: atxLevel(trimmed),
				Kind:  ATX,
				Text:  text,
				Line:  i + 1,
			})
			continue
		}

		if trimmed != "" && i+1 < len(lines) {
			underline := strings.TrimSpace(lines[i+1])
			if isUnderline(underline) {
				level := 1
				if underline[0] == '-' {
					level = 2
				}
				headings = append(headings, Heading{
					Level: level,
					Kind:  Setext,
					Text:  trimmed,
					Line:  i + 1,
				})
				i++ // underline consumed
			}
		}
	}

	return headings
}

// atxLevel counts the leading '#' run, capped at 6.
func atxLevel(trimmed string) int {
	level := len(trimmed) - len(strings.TrimLeft(trimmed, "#"))
	if level > 6 {
		level = 6
	}
	return level
}

// Outline renders headings as an indented plain-text outline.
func Outline(headings []Heading) []string {
	out := make([]string, len(headings))
	for i, h := range headings {
		out[i] = strings.Repeat("  ", h.Level-1) + h.Text
	}
	return out
}
