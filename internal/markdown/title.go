package markdown

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// HeadingKind is the syntax a heading was written in.
type HeadingKind int

const (
	// ATX headings are lines prefixed with one or more '#'.
	ATX HeadingKind = iota
	// Setext headings are a text line underlined with '=' or '-'.
	Setext
)

// headingMatch locates a heading inside a slice of lines.
type headingMatch struct {
	line int // 0-based index of the heading text line
	kind HeadingKind
	span int // lines occupied: 1 for ATX, 2 for Setext
	text string
}

// lineBreaks are the characters that end a line: \n, \r, the vertical tab,
// form feed, file/group/record separators, NEL and the Unicode line and
// paragraph separators.
const lineBreaks = "\n\r\v\f\x1c\x1d\x1e\u0085\u2028\u2029"

// splitLines breaks content into lines. \r\n counts as one break, and a
// trailing break does not produce an empty final line.
func splitLines(content string) []string {
	var lines []string
	for len(content) > 0 {
		i := strings.IndexAny(content, lineBreaks)
		if i < 0 {
			lines = append(lines, content)
			break
		}
		lines = append(lines, content[:i])
		_, size := utf8.DecodeRuneInString(content[i:])
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			size = 2
		}
		content = content[i+size:]
	}
	return lines
}

// atxText returns the text of an ATX heading line, or false when the line
// is not one. Closing hashes are only removed when preceded by whitespace,
// so "Title###" keeps its hashes.
func atxText(line string) (string, bool) {
	s := strings.TrimSpace(line)
	if !strings.HasPrefix(s, "#") {
		return "", false
	}
	s = strings.TrimSpace(strings.TrimLeft(s, "#"))

	if trimmed := strings.TrimRight(s, "#"); len(trimmed) < len(s) && trimmed != "" {
		if r := lastRune(trimmed); unicode.IsSpace(r) {
			s = strings.TrimSpace(trimmed)
		}
	}

	if s == "" {
		return "", false
	}
	return s, true
}

// isUnderline reports whether line (already trimmed) is a non-empty run of
// only '=' or only '-'.
func isUnderline(line string) bool {
	if line == "" {
		return false
	}
	ch := line[0]
	if ch != '=' && ch != '-' {
		return false
	}
	return strings.Count(line, string(ch)) == len(line)
}

func lastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

// findFirstHeading scans lines top to bottom. At each index the ATX form is
// tested before the Setext form.
func findFirstHeading(lines []string) (headingMatch, bool) {
	for i, raw := range lines {
		if text, ok := atxText(raw); ok {
			return headingMatch{line: i, kind: ATX, span: 1, text: text}, true
		}

		if i+1 < len(lines) {
			title := strings.TrimSpace(raw)
			if title != "" && isUnderline(strings.TrimSpace(lines[i+1])) {
				return headingMatch{line: i, kind: Setext, span: 2, text: title}, true
			}
		}
	}
	return headingMatch{}, false
}

// ExtractTitle returns the text of the first ATX or Setext heading in
// content. The boolean is false when the document has no heading.
func ExtractTitle(content string) (string, bool) {
	m, ok := findFirstHeading(splitLines(content))
	if !ok {
		return "", false
	}
	return m.text, true
}

// StripFirstHeading returns content without the line(s) of its first
// heading. Remaining lines are joined with "\n". Content without a heading
// is returned verbatim.
func StripFirstHeading(content string) string {
	lines := splitLines(content)
	m, ok := findFirstHeading(lines)
	if !ok {
		return content
	}

	kept := make([]string, 0, len(lines)-m.span)
	kept = append(kept, lines[:m.line]...)
	kept = append(kept, lines[m.line+m.span:]...)
	return strings.Join(kept, "\n")
}

// StripTitleIfMatches removes the first heading of content when it repeats
// storedTitle, so a post shows its title once.
func StripTitleIfMatches(content, storedTitle string) string {
	title, ok := ExtractTitle(content)
	if !ok || !TitlesMatch(title, storedTitle) {
		return content
	}
	return StripFirstHeading(content)
}

// TitlesMatch compares two titles ignoring surrounding whitespace and case.
func TitlesMatch(a, b string) bool {
	return normalizeTitle(a) == normalizeTitle(b)
}

func normalizeTitle(s string) string {
	// cases.Caser keeps internal state, so one is built per call.
	return cases.Fold().String(strings.TrimSpace(s))
}
