package markdown

import "testing"

func TestExtractHeadings(t *testing.T) {
	input := `
# Heading 1

Some text.

Heading 2
---------

` + "```" + `
# not a heading
` + "```" + `

### Heading 3 ###
`
	headings := ExtractHeadings([]byte(input))

	if len(headings) != 3 {
		t.Fatalf("got %d headings, want 3: %+v", len(headings), headings)
	}

	tests := []struct {
		level int
		kind  HeadingKind
		text  string
		line  int
	}{
		{1, ATX, "Heading 1", 2},
		{2, Setext, "Heading 2", 6},
		{3, ATX, "Heading 3", 13},
	}

	for i, tt := range tests {
		if headings[i].Level != tt.level {
			t.Errorf("[%d] level: got %d, want %d", i, headings[i].Level, tt.level)
		}
		if headings[i].Kind != tt.kind {
			t.Errorf("[%d] kind: got %d, want %d", i, headings[i].Kind, tt.kind)
		}
		if headings[i].Text != tt.text {
			t.Errorf("[%d] text: got %q, want %q", i, headings[i].Text, tt.text)
		}
		if headings[i].Line != tt.line {
			t.Errorf("[%d] line: got %d, want %d", i, headings[i].Line, tt.line)
		}
	}
}

func TestExtractHeadings_BodyOpeningWithRule(t *testing.T) {
	// What looks like frontmatter inside a body is content: a thematic break,
	// a line, and a Setext underline.
	body := "---\nkey: value\n---\n\n# Real Heading\n"

	headings := ExtractHeadings([]byte(body))

	var texts []string
	for _, h := range headings {
		texts = append(texts, h.Text)
	}
	found := false
	for _, text := range texts {
		if text == "Real Heading" {
			found = true
		}
	}
	if !found {
		t.Errorf("headings = %q, want Real Heading included", texts)
	}
}

func TestOutline(t *testing.T) {
	got := Outline([]Heading{
		{Level: 1, Text: "Intro"},
		{Level: 2, Text: "Setup"},
		{Level: 3, Text: "Details"},
	})
	want := []string{"Intro", "  Setup", "    Details"}

	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] got %q, want %q", i, got[i], want[i])
		}
	}
}
