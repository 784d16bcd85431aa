package post

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hello World", "Hello World"},
		{"a/b:c", "a_b_c"},
		{`what? "quoted" <tag> | pipe*`, `what_ _quoted_ _tag_ _ pipe_`},
		{"  padded  ", "padded"},
		{"ends with dots...", "ends with dots"},
		{"...", "post"},
		{".NET tips", "NET tips"},
		{". hidden", "hidden"},
		{"..", "post"},
		{"", "post"},
		{"中文标题", "中文标题"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SafeFilename(tt.input); got != tt.want {
				t.Errorf("SafeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSafeFilename_Truncates(t *testing.T) {
	got := SafeFilename(strings.Repeat("é", 200))
	if n := utf8.RuneCountInString(got); n != 120 {
		t.Errorf("got %d runes, want 120", n)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"My Post! (Draft)", "my-post-draft"},
		{"2024-01-01 Daily", "2024-01-01-daily"},
		{"", ""},
		{"Already-Slugged", "already-slugged"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Slugify(tt.input)
			if got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
