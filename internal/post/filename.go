package post

import (
	"strings"
	"unicode/utf8"
)

const maxFilenameRunes = 120

// SafeFilename turns a post title into a file name base that is valid on
// Windows as well as Unix and never starts with a dot.
func SafeFilename(title string) string {
	base := strings.TrimSpace(title)
	if base == "" {
		base = "post"
	}

	base = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`\/:*?"<>|`, r) {
			return '_'
		}
		return r
	}, base)

	// Windows rejects names ending in a dot or space, and a leading dot
	// would hide the post from listing and indexing.
	base = strings.Trim(base, " .")
	if base == "" {
		base = "post"
	}

	if utf8.RuneCountInString(base) > maxFilenameRunes {
		base = string([]rune(base)[:maxFilenameRunes])
	}
	return base
}

// Slugify converts a title to a URL-friendly slug.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = strings.ReplaceAll(s, " ", "-")

	var buf strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			buf.WriteRune(r)
		}
	}

	result := buf.String()
	for strings.Contains(result, "--") {
		result = strings.ReplaceAll(result, "--", "-")
	}
	return strings.Trim(result, "-")
}
