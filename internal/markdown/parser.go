package markdown

import "strings"

// Document is a post file split into metadata and Markdown body.
type Document struct {
	Frontmatter *Frontmatter // nil when the file has none
	Body        string
}

// Parse splits a post file into frontmatter and body.
func Parse(content []byte) (*Document, error) {
	fm, body, err := ParseFrontmatter(content)
	if err != nil {
		return nil, err
	}

	return &Document{
		Frontmatter: fm,
		Body:        string(body),
	}, nil
}

// Title resolves the document title: the frontmatter title when set,
// otherwise the body's first heading, otherwise fallback.
func (d *Document) Title(fallback string) string {
	if d.Frontmatter != nil {
		if t := strings.TrimSpace(d.Frontmatter.Title); t != "" {
			return t
		}
	}
	if t, ok := ExtractTitle(d.Body); ok {
		return t
	}
	return fallback
}
