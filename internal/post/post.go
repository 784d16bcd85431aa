package post

import (
	"strings"
	"time"

	"github.com/yewfence/mdblog/internal/markdown"
)

// Status controls who can see a post.
type Status string

const (
	StatusPublished Status = "published"
	StatusHidden    Status = "hidden"
)

// ParseStatus accepts a status in any case and surrounding whitespace.
func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPublished:
		return StatusPublished, true
	case StatusHidden:
		return StatusHidden, true
	}
	return "", false
}

// DateLayout is the frontmatter date format.
const DateLayout = "2006-01-02"

// Post is a blog post stored as a Markdown file.
type Post struct {
	Path    string // relative to the posts directory
	Title   string
	Author  string
	Date    time.Time
	Summary string
	Status  Status
	Note    string
	Tags    []string
	Body    string
	ModTime time.Time
}

// Hidden reports whether the post is hidden from visitors.
func (p *Post) Hidden() bool {
	return p.Status == StatusHidden
}

// DisplayBody is the body as shown under the post's title header.
func (p *Post) DisplayBody() string {
	return markdown.StripTitleIfMatches(p.Body, p.Title)
}

func (p *Post) frontmatter() *markdown.Frontmatter {
	return &markdown.Frontmatter{
		Title:   p.Title,
		Author:  p.Author,
		Date:    p.Date.Format(DateLayout),
		Summary: p.Summary,
		Status:  string(p.Status),
		Note:    p.Note,
		Tags:    p.Tags,
	}
}

// Encode renders the post file: frontmatter followed by the body.
func (p *Post) Encode() ([]byte, error) {
	fm, err := p.frontmatter().Encode()
	if err != nil {
		return nil, err
	}
	return append(fm, p.Body...), nil
}

// Visible filters posts for a reader. Owners see everything; visitors do not
// see hidden posts.
func Visible(posts []Post, owner bool) []Post {
	if owner {
		return posts
	}
	var out []Post
	for _, p := range posts {
		if !p.Hidden() {
			out = append(out, p)
		}
	}
	return out
}

// parseDate reads a YYYY-MM-DD date; ok is false for blank or invalid input.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
