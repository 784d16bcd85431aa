package post

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yewfence/mdblog/internal/markdown"
)

var (
	ErrNotFound    = errors.New("post not found")
	ErrInvalidPath = errors.New("invalid post path")
)

// Defaults fill in fields a new post leaves blank.
type Defaults struct {
	Author string
	Title  string // used when neither the draft nor its body has a title
	Body   string // used when the draft has no body at all
}

// Store reads and writes posts under a directory.
type Store struct {
	Root     string
	defaults Defaults
	now      func() time.Time
}

func NewStore(root string, defaults Defaults) *Store {
	return &Store{
		Root:     root,
		defaults: defaults,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Draft is the input for a new post. A nil Body means no content was given.
type Draft struct {
	Title   string
	Author  string
	Date    string
	Summary string
	Status  string
	Note    string
	Body    *string
}

// Edit changes an existing post. Blank Title and Author, an invalid Date
// or Status, and nil pointers leave the field as it is.
type Edit struct {
	Title   string
	Author  string
	Date    string
	Status  string
	Summary *string
	Note    *string
	Body    *string
}

// List returns every post, newest first. Files that fail to parse are
// skipped.
func (s *Store) List() ([]Post, error) {
	var posts []Post

	err := filepath.WalkDir(s.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip errors
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != s.Root {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}

		rel, err := filepath.Rel(s.Root, path)
		if err != nil {
			return nil
		}
		p, err := s.Load(rel)
		if err != nil {
			return nil
		}
		posts = append(posts, *p)
		return nil
	})

	SortNewest(posts)
	return posts, err
}

// SortNewest orders posts by date descending, then by path.
func SortNewest(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Date.After(posts[j].Date)
		}
		return posts[i].Path < posts[j].Path
	})
}

// Load reads one post.
func (s *Store) Load(relPath string) (*Post, error) {
	absPath, err := s.abs(relPath)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, relPath)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", relPath, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", relPath, err)
	}

	return s.Decode(filepath.ToSlash(filepath.Clean(relPath)), content, info.ModTime())
}

// Decode builds a post from file content. Missing metadata falls back to
// the store defaults; a missing title is taken from the body's first
// heading.
func (s *Store) Decode(relPath string, content []byte, modTime time.Time) (*Post, error) {
	doc, err := markdown.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", relPath, err)
	}

	p := &Post{
		Path:    relPath,
		Title:   doc.Title(s.defaults.Title),
		Author:  s.defaults.Author,
		Date:    modTime.UTC().Truncate(24 * time.Hour),
		Status:  StatusPublished,
		Body:    doc.Body,
		ModTime: modTime,
	}

	if fm := doc.Frontmatter; fm != nil {
		if a := strings.TrimSpace(fm.Author); a != "" {
			p.Author = a
		}
		if d, ok := parseDate(fm.Date); ok {
			p.Date = d
		}
		if st, ok := ParseStatus(fm.Status); ok {
			p.Status = st
		}
		p.Summary = fm.Summary
		p.Note = fm.Note
		p.Tags = fm.Tags
	}

	return p, nil
}

// Create writes a new post. A blank title is inferred from the body's first
// heading, falling back to the default title.
func (s *Store) Create(d Draft) (*Post, error) {
	body := s.defaults.Body
	if d.Body != nil {
		body = *d.Body
	}

	title := strings.TrimSpace(d.Title)
	if title == "" {
		if t, ok := markdown.ExtractTitle(body); ok {
			title = t
		} else {
			title = s.defaults.Title
		}
	}

	p := &Post{
		Title:   title,
		Author:  strings.TrimSpace(d.Author),
		Summary: d.Summary,
		Status:  StatusHidden,
		Note:    d.Note,
		Body:    body,
	}
	if p.Author == "" {
		p.Author = s.defaults.Author
	}
	if date, ok := parseDate(d.Date); ok {
		p.Date = date
	} else {
		p.Date = s.now()
	}
	if st, ok := ParseStatus(d.Status); ok {
		p.Status = st
	}

	if err := os.MkdirAll(s.Root, 0755); err != nil {
		return nil, fmt.Errorf("create posts directory: %w", err)
	}
	rel, err := s.reserve(SafeFilename(title))
	if err != nil {
		return nil, err
	}
	p.Path = rel

	if err := s.Save(p); err != nil {
		if rmErr := os.Remove(filepath.Join(s.Root, rel)); rmErr != nil {
			return nil, fmt.Errorf("%w (remove %s: %v)", err, rel, rmErr)
		}
		return nil, err
	}
	return p, nil
}

// Update applies an edit to an existing post and saves it.
func (s *Store) Update(relPath string, e Edit) (*Post, error) {
	p, err := s.Load(relPath)
	if err != nil {
		return nil, err
	}

	if t := strings.TrimSpace(e.Title); t != "" {
		p.Title = t
	}
	if a := strings.TrimSpace(e.Author); a != "" {
		p.Author = a
	}
	if d, ok := parseDate(e.Date); ok {
		p.Date = d
	}
	if st, ok := ParseStatus(e.Status); ok {
		p.Status = st
	}
	if e.Summary != nil {
		p.Summary = *e.Summary
	}
	if e.Note != nil {
		p.Note = *e.Note
	}
	if e.Body != nil {
		p.Body = *e.Body
	}

	if err := s.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Save writes a post to its path. The file is replaced through a temporary
// file in the same directory, so readers never see a partial post.
func (s *Store) Save(p *Post) error {
	absPath, err := s.abs(p.Path)
	if err != nil {
		return err
	}

	data, err := p.Encode()
	if err != nil {
		return err
	}
	dir := filepath.Dir(absPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	// The leading dot keeps the temporary file out of listing and indexing.
	tmp, err := os.CreateTemp(dir, ".post-*.tmp")
	if err != nil {
		return fmt.Errorf("write post: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write post: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("write post: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write post: %w", err)
	}
	if err := os.Rename(tmp.Name(), absPath); err != nil {
		return fmt.Errorf("write post: %w", err)
	}
	return nil
}

// Delete removes a post file.
func (s *Store) Delete(relPath string) error {
	absPath, err := s.abs(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(absPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, relPath)
		}
		return err
	}
	return nil
}

// AbsPath returns the file path of a post.
func (s *Store) AbsPath(relPath string) (string, error) {
	return s.abs(relPath)
}

func (s *Store) abs(relPath string) (string, error) {
	if !filepath.IsLocal(relPath) || !strings.HasSuffix(relPath, ".md") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, relPath)
	}
	return filepath.Join(s.Root, relPath), nil
}

// reserve claims base.md, or base-2.md, base-3.md... when taken, by
// creating the file exclusively. The caller fills it in.
func (s *Store) reserve(base string) (string, error) {
	for n := 1; n < 1000; n++ {
		name := base + ".md"
		if n > 1 {
			name = base + "-" + strconv.Itoa(n) + ".md"
		}
		f, err := os.OpenFile(filepath.Join(s.Root, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("create %s: %w", name, err)
		}
		return name, nil
	}
	return "", fmt.Errorf("no free file name for %q", base)
}
