package index

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrNotIndexed is returned by GetPost for an unknown path.
var ErrNotIndexed = errors.New("post not indexed")

// SearchResult represents a single search result.
type SearchResult struct {
	PostRecord
	Rank float64
}

// HeadingResult represents a heading in a post.
type HeadingResult struct {
	Level int
	Text  string
	Line  int
}

const postColumns = "p.id, p.path, p.title, p.slug, p.author, p.status, p.date, p.summary, p.mod_time, p.size"

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner, extra ...any) (PostRecord, error) {
	var r PostRecord
	var date string
	dest := append([]any{&r.ID, &r.Path, &r.Title, &r.Slug, &r.Author, &r.Status, &date, &r.Summary, &r.ModTime, &r.Size}, extra...)
	if err := s.Scan(dest...); err != nil {
		return PostRecord{}, err
	}
	r.Date = parseDate(date)
	return r, nil
}

// Search performs a full-text search across posts. Each word of query is
// matched as a prefix; hidden posts are left out unless includeHidden.
func (db *DB) Search(query string, limit int, includeHidden bool) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 50
	}
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}

	rows, err := db.conn.Query(`
		SELECT `+postColumns+`, rank
		FROM posts_fts
		JOIN posts p ON p.id = posts_fts.rowid
		WHERE posts_fts MATCH ? AND (? OR p.status != 'hidden')
		ORDER BY rank
		LIMIT ?
	`, match, includeHidden, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []SearchResult
	for rows.Next() {
		var rank float64
		r, err := scanPost(rows, &rank)
		if err != nil {
			return nil, err
		}
		results = append(results, SearchResult{PostRecord: r, Rank: rank})
	}
	return results, rows.Err()
}

// SearchTitles matches query against post titles and paths.
func (db *DB) SearchTitles(query string, limit int, includeHidden bool) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 50
	}

	pattern := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT `+postColumns+`
		FROM posts p
		WHERE (p.path LIKE ? OR p.title LIKE ?) AND (? OR p.status != 'hidden')
		ORDER BY p.date DESC, p.path
		LIMIT ?
	`, pattern, pattern, includeHidden, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []SearchResult
	for rows.Next() {
		r, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, SearchResult{PostRecord: r})
	}
	return results, rows.Err()
}

// ListPosts returns posts newest first.
func (db *DB) ListPosts(includeHidden bool) ([]PostRecord, error) {
	rows, err := db.conn.Query(`
		SELECT `+postColumns+`
		FROM posts p
		WHERE ? OR p.status != 'hidden'
		ORDER BY p.date DESC, p.path
	`, includeHidden)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var posts []PostRecord
	for rows.Next() {
		r, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, r)
	}
	return posts, rows.Err()
}

// GetPost returns the indexed record for path.
func (db *DB) GetPost(path string) (PostRecord, error) {
	row := db.conn.QueryRow("SELECT "+postColumns+" FROM posts p WHERE p.path = ?", path)
	r, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return PostRecord{}, fmt.Errorf("%w: %s", ErrNotIndexed, path)
	}
	return r, err
}

// PostHeadings returns the headings of a post in document order.
func (db *DB) PostHeadings(path string) ([]HeadingResult, error) {
	rows, err := db.conn.Query(`
		SELECT h.level, h.text, h.line
		FROM headings h
		JOIN posts p ON p.id = h.post_id
		WHERE p.path = ?
		ORDER BY h.line
	`, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []HeadingResult
	for rows.Next() {
		var h HeadingResult
		if err := rows.Scan(&h.Level, &h.Text, &h.Line); err != nil {
			return nil, err
		}
		results = append(results, h)
	}
	return results, rows.Err()
}

// ftsQuery turns free text into an FTS5 query of quoted prefix terms, so
// user input never trips the query syntax.
func ftsQuery(input string) string {
	var terms []string
	for _, word := range strings.Fields(input) {
		word = strings.ReplaceAll(word, `"`, `""`)
		terms = append(terms, `"`+word+`"*`)
	}
	return strings.Join(terms, " ")
}
