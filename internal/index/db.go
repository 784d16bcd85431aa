package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS posts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL DEFAULT '',
    slug TEXT NOT NULL DEFAULT '',
    author TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'published',
    date TEXT NOT NULL DEFAULT '',
    summary TEXT NOT NULL DEFAULT '',
    mod_time INTEGER NOT NULL,
    size INTEGER NOT NULL DEFAULT 0,
    hash TEXT NOT NULL DEFAULT '',
    renderer TEXT NOT NULL DEFAULT '',
    rendered_html TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_posts_date ON posts(date DESC, path);

CREATE VIRTUAL TABLE IF NOT EXISTS posts_fts USING fts5(
    title, body, headings,
    tokenize='porter unicode61 remove_diacritics 2'
);

CREATE TABLE IF NOT EXISTS headings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
    level INTEGER NOT NULL,
    text TEXT NOT NULL,
    line INTEGER NOT NULL
);
`

const dateLayout = "2006-01-02"

// DB wraps the SQLite database connection.
type DB struct {
	conn *sql.DB
}

// PostRecord is the indexed metadata of one post.
type PostRecord struct {
	ID      int64
	Path    string
	Title   string
	Slug    string
	Author  string
	Status  string
	Date    time.Time
	Summary string
	ModTime int64
	Size    int64
}

// Hidden reports whether the post is hidden from visitors.
func (r PostRecord) Hidden() bool {
	return r.Status == "hidden"
}

// Open opens or creates the database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return initDB(conn)
}

// OpenMemory opens an in-memory database (for testing).
func OpenMemory() (*DB, error) {
	conn, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(on)")
	if err != nil {
		return nil, err
	}
	// Every connection to :memory: is a separate database.
	conn.SetMaxOpenConns(1)
	return initDB(conn)
}

func initDB(conn *sql.DB) (*DB, error) {
	if _, err := conn.Exec(schema); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			return nil, fmt.Errorf("init schema: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// UpsertPost inserts or updates a post and returns its ID. A changed post
// loses its cached HTML.
func (db *DB) UpsertPost(r PostRecord, hash string) (int64, error) {
	_, err := db.conn.Exec(`
		INSERT INTO posts (path, title, slug, author, status, date, summary, mod_time, size, hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title = excluded.title,
			slug = excluded.slug,
			author = excluded.author,
			status = excluded.status,
			date = excluded.date,
			summary = excluded.summary,
			mod_time = excluded.mod_time,
			size = excluded.size,
			hash = excluded.hash,
			renderer = '',
			rendered_html = ''
	`, r.Path, r.Title, r.Slug, r.Author, r.Status, formatDate(r.Date), r.Summary, r.ModTime, r.Size, hash)
	if err != nil {
		return 0, err
	}

	var id int64
	if err := db.conn.QueryRow("SELECT id FROM posts WHERE path = ?", r.Path).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// SetRendered stores the HTML of a post along with the renderer that
// produced it.
func (db *DB) SetRendered(path, renderer, html string) error {
	_, err := db.conn.Exec("UPDATE posts SET renderer = ?, rendered_html = ? WHERE path = ?", renderer, html, path)
	return err
}

// GetRendered returns the cached HTML of a post. ok is false when nothing
// is cached or the cache was produced by a different renderer.
func (db *DB) GetRendered(path, renderer string) (html string, ok bool, err error) {
	var stored string
	err = db.conn.QueryRow("SELECT renderer, rendered_html FROM posts WHERE path = ?", path).Scan(&stored, &html)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if stored == "" || stored != renderer {
		return "", false, nil
	}
	return html, true, nil
}

// UpdateFTS replaces the full-text entry for a post.
func (db *DB) UpdateFTS(postID int64, title, body, headings string) error {
	if _, err := db.conn.Exec("DELETE FROM posts_fts WHERE rowid = ?", postID); err != nil {
		return err
	}
	_, err := db.conn.Exec("INSERT INTO posts_fts(rowid, title, body, headings) VALUES(?, ?, ?, ?)",
		postID, title, body, headings)
	return err
}

// InsertHeading adds a heading record.
func (db *DB) InsertHeading(postID int64, level int, text string, line int) error {
	_, err := db.conn.Exec("INSERT INTO headings (post_id, level, text, line) VALUES (?, ?, ?, ?)",
		postID, level, text, line)
	return err
}

// ClearPostHeadings removes all headings for a post.
func (db *DB) ClearPostHeadings(postID int64) error {
	_, err := db.conn.Exec("DELETE FROM headings WHERE post_id = ?", postID)
	return err
}

// GetPostHash returns the stored hash for a post path, or "" when the post
// is not indexed.
func (db *DB) GetPostHash(path string) (string, error) {
	var hash string
	err := db.conn.QueryRow("SELECT hash FROM posts WHERE path = ?", path).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return hash, err
}

// ClearHashes forces every post to be re-indexed on the next pass.
func (db *DB) ClearHashes() error {
	_, err := db.conn.Exec("UPDATE posts SET hash = ''")
	return err
}

// DeletePost removes a post and all its related data.
func (db *DB) DeletePost(path string) error {
	var id int64
	err := db.conn.QueryRow("SELECT id FROM posts WHERE path = ?", path).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := db.conn.Exec("DELETE FROM posts_fts WHERE rowid = ?", id); err != nil {
		return err
	}
	_, err = db.conn.Exec("DELETE FROM posts WHERE id = ?", id)
	return err
}

// Paths returns the paths of all indexed posts.
func (db *DB) Paths() ([]string, error) {
	rows, err := db.conn.Query("SELECT path FROM posts ORDER BY path")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func parseDate(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
