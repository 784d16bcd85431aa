package index

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/log"

	"github.com/yewfence/mdblog/internal/markdown"
	"github.com/yewfence/mdblog/internal/post"
)

// Indexer keeps the index and the rendered HTML cache in step with the
// posts directory.
type Indexer struct {
	db       *DB
	store    *post.Store
	renderer markdown.Renderer
	logger   *log.Logger
}

func NewIndexer(db *DB, store *post.Store, renderer markdown.Renderer, logger *log.Logger) *Indexer {
	return &Indexer{
		db:       db,
		store:    store,
		renderer: renderer,
		logger:   logger.WithPrefix("index"),
	}
}

// DB returns the underlying index.
func (idx *Indexer) DB() *DB {
	return idx.db
}

// IndexAll indexes every post under the posts directory and drops index
// entries whose files are gone. Unchanged files are skipped.
func (idx *Indexer) IndexAll() error {
	root := idx.store.Root
	seen := map[string]bool{}

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}

		rel, err := idx.relPath(path)
		if err != nil {
			return nil
		}
		seen[rel] = true
		if err := idx.IndexFile(path); err != nil {
			idx.logger.Warn("skipping post", "path", rel, "err", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", root, err)
	}

	paths, err := idx.db.Paths()
	if err != nil {
		return fmt.Errorf("list indexed posts: %w", err)
	}
	for _, p := range paths {
		if seen[p] {
			continue
		}
		if err := idx.db.DeletePost(p); err != nil {
			return fmt.Errorf("drop %s: %w", p, err)
		}
		idx.logger.Debug("dropped missing post", "path", p)
	}

	idx.logger.Info("indexed posts", "count", len(seen))
	return nil
}

// Rebuild re-indexes and re-renders every post.
func (idx *Indexer) Rebuild() error {
	if err := idx.db.ClearHashes(); err != nil {
		return fmt.Errorf("clear hashes: %w", err)
	}
	return idx.IndexAll()
}

// IndexFile indexes a single post file and refreshes its rendered HTML.
func (idx *Indexer) IndexFile(absPath string) error {
	content, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", absPath, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("stat %s: %w", absPath, err)
	}

	relPath, err := idx.relPath(absPath)
	if err != nil {
		return err
	}

	hash := fmt.Sprintf("%016x", xxhash.Sum64(content))
	existingHash, err := idx.db.GetPostHash(relPath)
	if err != nil {
		return fmt.Errorf("read hash: %w", err)
	}
	if hash == existingHash {
		return nil
	}

	p, err := idx.store.Decode(relPath, content, info.ModTime())
	if err != nil {
		return err
	}

	postID, err := idx.db.UpsertPost(PostRecord{
		Path:    relPath,
		Title:   p.Title,
		Slug:    post.Slugify(p.Title),
		Author:  p.Author,
		Status:  string(p.Status),
		Date:    p.Date,
		Summary: p.Summary,
		ModTime: info.ModTime().Unix(),
		Size:    info.Size(),
	}, hash)
	if err != nil {
		return fmt.Errorf("upsert post: %w", err)
	}

	headings := markdown.ExtractHeadings([]byte(p.Body))
	headingTexts := make([]string, len(headings))
	for i, h := range headings {
		headingTexts[i] = h.Text
	}

	if err := idx.db.UpdateFTS(postID, p.Title, p.Body, strings.Join(headingTexts, " ")); err != nil {
		return fmt.Errorf("update FTS: %w", err)
	}

	if err := idx.db.ClearPostHeadings(postID); err != nil {
		return fmt.Errorf("clear post headings: %w", err)
	}
	for _, h := range headings {
		if err := idx.db.InsertHeading(postID, h.Level, h.Text, h.Line); err != nil {
			return fmt.Errorf("insert heading %q: %w", h.Text, err)
		}
	}

	if _, err := idx.render(p); err != nil {
		return err
	}

	idx.logger.Debug("indexed post", "path", relPath, "title", p.Title)
	return nil
}

// RemoveFile removes a file from the index.
func (idx *Indexer) RemoveFile(absPath string) error {
	relPath, err := idx.relPath(absPath)
	if err != nil {
		return err
	}
	return idx.db.DeletePost(relPath)
}

// Rendered returns the HTML of a post, rendering and caching it when the
// cache is empty or was built by another renderer.
func (idx *Indexer) Rendered(relPath string) (string, error) {
	html, ok, err := idx.db.GetRendered(relPath, idx.renderer.Name())
	if err != nil {
		return "", fmt.Errorf("read cache: %w", err)
	}
	if ok {
		return html, nil
	}

	p, err := idx.store.Load(relPath)
	if err != nil {
		return "", err
	}
	return idx.render(p)
}

func (idx *Indexer) render(p *post.Post) (string, error) {
	html, err := markdown.RenderPost(idx.renderer, p.Body, p.Title)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", p.Path, err)
	}
	if err := idx.db.SetRendered(p.Path, idx.renderer.Name(), html); err != nil {
		return "", fmt.Errorf("cache %s: %w", p.Path, err)
	}
	return html, nil
}

var errOutsideRoot = errors.New("path outside posts directory")

func (idx *Indexer) relPath(absPath string) (string, error) {
	rel, err := filepath.Rel(idx.store.Root, absPath)
	if err != nil || !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: %s", errOutsideRoot, absPath)
	}
	return filepath.ToSlash(rel), nil
}
