package index

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/yewfence/mdblog/internal/markdown"
	"github.com/yewfence/mdblog/internal/post"
)

// countingRenderer records how often it renders.
type countingRenderer struct {
	markdown.PlainRenderer
	calls int
}

func (r *countingRenderer) Render(source string) (string, error) {
	r.calls++
	return r.PlainRenderer.Render(source)
}

func newTestIndexer(t *testing.T, r markdown.Renderer) (*Indexer, string) {
	t.Helper()
	root := t.TempDir()
	store := post.NewStore(root, post.Defaults{Author: "YewFence", Title: "Untitled", Body: "Content coming soon..."})
	return NewIndexer(openTestDB(t), store, r, log.New(io.Discard)), root
}

func writePost(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIndexFile_InfersTitleAndCaches(t *testing.T) {
	r := &countingRenderer{}
	idx, root := newTestIndexer(t, r)
	path := writePost(t, root, "hello.md", "# Hello World\n\nSome <b>text</b>.\n\n## Part\n")

	if err := idx.IndexFile(path); err != nil {
		t.Fatal(err)
	}

	p, err := idx.DB().GetPost("hello.md")
	if err != nil {
		t.Fatal(err)
	}
	if p.Title != "Hello World" {
		t.Errorf("title: got %q", p.Title)
	}
	if p.Slug != "hello-world" {
		t.Errorf("slug: got %q", p.Slug)
	}
	if p.Status != "published" {
		t.Errorf("status: got %q", p.Status)
	}

	html, err := idx.Rendered("hello.md")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(html, "# Hello World") {
		t.Errorf("title heading not stripped: %q", html)
	}
	if !strings.Contains(html, "&lt;b&gt;") {
		t.Errorf("plain renderer should escape tags: %q", html)
	}
	if r.calls != 1 {
		t.Errorf("render calls: got %d, want 1 (cached)", r.calls)
	}

	headings, _ := idx.DB().PostHeadings("hello.md")
	if len(headings) != 2 {
		t.Errorf("headings: got %+v", headings)
	}
}

func TestIndexFile_SkipsUnchanged(t *testing.T) {
	r := &countingRenderer{}
	idx, root := newTestIndexer(t, r)
	path := writePost(t, root, "a.md", "# A\nbody\n")

	idx.IndexFile(path)
	idx.IndexFile(path)
	if r.calls != 1 {
		t.Errorf("unchanged file re-rendered: %d calls", r.calls)
	}

	writePost(t, root, "a.md", "# A\nnew body\n")
	idx.IndexFile(path)
	if r.calls != 2 {
		t.Errorf("changed file not re-rendered: %d calls", r.calls)
	}
}

func TestIndexFile_FrontmatterTitleWins(t *testing.T) {
	idx, root := newTestIndexer(t, markdown.PlainRenderer{})
	path := writePost(t, root, "fm.md", "---\ntitle: Stored\nstatus: hidden\ndate: 2023-02-03\n---\n# Stored\nbody\n")

	if err := idx.IndexFile(path); err != nil {
		t.Fatal(err)
	}
	p, _ := idx.DB().GetPost("fm.md")
	if p.Title != "Stored" || !p.Hidden() {
		t.Errorf("got %+v", p)
	}
	if got := p.Date.Format(dateLayout); got != "2023-02-03" {
		t.Errorf("date: got %q", got)
	}

	html, _ := idx.Rendered("fm.md")
	if html != "<pre>body</pre>" {
		t.Errorf("rendered: got %q", html)
	}
}

func TestIndexAll_PrunesMissing(t *testing.T) {
	idx, root := newTestIndexer(t, markdown.PlainRenderer{})
	writePost(t, root, "keep.md", "# Keep\n")
	gone := writePost(t, root, "nested/gone.md", "# Gone\n")
	writePost(t, root, ".drafts/skip.md", "# Skip\n")

	if err := idx.IndexAll(); err != nil {
		t.Fatal(err)
	}
	paths, _ := idx.DB().Paths()
	if strings.Join(paths, ",") != "keep.md,nested/gone.md" {
		t.Fatalf("paths: got %v", paths)
	}

	os.Remove(gone)
	if err := idx.IndexAll(); err != nil {
		t.Fatal(err)
	}
	paths, _ = idx.DB().Paths()
	if strings.Join(paths, ",") != "keep.md" {
		t.Errorf("paths after removal: got %v", paths)
	}
}

func TestRendered_RendererSwitch(t *testing.T) {
	idx, root := newTestIndexer(t, markdown.PlainRenderer{})
	path := writePost(t, root, "a.md", "# A\n*em*\n")
	idx.IndexFile(path)

	idx.renderer = markdown.NewGoldmarkRenderer()
	html, err := idx.Rendered("a.md")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html, "<em>em</em>") {
		t.Errorf("expected goldmark output, got %q", html)
	}
}

func TestRemoveFile(t *testing.T) {
	idx, root := newTestIndexer(t, markdown.PlainRenderer{})
	path := writePost(t, root, "a.md", "# A\n")
	idx.IndexFile(path)

	if err := idx.RemoveFile(path); err != nil {
		t.Fatal(err)
	}
	if _, err := idx.DB().GetPost("a.md"); err == nil {
		t.Error("post still indexed")
	}
	if err := idx.RemoveFile("/elsewhere/a.md"); err == nil {
		t.Error("expected error for path outside root")
	}
}
