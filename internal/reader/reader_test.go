package reader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/yewfence/mdblog/internal/index"
	"github.com/yewfence/mdblog/internal/markdown"
	"github.com/yewfence/mdblog/internal/panel"
	"github.com/yewfence/mdblog/internal/post"
	"github.com/yewfence/mdblog/internal/session"
	"github.com/yewfence/mdblog/internal/theme"
)

var testPosts = map[string]string{
	"hello.md":  "---\ntitle: Hello World\ndate: 2024-03-01\nstatus: published\n---\n# Hello World\n\nFirst paragraph.\n\n## Details\n\nMore text.\n",
	"older.md":  "---\ntitle: Older Post\ndate: 2023-01-01\nstatus: published\nsummary: from last year\n---\nNo heading here.\n",
	"secret.md": "---\ntitle: Secret Draft\ndate: 2024-06-01\nstatus: hidden\n---\n# Secret Draft\n\nNot yet.\n",
}

type fixture struct {
	store   *post.Store
	indexer *index.Indexer
	state   string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	root := t.TempDir()
	for name, content := range testPosts {
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	db, err := index.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	logger := log.New(io.Discard)
	store := post.NewStore(root, post.Defaults{Author: "YewFence", Title: "Untitled", Body: "Content coming soon..."})
	idx := index.NewIndexer(db, store, markdown.PlainRenderer{}, logger)
	if err := idx.IndexAll(); err != nil {
		t.Fatal(err)
	}

	return fixture{store: store, indexer: idx, state: filepath.Join(t.TempDir(), "state")}
}

func (f fixture) reader(t *testing.T, owner bool) *Model {
	t.Helper()
	m := New(f.indexer, f.store, Options{
		Owner:   owner,
		Author:  "YewFence",
		About:   "Notes on Go and gardening.",
		Editor:  "true",
		Theme:   theme.DefaultTheme(),
		Session: session.NewStore(f.state),
		Logger:  log.New(io.Discard),
	})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m.Update(m.Init()())
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and feeds a resulting message back into the model.
func press(m *Model, s string) tea.Cmd {
	_, cmd := m.Update(key(s))
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case panel.PostSelectedMsg, postsLoadedMsg:
		m.Update(msg)
		return nil
	}
	return cmd
}

func TestReader_VisitorList(t *testing.T) {
	m := newFixture(t).reader(t, false)

	if got := m.list.Len(); got != 2 {
		t.Fatalf("visitor sees %d posts, want 2", got)
	}
	if got := m.list.Selected(); got != "hello.md" {
		t.Errorf("first post %q, want hello.md (newest published)", got)
	}
	if view := m.View(); strings.Contains(view, "Secret Draft") {
		t.Error("hidden post shown to visitor")
	}
}

func TestReader_OwnerListIncludesHidden(t *testing.T) {
	m := newFixture(t).reader(t, true)

	if got := m.list.Len(); got != 3 {
		t.Fatalf("owner sees %d posts, want 3", got)
	}
	if got := m.list.Selected(); got != "secret.md" {
		t.Errorf("first post %q, want secret.md", got)
	}
	if view := m.View(); !strings.Contains(view, "[hidden]") {
		t.Error("hidden badge missing from owner list")
	}
}

func TestReader_OpenPostShowsTitleOnce(t *testing.T) {
	m := newFixture(t).reader(t, false)

	press(m, "enter")
	if m.view != viewPost {
		t.Fatalf("view = %v, want post", m.view)
	}
	if m.current == nil || m.current.Title != "Hello World" {
		t.Fatalf("current post: %+v", m.current)
	}

	view := m.View()
	if n := strings.Count(view, "Hello World"); n != 1 {
		t.Errorf("title appears %d times in post view, want 1", n)
	}
	if !strings.Contains(view, "First paragraph.") {
		t.Error("body missing from post view")
	}
	if !strings.Contains(view, "by YewFence") {
		t.Error("author line missing")
	}

	outline := m.outline.Lines()
	if len(outline) != 1 || strings.TrimSpace(outline[0]) != "Details" {
		t.Errorf("outline = %q, want only Details", outline)
	}

	press(m, "esc")
	if m.view != viewList {
		t.Errorf("view = %v after esc, want list", m.view)
	}
}

func TestReader_PostWithoutHeading(t *testing.T) {
	m := newFixture(t).reader(t, false)

	press(m, "j")
	press(m, "enter")
	if m.current == nil || m.current.Path != "older.md" {
		t.Fatalf("current post: %+v", m.current)
	}
	view := m.View()
	if !strings.Contains(view, "Older Post") || !strings.Contains(view, "No heading here.") {
		t.Errorf("post view missing title or body:\n%s", view)
	}
}

func TestReader_VisitorCannotOpenHidden(t *testing.T) {
	m := newFixture(t).reader(t, false)

	m.Update(panel.PostSelectedMsg{Path: "secret.md"})
	if m.view != viewList {
		t.Errorf("view = %v, want list", m.view)
	}
	if m.status.ErrorText() == "" {
		t.Error("expected a status error")
	}
}

func TestReader_VisitorCannotEdit(t *testing.T) {
	m := newFixture(t).reader(t, false)

	for _, k := range []string{"e", "n", "p"} {
		if cmd := press(m, k); cmd != nil {
			t.Errorf("key %q returned a command for a visitor", k)
		}
	}
	if m.prompt.Visible() {
		t.Error("new-post prompt opened for a visitor")
	}
}

func TestReader_VisitorCannotOpenUnindexed(t *testing.T) {
	f := newFixture(t)
	m := f.reader(t, false)

	// On disk but not yet indexed: visitors only see what the index lists.
	if err := os.WriteFile(filepath.Join(f.store.Root, "fresh.md"), []byte("# Fresh\n"), 0644); err != nil {
		t.Fatal(err)
	}
	m.Update(panel.PostSelectedMsg{Path: "fresh.md"})
	if m.view != viewList {
		t.Errorf("view = %v, want list", m.view)
	}
	if !strings.Contains(m.status.ErrorText(), "not found") {
		t.Errorf("status error = %q, want not found", m.status.ErrorText())
	}
}

func TestReader_BlankEditorDoesNotPanic(t *testing.T) {
	f := newFixture(t)
	for _, editor := range []string{"", "   ", "\t\n"} {
		m := New(f.indexer, f.store, Options{Owner: true, Editor: editor, Theme: theme.DefaultTheme(), Logger: log.New(io.Discard)})
		if cmd := m.editPost("hello.md"); cmd != nil {
			t.Errorf("editor %q: expected no command", editor)
		}
		if !strings.Contains(m.status.ErrorText(), "no editor configured") {
			t.Errorf("editor %q: status error = %q", editor, m.status.ErrorText())
		}
	}
}

func TestReader_OwnerEditReturnsExecCommand(t *testing.T) {
	m := newFixture(t).reader(t, true)

	_, cmd := m.Update(key("e"))
	if cmd == nil {
		t.Fatal("expected an editor command for the owner")
	}
}

func TestReader_ToggleStatus(t *testing.T) {
	f := newFixture(t)
	m := f.reader(t, true)

	// secret.md is selected first in the owner list.
	_, cmd := m.Update(key("p"))
	if cmd == nil {
		t.Fatal("expected a command after toggling status")
	}

	p, err := f.store.Load("secret.md")
	if err != nil {
		t.Fatal(err)
	}
	if p.Hidden() {
		t.Error("post still hidden after toggle")
	}

	rec, err := f.indexer.DB().GetPost("secret.md")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Hidden() {
		t.Error("index not updated after toggle")
	}
}

func TestReader_CreatePost(t *testing.T) {
	f := newFixture(t)
	m := New(f.indexer, f.store, Options{Owner: true, Theme: theme.DefaultTheme(), Logger: log.New(io.Discard)})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	press(m, "n")
	if !m.prompt.Visible() {
		t.Fatal("prompt not shown")
	}

	m.Update(panel.PromptResultMsg{Value: "Brand New"})
	if m.current == nil || m.current.Title != "Brand New" {
		t.Fatalf("current post: %+v", m.current)
	}
	if !m.current.Hidden() {
		t.Error("new posts should start hidden")
	}
	if _, err := f.indexer.DB().GetPost(m.current.Path); err != nil {
		t.Errorf("new post not indexed: %v", err)
	}
}

func TestReader_CheckNewTitle(t *testing.T) {
	m := newFixture(t).reader(t, true)

	if err := m.checkNewTitle("hello world"); err != errDuplicateTitle {
		t.Errorf("checkNewTitle(existing) = %v, want errDuplicateTitle", err)
	}
	if err := m.checkNewTitle("Hello"); err != nil {
		t.Errorf("checkNewTitle(prefix) = %v, want nil", err)
	}
	if err := m.checkNewTitle("Secret Draft"); err != errDuplicateTitle {
		t.Error("hidden posts count as taken titles")
	}
}

func TestReader_CheckNewTitle_UnicodeAndManyMatches(t *testing.T) {
	f := newFixture(t)
	write := func(name, title, date string) {
		t.Helper()
		content := "---\ntitle: " + title + "\ndate: " + date + "\nstatus: published\n---\nBody.\n"
		if err := os.WriteFile(filepath.Join(f.store.Root, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("ete.md", "Été", "2020-01-01")
	write("go.md", "Go", "2019-01-01")
	for i := 0; i < 25; i++ {
		write(fmt.Sprintf("going-%02d.md", i), fmt.Sprintf("Going %d", i), "2025-01-01")
	}
	if err := f.indexer.IndexAll(); err != nil {
		t.Fatal(err)
	}
	m := f.reader(t, true)

	if err := m.checkNewTitle("été"); err != errDuplicateTitle {
		t.Errorf("checkNewTitle(été) = %v, want errDuplicateTitle", err)
	}
	if err := m.checkNewTitle("go"); err != errDuplicateTitle {
		t.Errorf("checkNewTitle(go) = %v, want errDuplicateTitle", err)
	}
	if err := m.checkNewTitle("Going"); err != nil {
		t.Errorf("checkNewTitle(Going) = %v, want nil", err)
	}
}

func TestReader_AboutAndHelp(t *testing.T) {
	m := newFixture(t).reader(t, false)

	press(m, "a")
	if m.view != viewAbout {
		t.Fatalf("view = %v, want about", m.view)
	}
	if !strings.Contains(m.View(), "Notes on Go and gardening.") {
		t.Error("about text missing")
	}

	press(m, "?")
	if !m.help.Visible() {
		t.Fatal("help not shown")
	}
	press(m, "x")
	if m.help.Visible() {
		t.Error("help should close on any key")
	}
	if m.view != viewAbout {
		t.Error("dismissing help should not change view")
	}

	press(m, "esc")
	if m.view != viewList {
		t.Errorf("view = %v after esc, want list", m.view)
	}
}

func TestReader_HelpHidesOwnerKeys(t *testing.T) {
	tests := []struct {
		owner bool
		want  bool
	}{
		{false, false},
		{true, true},
	}
	for _, tt := range tests {
		var found bool
		for _, e := range helpEntries(listBindings, tt.owner) {
			if e.Key == "e" {
				found = true
			}
		}
		if found != tt.want {
			t.Errorf("owner=%v: edit key listed = %v, want %v", tt.owner, found, tt.want)
		}
	}
}

func TestReader_Search(t *testing.T) {
	m := newFixture(t).reader(t, false)

	items := m.searchPosts("paragraph")
	if len(items) != 1 || items[0].Path != "hello.md" {
		t.Errorf("full-text search: got %+v", items)
	}

	items = m.searchPosts("Older")
	if len(items) != 1 || items[0].Path != "older.md" {
		t.Errorf("search: got %+v", items)
	}

	if items := m.searchPosts("Not yet"); len(items) != 0 {
		t.Errorf("visitor search found hidden post: %+v", items)
	}

	if items := m.searchPosts(""); len(items) != 2 {
		t.Errorf("empty query: got %d items, want 2", len(items))
	}
}

func TestReader_HTMLToggle(t *testing.T) {
	m := newFixture(t).reader(t, false)

	press(m, "enter")
	press(m, "v")
	if !m.showHTML {
		t.Fatal("HTML view not enabled")
	}
	view := m.View()
	if !strings.Contains(view, "<pre>") {
		t.Errorf("expected rendered HTML in view:\n%s", view)
	}
	if strings.Contains(view, "# Hello World") {
		t.Error("rendered HTML repeats the title heading")
	}
}

func TestReader_RemembersLastPost(t *testing.T) {
	f := newFixture(t)

	m := f.reader(t, false)
	press(m, "j")
	press(m, "enter")
	m.Close()

	state, err := session.NewStore(f.state).Load()
	if err != nil {
		t.Fatal(err)
	}
	if state.LastPost != "older.md" {
		t.Errorf("LastPost = %q, want older.md", state.LastPost)
	}

	again := f.reader(t, false)
	if got := again.list.Selected(); got != "older.md" {
		t.Errorf("restored selection %q, want older.md", got)
	}
}
