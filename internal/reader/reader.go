package reader

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/yewfence/mdblog/internal/index"
	"github.com/yewfence/mdblog/internal/markdown"
	"github.com/yewfence/mdblog/internal/panel"
	"github.com/yewfence/mdblog/internal/post"
	"github.com/yewfence/mdblog/internal/session"
	"github.com/yewfence/mdblog/internal/theme"
	"github.com/yewfence/mdblog/internal/ui"
)

type viewKind int

const (
	viewList viewKind = iota
	viewPost
	viewAbout
)

func (v viewKind) String() string {
	switch v {
	case viewPost:
		return "POST"
	case viewAbout:
		return "ABOUT"
	default:
		return "POSTS"
	}
}

// Options configure a reader.
type Options struct {
	// Owner readers see hidden posts and may create and edit posts.
	Owner  bool
	Author string
	About  string
	// Editor is the command used to edit posts, e.g. "vim" or "code -w".
	// Editing is disabled when empty.
	Editor string
	Theme  theme.Theme
	// Session persists reader state between runs; nil disables it.
	Session *session.Store
	Logger  *log.Logger
}

// Model is the Bubble Tea model of the blog reader.
type Model struct {
	opts    Options
	indexer *index.Indexer
	db      *index.DB
	store   *post.Store
	logger  *log.Logger

	theme  theme.Theme
	styles ui.Styles

	list     panel.List
	finder   panel.Finder
	prompt   panel.Prompt
	status   panel.Status
	outline  panel.Outline
	help     panel.Help
	viewport viewport.Model

	view     viewKind
	current  *post.Post
	showHTML bool
	state    session.State
	restored bool // list cursor restored from state
	width    int
	height   int
}

func New(indexer *index.Indexer, store *post.Store, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	m := &Model{
		opts:     opts,
		indexer:  indexer,
		db:       indexer.DB(),
		store:    store,
		logger:   logger.WithPrefix("reader"),
		theme:    opts.Theme,
		styles:   ui.NewStyles(opts.Theme),
		list:     panel.NewList(),
		finder:   panel.NewFinder(),
		prompt:   panel.NewPrompt(),
		status:   panel.NewStatus(opts.Owner),
		outline:  panel.NewOutline(),
		help:     panel.NewHelp(),
		viewport: viewport.New(0, 0),
		state:    session.Default(),
	}

	if opts.Session != nil {
		state, err := opts.Session.Load()
		if err != nil {
			m.logger.Warn("session state unreadable, using defaults", "err", err)
		}
		m.state = state
	}

	m.list.SetTheme(&m.theme)
	m.finder.SetTheme(&m.theme)
	m.prompt.SetTheme(&m.theme)
	m.status.SetTheme(&m.theme)
	m.outline.SetTheme(&m.theme)
	m.help.SetTheme(&m.theme)
	m.finder.SetSearchFunc(m.searchPosts)
	m.prompt.SetValidator(m.checkNewTitle)

	return m
}

func (m *Model) Init() tea.Cmd {
	return m.loadPosts()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.Close()
			return m, tea.Quit
		}

		if m.prompt.Visible() {
			var cmd tea.Cmd
			m.prompt, cmd = m.prompt.Update(msg)
			return m, cmd
		}

		if m.finder.Visible() {
			var cmd tea.Cmd
			m.finder, cmd = m.finder.Update(msg)
			return m, cmd
		}

		// Any key dismisses the help popup.
		if m.help.Visible() {
			m.help.Clear()
			return m, nil
		}

		return m, m.handleKey(msg)

	case tea.WindowSizeMsg:
		if msg.Width <= 0 || msg.Height <= 0 {
			return m, nil
		}
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil

	case postsLoadedMsg:
		if msg.err != nil {
			m.status.SetError(fmt.Sprintf("load posts: %v", msg.err))
			return m, nil
		}
		m.list.SetItems(msg.items)
		if !m.restored {
			m.restored = true
			if m.state.LastPost != "" {
				m.list.Select(m.state.LastPost)
			}
		}
		return m, nil

	case panel.PostSelectedMsg:
		return m, m.openPost(msg.Path)

	case panel.FinderResultMsg:
		m.state.LastQuery = msg.Query
		return m, m.openPost(msg.Path)

	case panel.FinderClosedMsg:
		m.state.LastQuery = msg.Query
		return m, nil

	case panel.PromptResultMsg:
		return m, m.createPost(msg.Value)

	case panel.PromptCancelledMsg:
		return m, nil

	case editorFinishedMsg:
		return m, m.afterEdit(msg)

	case statusMsg:
		if msg.err != nil {
			m.status.SetError(msg.err.Error())
		} else {
			m.status.ClearError()
			m.status.SetFile(msg.text)
		}
		return m, nil

	case RefreshMsg:
		return m, m.refresh()

	case FatalMsg:
		m.Close()
		return m, fatalCmd(msg.Err)
	}

	if m.view == viewPost {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	switch key {
	case "?":
		m.showHelp()
		return nil
	case "/":
		m.finder.Show(m.state.LastQuery)
		return nil
	}

	switch m.view {
	case viewList:
		switch key {
		case "q":
			m.Close()
			return tea.Quit
		case "a":
			m.setView(viewAbout)
			return nil
		case "r":
			return m.loadPosts()
		case "n":
			if m.opts.Owner {
				m.prompt.Show("New post", "Title")
			}
			return nil
		case "e":
			return m.editPost(m.list.Selected())
		case "p":
			return m.toggleStatus(m.list.Selected())
		}
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return cmd

	case viewPost:
		switch key {
		case "esc", "q", "backspace":
			m.current = nil
			m.setView(viewList)
			return m.loadPosts()
		case "o":
			m.state.ShowOutline = !m.state.ShowOutline
			m.updateLayout()
			m.saveState()
			return nil
		case "v":
			m.showHTML = !m.showHTML
			m.refreshViewport()
			return nil
		case "e":
			if m.current != nil {
				return m.editPost(m.current.Path)
			}
			return nil
		case "p":
			if m.current != nil {
				return m.toggleStatus(m.current.Path)
			}
			return nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd

	case viewAbout:
		switch key {
		case "esc", "q", "backspace":
			m.setView(viewList)
		}
	}
	return nil
}

func (m *Model) setView(v viewKind) {
	m.view = v
	m.status.SetMode(v.String())
	m.list.SetFocused(v == viewList)
	if v != viewPost {
		m.status.SetFile("")
	}
	m.updateLayout()
}

func (m *Model) showHelp() {
	var bindings []binding
	switch m.view {
	case viewPost:
		bindings = postBindings
	case viewAbout:
		bindings = aboutBindings
	default:
		bindings = listBindings
	}
	m.help.SetEntries("Keys", helpEntries(bindings, m.opts.Owner))
}

func (m *Model) updateLayout() {
	layout := ComputeLayout(m.width, m.height, m.state.ShowOutline, outlineWidth)

	m.status.SetWidth(m.width)
	m.help.SetWidth(m.width / 2)
	m.finder.SetSize(m.width, m.height)

	promptW := m.width * 4 / 5
	if promptW > 80 {
		promptW = 80
	}
	if promptW < 30 {
		promptW = 30
	}
	m.prompt.SetSize(promptW, m.height)

	// Header row on top of the list.
	m.list.SetSize(m.width, layout.Height-1)

	// Title, meta line and blank line sit above the post body.
	m.outline.SetSize(layout.OutlineWidth, layout.Height)
	m.viewport.Width = layout.BodyWidth - 2
	m.viewport.Height = layout.Height - 4
	if m.viewport.Width < 1 {
		m.viewport.Width = 1
	}
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
	m.refreshViewport()
}

// Close saves the reader state. The index is owned by the caller.
func (m *Model) Close() {
	m.saveState()
}

func (m *Model) saveState() {
	if m.opts.Session == nil {
		return
	}
	if err := m.opts.Session.Save(m.state); err != nil {
		m.logger.Error("save session state", "err", err)
	}
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	const minW, minH = 40, 10
	if m.width < minW || m.height < minH {
		msg := fmt.Sprintf("Window too small (%dx%d)\nMinimum supported: %dx%d", m.width, m.height, minW, minH)
		box := lipgloss.NewStyle().Foreground(m.theme.Text).Padding(1, 2).Render(msg)
		return overlayCenter(strings.Repeat("\n", m.height), box, m.width, m.height)
	}

	layout := ComputeLayout(m.width, m.height, m.state.ShowOutline, outlineWidth)

	var main string
	switch m.view {
	case viewPost:
		main = m.postView(layout)
	case viewAbout:
		main = m.aboutView(layout)
	default:
		main = m.listView(layout)
	}

	main = lipgloss.NewStyle().Width(m.width).Height(layout.Height).MaxHeight(layout.Height).Render(main)
	result := main + "\n" + m.status.View()

	if m.help.Visible() {
		result = overlayCenter(result, m.help.View(), m.width, m.height)
	}
	if m.finder.Visible() {
		result = overlayCenter(result, m.finder.View(), m.width, m.height)
	}
	if m.prompt.Visible() {
		result = overlayCenter(result, m.prompt.View(), m.width, m.height)
	}

	return result
}

func (m *Model) listView(layout Layout) string {
	header := "Posts"
	if m.opts.Author != "" {
		header = m.opts.Author + " · Posts"
	}
	return m.styles.Header.Render(header) + "\n" + m.list.View()
}

func (m *Model) aboutView(layout Layout) string {
	body := m.styles.Body.Width(layout.BodyWidth - 2).Render(m.opts.About)
	return m.styles.Header.Render("About") + "\n\n" + lipgloss.NewStyle().Padding(0, 1).Render(body)
}

func (m *Model) postView(layout Layout) string {
	if m.current == nil {
		return ""
	}
	p := m.current

	title := m.styles.Title.Width(layout.BodyWidth - 2).Render(p.Title)
	meta := m.styles.Subtitle.Render(postMeta(p))
	body := lipgloss.NewStyle().Padding(0, 1).Render(
		title + "\n" + meta + "\n" + m.viewport.View(),
	)

	if layout.OutlineWidth == 0 {
		return body
	}

	bodyCol := lipgloss.NewStyle().Width(layout.BodyWidth).Render(body)
	outlineCol := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder(), false, false, false, true).
		BorderForeground(m.theme.Border).
		Width(layout.OutlineWidth - 1).
		Height(layout.Height).
		Render(m.outline.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, bodyCol, outlineCol)
}

func postMeta(p *post.Post) string {
	parts := []string{}
	if p.Author != "" {
		parts = append(parts, "by "+p.Author)
	}
	if !p.Date.IsZero() {
		parts = append(parts, p.Date.Format(post.DateLayout))
	}
	if p.Hidden() {
		parts = append(parts, "hidden")
	}
	return strings.Join(parts, " · ")
}

// loadPosts reads the post list from the index.
func (m *Model) loadPosts() tea.Cmd {
	owner := m.opts.Owner
	db := m.db
	return func() tea.Msg {
		records, err := db.ListPosts(owner)
		if err != nil {
			return postsLoadedMsg{err: err}
		}
		items := make([]panel.ListItem, len(records))
		for i, r := range records {
			items[i] = panel.ListItem{
				Path:    r.Path,
				Title:   r.Title,
				Date:    r.Date,
				Summary: r.Summary,
				Hidden:  r.Hidden(),
			}
		}
		return postsLoadedMsg{items: items}
	}
}

// refresh reloads the list and the open post.
func (m *Model) refresh() tea.Cmd {
	if m.view == viewPost && m.current != nil {
		return tea.Batch(m.loadPosts(), m.openPost(m.current.Path))
	}
	return m.loadPosts()
}

// openPost shows a post. Visitors cannot open hidden posts.
func (m *Model) openPost(path string) tea.Cmd {
	p, err := m.loadVisible(path)
	if err != nil {
		m.status.SetError(err.Error())
		if m.view == viewPost && m.current != nil && m.current.Path == path {
			m.current = nil
			m.setView(viewList)
		}
		return nil
	}

	samePost := m.current != nil && m.current.Path == p.Path
	m.current = p
	m.outline.SetOutline(m.outlineFor(p))
	m.status.ClearError()
	m.status.SetFile(p.Path)
	m.setView(viewPost)
	if !samePost {
		m.viewport.GotoTop()
	}

	m.state.LastPost = p.Path
	m.saveState()
	return nil
}

// loadVisible loads a post the reader may show. Visitors are checked
// against the index first, so hidden or unindexed posts are never read.
func (m *Model) loadVisible(path string) (*post.Post, error) {
	if !m.opts.Owner {
		rec, err := m.db.GetPost(path)
		if errors.Is(err, index.ErrNotIndexed) || (err == nil && rec.Hidden()) {
			return nil, fmt.Errorf("%w: %s", post.ErrNotFound, path)
		}
		if err != nil {
			return nil, err
		}
	}

	p, err := m.store.Load(path)
	if err != nil {
		return nil, err
	}
	if p.Hidden() && !m.opts.Owner {
		return nil, fmt.Errorf("%w: %s", post.ErrNotFound, path)
	}
	return p, nil
}

// outlineFor lists the post headings, leaving out a leading heading that
// repeats the title.
func (m *Model) outlineFor(p *post.Post) []string {
	var headings []markdown.Heading
	indexed, err := m.db.PostHeadings(p.Path)
	if err == nil && len(indexed) > 0 {
		for _, h := range indexed {
			headings = append(headings, markdown.Heading{Level: h.Level, Text: h.Text, Line: h.Line})
		}
	} else {
		headings = markdown.ExtractHeadings([]byte(p.Body))
	}

	if len(headings) > 0 {
		if first, ok := markdown.ExtractTitle(p.Body); ok && first == headings[0].Text && markdown.TitlesMatch(first, p.Title) {
			headings = headings[1:]
		}
	}
	return markdown.Outline(headings)
}

func (m *Model) refreshViewport() {
	if m.current == nil {
		m.viewport.SetContent("")
		return
	}

	var content string
	if m.showHTML {
		html, err := m.indexer.Rendered(m.current.Path)
		if err != nil {
			content = m.styles.Error.Render(err.Error())
		} else {
			content = html
		}
	} else {
		content = m.current.DisplayBody()
	}

	m.viewport.SetContent(m.styles.Body.Width(m.viewport.Width).Render(content))
}

// searchPosts returns finder items for a query: full-text matches first,
// then title matches when full-text search finds nothing.
func (m *Model) searchPosts(query string) []panel.FinderItem {
	owner := m.opts.Owner

	var records []index.PostRecord
	if strings.TrimSpace(query) == "" {
		all, err := m.db.ListPosts(owner)
		if err != nil {
			return nil
		}
		records = all
	} else {
		results, err := m.db.Search(query, 50, owner)
		if err != nil || len(results) == 0 {
			results, err = m.db.SearchTitles(query, 50, owner)
			if err != nil {
				return nil
			}
		}
		for _, r := range results {
			records = append(records, r.PostRecord)
		}
	}

	items := make([]panel.FinderItem, len(records))
	for i, r := range records {
		items[i] = panel.FinderItem{
			Title:   r.Title,
			Path:    r.Path,
			Date:    r.Date.Format(post.DateLayout),
			Summary: r.Summary,
		}
	}
	return items
}

var errDuplicateTitle = errors.New("a post with this title already exists")

// checkNewTitle rejects a title that matches an existing post's title,
// hidden posts included.
func (m *Model) checkNewTitle(title string) error {
	existing, err := m.db.ListPosts(true)
	if err != nil {
		return nil
	}
	for _, r := range existing {
		if markdown.TitlesMatch(r.Title, title) {
			return errDuplicateTitle
		}
	}
	return nil
}

var errReadOnly = errors.New("editing is only available to the owner")

// editPost suspends the reader and opens the post in the configured editor.
func (m *Model) editPost(path string) tea.Cmd {
	if !m.opts.Owner || path == "" {
		return nil
	}
	args := strings.Fields(m.opts.Editor)
	if len(args) == 0 {
		m.status.SetError("no editor configured (set $EDITOR)")
		return nil
	}

	absPath, err := m.store.AbsPath(path)
	if err != nil {
		m.status.SetError(err.Error())
		return nil
	}

	c := exec.Command(args[0], append(args[1:], absPath)...)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return editorFinishedMsg{path: path, err: err}
	})
}

func (m *Model) afterEdit(msg editorFinishedMsg) tea.Cmd {
	if msg.err != nil {
		m.status.SetError(fmt.Sprintf("editor: %v", msg.err))
	}
	if err := m.reindex(msg.path); err != nil {
		m.status.SetError(err.Error())
		return m.loadPosts()
	}
	if m.view == viewPost || msg.err == nil {
		return tea.Batch(m.loadPosts(), m.openPost(msg.path))
	}
	return m.loadPosts()
}

// createPost writes a new hidden post and opens it in the editor.
func (m *Model) createPost(title string) tea.Cmd {
	if !m.opts.Owner {
		m.status.SetError(errReadOnly.Error())
		return nil
	}

	p, err := m.store.Create(post.Draft{Title: title})
	if err != nil {
		m.status.SetError(fmt.Sprintf("create post: %v", err))
		return nil
	}
	if err := m.reindex(p.Path); err != nil {
		m.status.SetError(err.Error())
	}
	m.logger.Info("created post", "path", p.Path)

	if m.opts.Editor != "" {
		return m.editPost(p.Path)
	}
	return tea.Batch(m.loadPosts(), m.openPost(p.Path))
}

// toggleStatus publishes a hidden post or hides a published one.
func (m *Model) toggleStatus(path string) tea.Cmd {
	if !m.opts.Owner || path == "" {
		return nil
	}

	p, err := m.store.Load(path)
	if err != nil {
		m.status.SetError(err.Error())
		return nil
	}
	next := post.StatusHidden
	if p.Hidden() {
		next = post.StatusPublished
	}

	if _, err := m.store.Update(path, post.Edit{Status: string(next)}); err != nil {
		m.status.SetError(fmt.Sprintf("update post: %v", err))
		return nil
	}
	if err := m.reindex(path); err != nil {
		m.status.SetError(err.Error())
	}

	cmds := []tea.Cmd{m.loadPosts(), func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("%s is now %s", path, next)}
	}}
	if m.view == viewPost {
		cmds = append(cmds, m.openPost(path))
	}
	return tea.Batch(cmds...)
}

func (m *Model) reindex(path string) error {
	absPath, err := m.store.AbsPath(path)
	if err != nil {
		return err
	}
	if err := m.indexer.IndexFile(absPath); err != nil {
		return fmt.Errorf("index %s: %w", path, err)
	}
	return nil
}
