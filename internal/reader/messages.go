package reader

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yewfence/mdblog/internal/panel"
)

// RefreshMsg asks the reader to reload the post list, for example after the
// watcher re-indexed a file.
type RefreshMsg struct{}

// FatalMsg stops the reader and prints err.
type FatalMsg struct{ Err error }

type postsLoadedMsg struct {
	items []panel.ListItem
	err   error
}

type editorFinishedMsg struct {
	path string
	err  error
}

// statusMsg shows a line in the status bar; err takes precedence.
type statusMsg struct {
	text string
	err  error
}

func fatalCmd(err error) tea.Cmd {
	return tea.Batch(tea.Printf("fatal: %v\n", err), tea.Quit)
}
