package ssh

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	bts "github.com/charmbracelet/wish/bubbletea"

	"github.com/yewfence/mdblog/internal/config"
	"github.com/yewfence/mdblog/internal/index"
	"github.com/yewfence/mdblog/internal/post"
	"github.com/yewfence/mdblog/internal/reader"
	"github.com/yewfence/mdblog/internal/theme"
)

// NewHandler returns a Bubble Tea handler for SSH sessions. Every session
// gets its own visitor reader over the shared index.
func NewHandler(cfg config.Config, indexer *index.Indexer, store *post.Store, logger *log.Logger) bts.Handler {
	th := theme.WithOverrides(cfg.Colors, theme.DefaultTheme())

	return func(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
		logger.Debug("session started", "user", sess.User(), "remote", sess.RemoteAddr().String())

		m := reader.New(indexer, store, visitorOptions(cfg, th, logger))

		opts := []tea.ProgramOption{
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
		}
		opts = append(opts, bts.MakeOptions(sess)...)

		return m, opts
	}
}

// visitorOptions configures a read-only reader without persisted state.
func visitorOptions(cfg config.Config, th theme.Theme, logger *log.Logger) reader.Options {
	return reader.Options{
		Owner:  false,
		Author: cfg.Author,
		About:  cfg.About,
		Theme:  th,
		Logger: logger,
	}
}
