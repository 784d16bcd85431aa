package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/yewfence/mdblog/internal/config"
	"github.com/yewfence/mdblog/internal/index"
	"github.com/yewfence/mdblog/internal/reader"
	"github.com/yewfence/mdblog/internal/session"
	"github.com/yewfence/mdblog/internal/theme"
)

func newReadCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "read",
		Short: "Read and manage posts in the terminal (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRead(cmd, opts)
		},
	}
}

func runRead(cmd *cobra.Command, opts *rootOptions) (err error) {
	cfg, existed, err := opts.loadConfig()
	if err != nil {
		return err
	}

	// First run: ask where posts live unless told on the command line.
	if !existed && opts.configFile == "" && opts.postsDir == "" {
		res, err := config.RunSetup(cfg.Author)
		if err != nil {
			return fmt.Errorf("setup: %w", err)
		}
		if res.Cancelled {
			return nil
		}
		cfg.SetPostsDir(res.PostsDir)
		cfg.Author = res.Author
	}

	if err := os.MkdirAll(cfg.PostsDir, 0755); err != nil {
		return fmt.Errorf("create posts dir: %w", err)
	}
	if err := os.MkdirAll(cfg.StateDir, 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	// The terminal belongs to the reader; logs go to a file.
	logFile, err := os.OpenFile(filepath.Join(cfg.StateDir, "mdblog.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	logger, err := newLogger(logFile, cfg.LogLevel)
	if err != nil {
		return err
	}

	b, err := openBlog(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { err = closeBlog(b, err) }()

	if err := b.indexer.IndexAll(); err != nil {
		return fmt.Errorf("index posts: %w", err)
	}

	m := reader.New(b.indexer, b.store, reader.Options{
		Owner:   true,
		Author:  cfg.Author,
		About:   cfg.About,
		Editor:  editorCommand(),
		Theme:   theme.WithOverrides(cfg.Colors, theme.DefaultTheme()),
		Session: session.NewStore(cfg.StateDir),
		Logger:  logger,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(cmd.Context()))

	w, err := index.NewWatcher(b.indexer, cfg.PostsDir, logger, func() {
		p.Send(reader.RefreshMsg{})
	}, func(err error) {
		p.Send(reader.FatalMsg{Err: fmt.Errorf("watch posts: %w", err)})
	})
	if err != nil {
		return err
	}
	go w.Start()
	defer func() {
		if stopErr := w.Stop(); stopErr != nil {
			logger.Warn("stop watcher", "err", stopErr)
		}
	}()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("reader: %w", err)
	}
	return nil
}

// editorCommand picks the editor for posts from $VISUAL or $EDITOR. Blank
// values are skipped.
func editorCommand() string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}
	return "vi"
}
