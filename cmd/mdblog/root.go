package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yewfence/mdblog/internal/config"
	"github.com/yewfence/mdblog/internal/index"
	"github.com/yewfence/mdblog/internal/markdown"
	"github.com/yewfence/mdblog/internal/post"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configFile string
	postsDir   string
	renderer   string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "mdblog",
		Short: "A personal Markdown blog for the terminal",
		Long: `mdblog keeps blog posts as Markdown files and serves them in a terminal
reader, locally or over SSH.

A post's title lives in its frontmatter. When it is missing, the first
heading of the body is used, and a heading that repeats the title is not
shown twice.

Examples:
  mdblog                          # Read and manage your posts
  mdblog serve                    # Serve published posts over SSH
  mdblog new --title "Hello" < hello.md
  mdblog list --all               # List every post, hidden ones included
  mdblog title draft.md           # Print the title a document would get`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRead(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default: $XDG_CONFIG_HOME/mdblog/config.toml)")
	cmd.PersistentFlags().StringVar(&opts.postsDir, "posts", "", "posts directory (overrides posts_dir)")
	cmd.PersistentFlags().StringVar(&opts.renderer, "renderer", "", "Markdown renderer: goldmark or plain")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	cmd.AddCommand(
		newReadCmd(opts),
		newServeCmd(opts),
		newNewCmd(opts),
		newEditCmd(opts),
		newPreviewCmd(opts),
		newListCmd(opts),
		newDeleteCmd(opts),
		newTitleCmd(),
		newReindexCmd(opts),
	)

	return cmd
}

// loadConfig builds the configuration: defaults, then the config file, then
// flags. existed reports whether a config file was found.
func (o *rootOptions) loadConfig() (cfg config.Config, existed bool, err error) {
	cfg = config.Default()
	existed, err = config.LoadFile(&cfg, o.configFile)
	if err != nil {
		return cfg, existed, fmt.Errorf("load config: %w", err)
	}

	if o.postsDir != "" {
		cfg.SetPostsDir(config.ExpandHome(o.postsDir))
	}
	if o.renderer != "" {
		cfg.Renderer = o.renderer
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}

	if abs, err := filepath.Abs(cfg.PostsDir); err == nil {
		cfg.SetPostsDir(abs)
	}
	return cfg, existed, nil
}

func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
	}), nil
}

// blog bundles the open stores of one posts directory.
type blog struct {
	cfg     config.Config
	logger  *log.Logger
	store   *post.Store
	db      *index.DB
	indexer *index.Indexer
}

func openBlog(cfg config.Config, logger *log.Logger) (*blog, error) {
	renderer, err := markdown.NewRenderer(cfg.Renderer)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.StateDir, 0755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	db, err := index.Open(cfg.IndexPath())
	if err != nil {
		return nil, err
	}

	store := post.NewStore(cfg.PostsDir, post.Defaults{
		Author: cfg.Author,
		Title:  cfg.PlaceholderTitle,
		Body:   cfg.PlaceholderBody,
	})

	return &blog{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		db:      db,
		indexer: index.NewIndexer(db, store, renderer, logger),
	}, nil
}

func (b *blog) Close() error {
	return b.db.Close()
}

// open loads the configuration and opens the blog with a logger on stderr.
func (o *rootOptions) open() (*blog, error) {
	cfg, _, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return openBlog(cfg, logger)
}

// closeBlog folds a close error into err.
func closeBlog(b *blog, err error) error {
	closeErr := b.Close()
	if closeErr == nil {
		return err
	}
	if err == nil {
		return fmt.Errorf("close index: %w", closeErr)
	}
	return fmt.Errorf("%w (close: %v)", err, closeErr)
}
