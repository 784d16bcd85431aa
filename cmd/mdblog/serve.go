package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/ssh"
	"github.com/spf13/cobra"

	"github.com/yewfence/mdblog/internal/index"
	mdssh "github.com/yewfence/mdblog/internal/ssh"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve published posts over SSH",
		Long: `Index the posts directory, watch it for changes and serve a read-only
reader over SSH. Visitors only see published posts.

Examples:
  mdblog serve                    # Listen on the configured address
  mdblog serve --listen :2323     # Listen on a custom address
  ssh -p 2222 localhost           # Connect`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			b, err := opts.open()
			if err != nil {
				return err
			}
			defer func() { err = closeBlog(b, err) }()

			if listen != "" {
				b.cfg.Listen = listen
			}
			if err := os.MkdirAll(b.cfg.PostsDir, 0755); err != nil {
				return fmt.Errorf("create posts dir: %w", err)
			}
			if err := b.indexer.IndexAll(); err != nil {
				return fmt.Errorf("index posts: %w", err)
			}

			ctx, cancel := context.WithCancelCause(cmd.Context())
			defer cancel(nil)

			w, err := index.NewWatcher(b.indexer, b.cfg.PostsDir, b.logger, nil, func(err error) {
				cancel(fmt.Errorf("watch posts: %w", err))
			})
			if err != nil {
				return err
			}
			go w.Start()
			defer func() {
				if stopErr := w.Stop(); stopErr != nil {
					b.logger.Warn("stop watcher", "err", stopErr)
				}
			}()

			srv, err := mdssh.New(b.cfg, b.indexer, b.store, b.logger)
			if err != nil {
				return err
			}

			serveErr := make(chan error, 1)
			go func() { serveErr <- srv.ListenAndServe() }()

			select {
			case err := <-serveErr:
				if errors.Is(err, ssh.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("serve: %w", err)
			case <-ctx.Done():
			}

			b.logger.Info("shutting down")
			shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
			defer stop()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
				return fmt.Errorf("shutdown: %w", err)
			}

			if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
				return cause
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides listen)")

	return cmd
}
