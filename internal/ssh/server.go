package ssh

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bts "github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"

	"github.com/yewfence/mdblog/internal/config"
	"github.com/yewfence/mdblog/internal/index"
	"github.com/yewfence/mdblog/internal/post"
)

// Server wraps a Wish SSH server that serves the blog reader.
type Server struct {
	server *ssh.Server
	logger *log.Logger
}

// New creates a new SSH server. The host key is created under the state
// directory on first use.
func New(cfg config.Config, indexer *index.Indexer, store *post.Store, logger *log.Logger) (*Server, error) {
	logger = logger.WithPrefix("ssh")

	s, err := wish.NewServer(
		wish.WithAddress(cfg.Listen),
		wish.WithHostKeyPath(cfg.HostKeyPath()),
		wish.WithMiddleware(
			bts.Middleware(NewHandler(cfg, indexer, store, logger)),
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create ssh server: %w", err)
	}

	return &Server{server: s, logger: logger}, nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// ListenAndServe starts the SSH server. It returns ssh.ErrServerClosed
// after Shutdown or Close.
func (s *Server) ListenAndServe() error {
	s.logger.Info("serving", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown stops accepting sessions and waits for open ones until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Close stops the SSH server.
func (s *Server) Close() error {
	return s.server.Close()
}
