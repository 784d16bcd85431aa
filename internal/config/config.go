package config

import (
	"os"
	"path/filepath"
)

type Config struct {
	PostsDir         string
	StateDir         string // index, session state and SSH host key
	Listen           string
	Renderer         string
	Author           string
	PlaceholderTitle string
	PlaceholderBody  string
	About            string
	LogLevel         string
	Colors           map[string]string
}

func Default() Config {
	home, _ := os.UserHomeDir()
	postsDir := filepath.Join(home, "blog")
	return Config{
		PostsDir:         postsDir,
		StateDir:         filepath.Join(postsDir, ".mdblog"),
		Listen:           ":2222",
		Renderer:         "goldmark",
		Author:           "YewFence",
		PlaceholderTitle: "Untitled",
		PlaceholderBody:  "Content coming soon...",
		About:            "A personal blog, written in Markdown.",
		LogLevel:         "info",
	}
}

// SetPostsDir changes the posts directory and moves the state directory
// along with it.
func (c *Config) SetPostsDir(dir string) {
	c.PostsDir = dir
	c.StateDir = filepath.Join(dir, ".mdblog")
}

// IndexPath is the SQLite index location.
func (c Config) IndexPath() string {
	return filepath.Join(c.StateDir, "index.db")
}

// HostKeyPath is the SSH host key location.
func (c Config) HostKeyPath() string {
	return filepath.Join(c.StateDir, "ssh_host_key")
}
