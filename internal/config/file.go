package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// fileConfig mirrors Config with pointer fields so we can distinguish
// "not set" from zero values when merging TOML.
type fileConfig struct {
	PostsDir         *string           `toml:"posts_dir"`
	Listen           *string           `toml:"listen"`
	Renderer         *string           `toml:"renderer"`
	Author           *string           `toml:"author"`
	PlaceholderTitle *string           `toml:"placeholder_title"`
	PlaceholderBody  *string           `toml:"placeholder_body"`
	About            *string           `toml:"about"`
	LogLevel         *string           `toml:"log_level"`
	Colors           map[string]string `toml:"colors"`
}

// ConfigDir returns the mdblog config directory, respecting XDG_CONFIG_HOME.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mdblog")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "mdblog")
}

// ConfigPath returns the full path to config.toml.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LoadFile reads the config file at path (ConfigPath when empty) and merges
// non-nil fields into cfg. Returns true if the file existed.
func LoadFile(cfg *Config, path string) (bool, error) {
	if path == "" {
		path = ConfigPath()
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return true, err
	}

	if fc.PostsDir != nil {
		cfg.SetPostsDir(ExpandHome(*fc.PostsDir))
	}
	if fc.Listen != nil {
		cfg.Listen = *fc.Listen
	}
	if fc.Renderer != nil {
		cfg.Renderer = *fc.Renderer
	}
	if fc.Author != nil {
		cfg.Author = *fc.Author
	}
	if fc.PlaceholderTitle != nil {
		cfg.PlaceholderTitle = *fc.PlaceholderTitle
	}
	if fc.PlaceholderBody != nil {
		cfg.PlaceholderBody = *fc.PlaceholderBody
	}
	if fc.About != nil {
		cfg.About = *fc.About
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if len(fc.Colors) > 0 {
		cfg.Colors = fc.Colors
	}

	return true, nil
}

// SaveFile writes a minimal config.toml with the given posts directory and
// author. A blank author is left out.
func SaveFile(postsDir, author string) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Store with ~ for readability if under home dir.
	home, _ := os.UserHomeDir()
	display := postsDir
	if home != "" && strings.HasPrefix(postsDir, home+string(os.PathSeparator)) {
		display = "~" + postsDir[len(home):]
	}

	fc := fileConfig{PostsDir: &display}
	if author != "" {
		fc.Author = &author
	}
	f, err := os.Create(filepath.Join(dir, "config.toml"))
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(fc)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, _ := os.UserHomeDir()
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
