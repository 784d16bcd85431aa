package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandHome(t *testing.T) {
	home, _ := os.UserHomeDir()
	tests := []struct {
		input string
		want  string
	}{
		{"~/blog", filepath.Join(home, "blog")},
		{"~", home},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ExpandHome(tt.input)
			if got != tt.want {
				t.Errorf("ExpandHome(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	cfg := Default()
	exists, err := LoadFile(&cfg, "")
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Error("LoadFile should return false for missing file")
	}
}

func TestLoadFile_Partial(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	dir := filepath.Join(tmp, "mdblog")
	os.MkdirAll(dir, 0755)
	os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`renderer = "plain"`+"\n"), 0644)

	cfg := Default()
	exists, err := LoadFile(&cfg, "")
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Error("LoadFile should return true for existing file")
	}
	if cfg.Renderer != "plain" {
		t.Errorf("Renderer = %q, want %q", cfg.Renderer, "plain")
	}
	// PostsDir should remain the default since it wasn't in the file.
	home, _ := os.UserHomeDir()
	if cfg.PostsDir != filepath.Join(home, "blog") {
		t.Errorf("PostsDir changed unexpectedly: %q", cfg.PostsDir)
	}
}

func TestLoadFile_Full(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "custom.toml")
	content := `posts_dir = "~/writing"
listen = ":2323"
renderer = "goldmark"
author = "Ada"
placeholder_title = "No Title"
placeholder_body = "TBD"
about = "About me"
log_level = "debug"

[colors]
accent = "#ff0000"
`
	os.WriteFile(path, []byte(content), 0644)

	cfg := Default()
	exists, err := LoadFile(&cfg, path)
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Error("LoadFile should return true")
	}

	home, _ := os.UserHomeDir()
	wantPath := filepath.Join(home, "writing")
	if cfg.PostsDir != wantPath {
		t.Errorf("PostsDir = %q, want %q", cfg.PostsDir, wantPath)
	}
	if cfg.StateDir != filepath.Join(wantPath, ".mdblog") {
		t.Errorf("StateDir = %q", cfg.StateDir)
	}
	if cfg.Listen != ":2323" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.Author != "Ada" {
		t.Errorf("Author = %q", cfg.Author)
	}
	if cfg.PlaceholderTitle != "No Title" {
		t.Errorf("PlaceholderTitle = %q", cfg.PlaceholderTitle)
	}
	if cfg.PlaceholderBody != "TBD" {
		t.Errorf("PlaceholderBody = %q", cfg.PlaceholderBody)
	}
	if cfg.About != "About me" {
		t.Errorf("About = %q", cfg.About)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.Colors["accent"] != "#ff0000" {
		t.Errorf("Colors = %v", cfg.Colors)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	os.WriteFile(path, []byte("renderer = \n"), 0644)

	cfg := Default()
	exists, err := LoadFile(&cfg, path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !exists {
		t.Error("LoadFile should report the file as existing")
	}
}

func TestSaveFile(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	home, _ := os.UserHomeDir()
	postsDir := filepath.Join(home, "my-blog")

	if err := SaveFile(postsDir, "Ada"); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	exists, err := LoadFile(&cfg, "")
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Error("config file should exist after SaveFile")
	}
	if cfg.PostsDir != postsDir {
		t.Errorf("PostsDir = %q, want %q", cfg.PostsDir, postsDir)
	}
	if cfg.Author != "Ada" {
		t.Errorf("Author = %q, want %q", cfg.Author, "Ada")
	}
}

func TestConfigDir_XDG(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	want := filepath.Join(tmp, "mdblog")
	if got := ConfigDir(); got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}
}

func TestConfigDir_Default(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	home, _ := os.UserHomeDir()
	want := filepath.Join(home, ".config", "mdblog")
	if got := ConfigDir(); got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}
}
