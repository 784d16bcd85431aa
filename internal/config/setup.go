package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SetupResult is returned by RunSetup.
type SetupResult struct {
	PostsDir  string
	Author    string
	Cancelled bool
}

type setupStep int

const (
	stepPostsDir setupStep = iota
	stepAuthor
)

type setupModel struct {
	input         textinput.Model
	step          setupStep
	postsDir      string
	defaultAuthor string
	err           string
	done          bool
	quit          bool
}

func newSetupModel(defaultAuthor string) setupModel {
	ti := textinput.New()
	ti.Placeholder = "~/blog"
	ti.CharLimit = 256
	ti.Width = 50
	ti.Focus()

	return setupModel{input: ti, defaultAuthor: defaultAuthor}
}

func (m setupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m setupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return m.confirm()
		case "esc", "ctrl+c":
			m.quit = true
			return m, tea.Quit
		}
	}

	m.err = ""
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m setupModel) confirm() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())

	switch m.step {
	case stepPostsDir:
		if value == "" {
			value = "~/blog"
		}
		expanded := ExpandHome(value)
		if err := validatePostsDir(expanded); err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.postsDir = expanded
		m.step = stepAuthor
		m.input.SetValue("")
		m.input.Placeholder = m.defaultAuthor
		return m, nil

	default:
		if value == "" {
			value = m.defaultAuthor
		}
		m.input.SetValue(value)
		m.done = true
		return m, tea.Quit
	}
}

func (m setupModel) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("212")).
		Render("Welcome to mdblog")

	question := " Where should your posts live?"
	if m.step == stepAuthor {
		question = " Who is the author?"
	}

	var s string
	s += "\n " + title + "\n\n"
	s += question + "\n\n"
	s += "   " + m.input.View() + "\n\n"

	if m.err != "" {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		s += " " + errStyle.Render(m.err) + "\n\n"
	}

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	s += " " + dim.Render("Press Enter to confirm, Esc to cancel") + "\n"

	return s
}

// validatePostsDir checks that a path is usable as the posts directory.
func validatePostsDir(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s exists but is not a directory", path)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}

	// Check that the parent directory exists or can be created.
	parent := filepath.Dir(path)
	pinfo, err := os.Stat(parent)
	if err != nil {
		return fmt.Errorf("parent directory %s does not exist", parent)
	}
	if !pinfo.IsDir() {
		return fmt.Errorf("%s is not a directory", parent)
	}
	return nil
}

// RunSetup runs the first-run TUI prompt and saves the chosen posts
// directory and author.
func RunSetup(defaultAuthor string) (SetupResult, error) {
	p := tea.NewProgram(newSetupModel(defaultAuthor))
	final, err := p.Run()
	if err != nil {
		return SetupResult{}, err
	}

	fm, ok := final.(setupModel)
	if !ok {
		return SetupResult{}, fmt.Errorf("unexpected model type from setup wizard")
	}
	if fm.quit || !fm.done {
		return SetupResult{Cancelled: true}, nil
	}

	res := SetupResult{PostsDir: fm.postsDir, Author: fm.input.Value()}
	if err := SaveFile(res.PostsDir, res.Author); err != nil {
		return SetupResult{}, fmt.Errorf("saving config: %w", err)
	}
	return res, nil
}
