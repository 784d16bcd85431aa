package panel

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yewfence/mdblog/internal/theme"
)

// PromptResultMsg carries the confirmed, trimmed value.
type PromptResultMsg struct {
	Value string
}

// PromptCancelledMsg is sent when the prompt is dismissed or left blank.
type PromptCancelledMsg struct{}

// Prompt asks for a single line, such as the title of a new post.
type Prompt struct {
	input    textinput.Model
	title    string
	problem  string
	validate func(string) error
	width    int
	visible  bool
	theme    *theme.Theme
}

func NewPrompt() Prompt {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 40

	return Prompt{input: ti}
}

func (p *Prompt) SetTheme(th *theme.Theme) { p.theme = th }

// SetValidator installs a check run on enter. A failing value keeps the
// prompt open with the error shown below the input.
func (p *Prompt) SetValidator(fn func(string) error) { p.validate = fn }

func (p *Prompt) Show(title, placeholder string) {
	p.visible = true
	p.title = title
	p.problem = ""
	p.input.Placeholder = placeholder
	p.input.Reset()
	p.input.Focus()
}

func (p *Prompt) Hide() {
	p.visible = false
	p.input.Blur()
}

func (p Prompt) Visible() bool { return p.visible }

func (p Prompt) Update(msg tea.Msg) (Prompt, tea.Cmd) {
	if !p.visible {
		return p, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc", "ctrl+c":
			p.Hide()
			return p, func() tea.Msg { return PromptCancelledMsg{} }
		case "enter":
			value := strings.TrimSpace(p.input.Value())
			if value == "" {
				p.Hide()
				return p, func() tea.Msg { return PromptCancelledMsg{} }
			}
			if p.validate != nil {
				if err := p.validate(value); err != nil {
					p.problem = err.Error()
					return p, nil
				}
			}
			p.Hide()
			return p, func() tea.Msg { return PromptResultMsg{Value: value} }
		}
	}

	p.problem = ""
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p Prompt) View() string {
	if !p.visible {
		return ""
	}
	th := themeOrDefault(p.theme)

	width := p.width
	if width == 0 {
		width = 60
	}

	lines := []string{p.input.View(), ""}
	if p.problem != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(th.Error).Render(p.problem))
	}
	lines = append(lines, lipgloss.NewStyle().Foreground(th.Dim).Render("enter confirm · esc cancel"))

	return dialog(th, width-6, p.title, lines...)
}

func (p *Prompt) SetSize(width, _ int) {
	p.width = width
	p.input.Width = max(10, width-12)
}
