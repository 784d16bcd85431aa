package panel

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func testItems() []ListItem {
	return []ListItem{
		{Path: "c.md", Title: "C"},
		{Path: "b.md", Title: "B"},
		{Path: "a.md", Title: "A"},
	}
}

func TestList_GKey_EmptyItems(t *testing.T) {
	l := NewList()
	l.SetSize(30, 20)

	result, _ := l.Update(keyRune('G'))

	if result.cursor != 0 {
		t.Errorf("cursor = %d after G on empty list, want 0", result.cursor)
	}
}

func TestList_Enter_EmptyItems(t *testing.T) {
	l := NewList()
	l.SetSize(30, 20)

	result, cmd := l.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if result.cursor != 0 {
		t.Errorf("cursor = %d after enter on empty list, want 0", result.cursor)
	}
	if cmd != nil {
		t.Error("expected nil cmd for enter on empty list")
	}
}

func TestList_Navigation(t *testing.T) {
	l := NewList()
	l.SetSize(30, 20)
	l.SetItems(testItems())

	tests := []struct {
		key  tea.KeyMsg
		want string
	}{
		{keyRune('j'), "b.md"},
		{keyRune('j'), "a.md"},
		{keyRune('j'), "a.md"},
		{keyRune('k'), "b.md"},
		{keyRune('g'), "c.md"},
		{keyRune('G'), "a.md"},
	}

	for i, tt := range tests {
		l, _ = l.Update(tt.key)
		if got := l.Selected(); got != tt.want {
			t.Errorf("step %d (%s): selected %q, want %q", i, tt.key.String(), got, tt.want)
		}
	}

	_, cmd := l.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected cmd for enter")
	}
	msg, ok := cmd().(PostSelectedMsg)
	if !ok || msg.Path != "a.md" {
		t.Errorf("enter: got %#v", cmd())
	}
}

func TestList_SetItemsKeepsSelection(t *testing.T) {
	l := NewList()
	l.SetSize(30, 20)
	l.SetItems(testItems())
	l.Select("b.md")

	l.SetItems([]ListItem{
		{Path: "new.md", Title: "New"},
		{Path: "c.md", Title: "C"},
		{Path: "b.md", Title: "B"},
	})
	if got := l.Selected(); got != "b.md" {
		t.Errorf("selected %q after refresh, want b.md", got)
	}

	l.SetItems([]ListItem{{Path: "new.md", Title: "New"}})
	if got := l.Selected(); got != "new.md" {
		t.Errorf("selected %q after removal, want new.md", got)
	}
}

func TestList_UnfocusedIgnoresKeys(t *testing.T) {
	l := NewList()
	l.SetSize(30, 20)
	l.SetItems(testItems())
	l.SetFocused(false)

	l, _ = l.Update(keyRune('j'))
	if got := l.Selected(); got != "c.md" {
		t.Errorf("selected %q, want c.md", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a longer title", 10, "a longe..."},
		{"héllo wörld", 8, "héllo..."},
		{"tiny", 2, "tiny"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestOutline_Overflow(t *testing.T) {
	o := NewOutline()
	o.SetSize(30, 5)
	o.SetOutline([]string{"One", "Two", "  Two.a", "Three", "Four", "Five"})

	view := o.View()
	if !strings.Contains(view, "One") {
		t.Errorf("expected first headings in view:\n%s", view)
	}
	if strings.Contains(view, "Three") {
		t.Errorf("overflowing heading rendered:\n%s", view)
	}
	if !strings.Contains(view, "+4 more") {
		t.Errorf("missing overflow marker:\n%s", view)
	}

	o.Clear()
	if !strings.Contains(o.View(), "No sections") {
		t.Error("empty outline should say so")
	}
}
