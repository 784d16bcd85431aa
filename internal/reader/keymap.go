package reader

import "github.com/yewfence/mdblog/internal/panel"

// binding is a key shown in the help popup. ownerOnly bindings are left out
// for visitors.
type binding struct {
	key       string
	label     string
	ownerOnly bool
}

var listBindings = []binding{
	{key: "j/k", label: "Move"},
	{key: "enter", label: "Read post"},
	{key: "/", label: "Search"},
	{key: "a", label: "About"},
	{key: "n", label: "New post", ownerOnly: true},
	{key: "e", label: "Edit post", ownerOnly: true},
	{key: "p", label: "Publish / hide", ownerOnly: true},
	{key: "r", label: "Reload"},
	{key: "?", label: "Help"},
	{key: "q", label: "Quit"},
}

var postBindings = []binding{
	{key: "j/k", label: "Scroll"},
	{key: "esc", label: "Back"},
	{key: "/", label: "Search"},
	{key: "o", label: "Toggle outline"},
	{key: "v", label: "Toggle HTML"},
	{key: "e", label: "Edit post", ownerOnly: true},
	{key: "p", label: "Publish / hide", ownerOnly: true},
	{key: "?", label: "Help"},
}

var aboutBindings = []binding{
	{key: "esc", label: "Back"},
	{key: "?", label: "Help"},
}

func helpEntries(bindings []binding, owner bool) []panel.HelpEntry {
	var entries []panel.HelpEntry
	for _, b := range bindings {
		if b.ownerOnly && !owner {
			continue
		}
		entries = append(entries, panel.HelpEntry{Key: b.key, Label: b.label})
	}
	return entries
}
