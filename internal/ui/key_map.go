package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI, covering the
// bindings the views surface in their help lines. List navigation keys
// come from the list component's own key map.
type keyMap struct {
	back   key.Binding
	add    key.Binding
	remove key.Binding
	cart   key.Binding
	commit key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		add:    key.NewBinding(key.WithKeys("a", "enter"), key.WithHelp("a/enter", "add to cart")),
		remove: key.NewBinding(key.WithKeys("x", "backspace"), key.WithHelp("x", "remove")),
		cart:   key.NewBinding(key.WithKeys("c", "tab"), key.WithHelp("c", "view cart")),
		commit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "commit")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.add, k.remove, k.cart},
		{k.commit, k.back, k.quit},
	}
}
