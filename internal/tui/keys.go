package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Prev    key.Binding
	Next    key.Binding
	Toggle  key.Binding
	Edit    key.Binding
	Add     key.Binding
	Remove  key.Binding
	Move    key.Binding
	Drop    key.Binding
	Cancel  key.Binding
	Retry   key.Binding
	Preview key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Prev: key.NewBinding(
			key.WithKeys("left", "up", "h", "k", "shift+tab"),
			key.WithHelp("←/k", "prev"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "down", "l", "j", "tab"),
			key.WithHelp("→/j", "next"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space", "x"),
			key.WithHelp("space", "toggle"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "rename"),
		),
		Add: key.NewBinding(
			key.WithKeys("a", "+"),
			key.WithHelp("a", "add"),
		),
		Remove: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "remove"),
		),
		Move: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "move"),
		),
		Drop: key.NewBinding(
			key.WithKeys("enter", "m"),
			key.WithHelp("enter", "drop"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Preview: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "note"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Add, k.Edit, k.Move, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.Toggle},
		{k.Add, k.Edit, k.Remove},
		{k.Move, k.Drop, k.Cancel},
		{k.Retry, k.Preview, k.Help, k.Quit},
	}
}

// dragKeys is shown while a keyboard reorder is in progress.
type dragKeys struct{ keyMap }

func (k dragKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Drop, k.Cancel}
}

func (k dragKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// inputKeys is shown while a text field has focus.
type inputKeys struct{ keyMap }

func (k inputKeys) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		k.Cancel,
	}
}

func (k inputKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
