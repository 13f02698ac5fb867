package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
	NextPane  key.Binding
	PrevPane  key.Binding
	Rate      key.Binding
	RateUp    key.Binding
	RateDown  key.Binding
	Add       key.Binding
	Delete    key.Binding
	Open      key.Binding
	Toggle    key.Binding
	Search    key.Binding
	Back      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:    key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "open/close movie")),
		NextPane:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
		PrevPane:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous pane")),
		Rate:      key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9", "0"), key.WithHelp("1-0", "rate")),
		RateUp:    key.NewBinding(key.WithKeys("right", "l", "+"), key.WithHelp("→/l", "more stars")),
		RateDown:  key.NewBinding(key.WithKeys("left", "h", "-"), key.WithHelp("←/h", "fewer stars")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to list")),
		Delete:    key.NewBinding(key.WithKeys("d", "x", "delete"), key.WithHelp("d", "delete")),
		Open:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open on IMDb")),
		Toggle:    key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "collapse box")),
		Search:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "new search")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close movie")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPane, k.Select, k.Search, k.Back, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Open},
		{k.Rate, k.RateUp, k.RateDown, k.Add},
		{k.Delete, k.Toggle, k.NextPane, k.PrevPane},
		{k.Search, k.Back, k.Quit},
	}
}
