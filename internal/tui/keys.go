package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Info        key.Binding
	Success     key.Binding
	Error       key.Binding
	Loading     key.Binding
	Quote       key.Binding
	Interactive key.Binding
	Action      key.Binding
	Dismiss     key.Binding
	DismissAll  key.Binding
	History     key.Binding
	Quit        key.Binding

	// History modal.
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Clear      key.Binding
	Close      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Info:        key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "info")),
		Success:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "success")),
		Error:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "error")),
		Loading:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "loading")),
		Quote:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quote")),
		Interactive: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "interactive")),
		Action:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run action")),
		Dismiss:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss")),
		DismissAll:  key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "dismiss all")),
		History:     key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
		Quit:        key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("ctrl+c", "quit")),

		ScrollUp:   key.NewBinding(key.WithKeys("k", "up")),
		ScrollDown: key.NewBinding(key.WithKeys("j", "down")),
		Clear:      key.NewBinding(key.WithKeys("D")),
		Close:      key.NewBinding(key.WithKeys("h", "esc")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Info, k.Success, k.Error, k.Loading, k.Quote, k.Interactive, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Info, k.Success, k.Error, k.Loading, k.Quote, k.Interactive},
		{k.Action, k.Dismiss, k.DismissAll, k.History, k.Quit},
	}
}
