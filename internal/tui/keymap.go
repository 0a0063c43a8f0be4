package tui

import "github.com/charmbracelet/bubbles/key"

type pruneKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	PgUp    key.Binding
	PgDown  key.Binding
	Home    key.Binding
	End     key.Binding
	Remove  key.Binding
	Filter  key.Binding
	Confirm key.Binding
	Abort   key.Binding
}

func newPruneKeyMap() pruneKeyMap {
	return pruneKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PgUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PgDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home", "top"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end", "bottom"),
		),
		Remove: key.NewBinding(
			key.WithKeys("r", "delete"),
			key.WithHelp("r/del", "remove subtree"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "copy"),
		),
		Abort: key.NewBinding(
			key.WithKeys("esc", "ctrl+c", "q"),
			key.WithHelp("esc/q", "abort"),
		),
	}
}

func (k pruneKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Remove, k.Filter, k.Confirm, k.Abort}
}

func (k pruneKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PgUp, k.PgDown, k.Home, k.End},
		{k.Remove, k.Filter, k.Confirm, k.Abort},
	}
}
