package components

import "github.com/charmbracelet/bubbles/key"

// ResultListKeyMap defines key bindings for moving through results.
// Letters are reserved for typing the query.
type ResultListKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

// DefaultResultListKeyMap returns the default result list key bindings
func DefaultResultListKeyMap() ResultListKeyMap {
	return ResultListKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "page down"),
		),
	}
}

// ResultListKeys is the global instance
var ResultListKeys = DefaultResultListKeyMap()
