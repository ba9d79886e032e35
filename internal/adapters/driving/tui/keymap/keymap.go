// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view.
	Back key.Binding

	// Up navigates up in a list or pans the map north.
	Up key.Binding

	// Down navigates down in a list or pans the map south.
	Down key.Binding

	// Left pans the map west or selects the previous category.
	Left key.Binding

	// Right pans the map east or selects the next category.
	Right key.Binding

	// Select confirms a selection.
	Select key.Binding

	// NextPane moves focus between input, list and map.
	NextPane key.Binding

	// Locate runs "use my location".
	Locate key.Binding

	// Refresh re-runs the current listing.
	Refresh key.Binding

	// ZoomIn and ZoomOut change the map scale.
	ZoomIn  key.Binding
	ZoomOut key.Binding

	// Rate submits a 1 to 5 star rating.
	Rate key.Binding

	// Save persists the current form or pin.
	Save key.Binding

	// Find focuses a text search box.
	Find key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		NextPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Locate: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "my location"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "refresh"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "zoom out"),
		),
		Rate: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5"),
			key.WithHelp("1-5", "rate"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Find: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "find place"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Help}
}

// BrowseHelp returns keybindings for the provider list.
func (k *KeyMap) BrowseHelp() []key.Binding {
	return []key.Binding{k.NextPane, k.Select, k.Locate, k.Back}
}

// MapHelp returns keybindings for a focused map.
func (k *KeyMap) MapHelp() []key.Binding {
	return []key.Binding{k.ZoomIn, k.ZoomOut, k.Select, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Select},
		{k.NextPane, k.Locate, k.Refresh, k.ZoomIn, k.ZoomOut},
		{k.Rate, k.Find, k.Save},
		{k.Back, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
