package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/yourusername/runtara-monitor/internal/nav"
)

// KeyMap defines key bindings
type KeyMap struct {
	Quit        key.Binding
	Back        key.Binding
	NextTab     key.Binding
	PrevTab     key.Binding
	Tab1        key.Binding
	Tab2        key.Binding
	Tab3        key.Binding
	Tab4        key.Binding
	Up          key.Binding
	Down        key.Binding
	Enter       key.Binding
	Checkpoints key.Binding
	Filter      key.Binding
	Granularity key.Binding
	Refresh     key.Binding
	Copy        key.Binding // Copy the selected ID to the clipboard
	Export      key.Binding // Export the visible list
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous tab"),
		),
		Tab1: key.NewBinding(key.WithKeys("1")),
		Tab2: key.NewBinding(key.WithKeys("2")),
		Tab3: key.NewBinding(key.WithKeys("3")),
		Tab4: key.NewBinding(key.WithKeys("4")),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "detail"),
		),
		Checkpoints: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "checkpoints"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter"),
		),
		Granularity: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "granularity"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy id"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export"),
		),
	}
}

// Resolve maps a terminal key event to an abstract navigation key
func (k KeyMap) Resolve(msg tea.KeyMsg) nav.Key {
	bindings := []struct {
		binding key.Binding
		key     nav.Key
	}{
		{k.Quit, nav.KeyQuit},
		{k.Back, nav.KeyBack},
		{k.NextTab, nav.KeyNextTab},
		{k.PrevTab, nav.KeyPrevTab},
		{k.Tab1, nav.KeyTab1},
		{k.Tab2, nav.KeyTab2},
		{k.Tab3, nav.KeyTab3},
		{k.Tab4, nav.KeyTab4},
		{k.Up, nav.KeyUp},
		{k.Down, nav.KeyDown},
		{k.Enter, nav.KeyOpen},
		{k.Checkpoints, nav.KeyCheckpoints},
		{k.Filter, nav.KeyFilter},
		{k.Granularity, nav.KeyGranularity},
		{k.Refresh, nav.KeyRefresh},
		{k.Copy, nav.KeyCopy},
		{k.Export, nav.KeyExport},
	}
	for _, b := range bindings {
		if key.Matches(msg, b.binding) {
			return b.key
		}
	}
	return nav.KeyNone
}
