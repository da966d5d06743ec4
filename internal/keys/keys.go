// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// DashboardKeyMap defines the dashboard keybindings.
type DashboardKeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	// Actions
	Refresh key.Binding
	Drift   key.Binding
	Theme   key.Binding

	// General
	Help      key.Binding
	ToggleLog key.Binding
	Quit      key.Binding
}

// Dashboard holds the default dashboard keybindings.
var Dashboard = DashboardKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "prev category"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "next category"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left", "shift+tab"),
		key.WithHelp("h/←", "prev chart"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right", "tab"),
		key.WithHelp("l/→", "next chart"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Drift: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "drift palette"),
	),
	Theme: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "next theme"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	ToggleLog: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("ctrl+x", "log line"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp returns keybindings for the mini help view.
func (k DashboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Theme, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k DashboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Refresh, k.Drift, k.Theme},
		{k.Help, k.ToggleLog, k.Quit},
	}
}
