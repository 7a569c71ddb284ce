package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/lockrush/internal/input"
	"github.com/vovakirdan/lockrush/internal/state"
)

// KeyMap defines the key bindings for a session.
// This centralizes key bindings and makes them testable.
type KeyMap struct {
	Action      key.Binding
	Leaderboard key.Binding
	Back        key.Binding
	Quit        key.Binding
	Screenshot  key.Binding
	Up          key.Binding
	Down        key.Binding

	// Sign-in form
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
	Cancel    key.Binding

	state state.State
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Action: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "tap"),
		),
		Leaderboard: key.NewBinding(
			key.WithKeys("l", "tab"),
			key.WithHelp("l", "leaderboard"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("S-tab", "prev field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "sign in"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// Resolve maps a key press to a designated session key.
func (k KeyMap) Resolve(msg tea.KeyMsg) input.Key {
	switch {
	case key.Matches(msg, k.Action):
		return input.KeyAction
	case key.Matches(msg, k.Leaderboard):
		return input.KeyLeaderboard
	case key.Matches(msg, k.Back):
		return input.KeyBack
	}
	return input.KeyNone
}

// ForState returns the key map with help tailored to a session state.
func (k KeyMap) ForState(s state.State) KeyMap {
	k.state = s
	return k
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	switch k.state {
	case state.Login:
		return []key.Binding{k.NextField, k.Submit, k.Cancel}
	case state.PreGame:
		return []key.Binding{withHelp(k.Action, "space", "start"), k.Quit}
	case state.Playing:
		return []key.Binding{k.Action, k.Quit}
	case state.GameOver:
		return []key.Binding{withHelp(k.Action, "space", "replay"), k.Leaderboard, k.Screenshot, k.Quit}
	case state.Leaderboard:
		return []key.Binding{k.Up, k.Down, k.Back, k.Quit}
	}
	return []key.Binding{k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func withHelp(b key.Binding, keys, desc string) key.Binding {
	b.SetHelp(keys, desc)
	return b
}
