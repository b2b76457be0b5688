package monitor

import "github.com/charmbracelet/bubbles/key"

// KeyMap is the monitor's fixed key bindings. Panel triggers come from
// configuration and are matched separately.
type KeyMap struct {
	Close      key.Binding
	Finder     key.Binding
	Help       key.Binding
	Copy       key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Up         key.Binding
	Down       key.Binding
	Select     key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close panel"),
		),
		Finder: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "find panel"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy event trace"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("k", "pgup"),
			key.WithHelp("k", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("j", "pgdown"),
			key.WithHelp("j", "scroll down"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "next"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Finder, k.Help, k.Close, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Finder, k.Up, k.Down, k.Select},
		{k.ScrollUp, k.ScrollDown, k.Close},
		{k.Copy, k.Help, k.Quit, k.ForceQuit},
	}
}
