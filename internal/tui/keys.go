package tui

import "github.com/charmbracelet/bubbles/key"

// viewerKeyMap defines key bindings for the slide viewer
type viewerKeyMap struct {
	Forward      key.Binding
	Backward     key.Binding
	Run          key.Binding
	Toggle       key.Binding
	IntervalUp   key.Binding
	IntervalDown key.Binding
	Select       key.Binding
	ScrollUp     key.Binding
	ScrollDown   key.Binding
	TermUp       key.Binding
	TermDown     key.Binding
	Help         key.Binding
	Quit         key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k viewerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Backward, k.Forward, k.Run, k.Toggle, k.Select, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k viewerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Forward, k.Backward, k.Select},
		{k.Run, k.Toggle, k.IntervalUp, k.IntervalDown},
		{k.ScrollUp, k.ScrollDown, k.TermUp, k.TermDown},
		{k.Help, k.Quit},
	}
}

func newViewerKeyMap() viewerKeyMap {
	return viewerKeyMap{
		Forward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next"),
		),
		Backward: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "back"),
		),
		Run: key.NewBinding(
			key.WithKeys("r", "enter"),
			key.WithHelp("r", "run command"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "auto-refresh"),
		),
		IntervalUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "slower refresh"),
		),
		IntervalDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "faster refresh"),
		),
		Select: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "go to slide"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll slide"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll slide"),
		),
		TermUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll terminal"),
		),
		TermDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll terminal"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// selectorKeyMap defines key bindings while the page selector is open
type selectorKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k selectorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k selectorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Confirm, k.Cancel}}
}

func newSelectorKeyMap() selectorKeyMap {
	return selectorKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "go"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "cancel"),
		),
	}
}
