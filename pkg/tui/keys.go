package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines every binding the scope responds to. Satisfies
// help.KeyMap so the help bubble can render it.
type keyMap struct {
	Pause      key.Binding
	Grid       key.Binding
	Scheme     key.Binding
	ZoomIn     key.Binding
	ZoomOut    key.Binding
	ExportJSON key.Binding
	ExportCSV  key.Binding
	Snapshot   key.Binding
	Toggle     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Pause: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space", "pause"),
		),
		Grid: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "grid"),
		),
		Scheme: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "scheme"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "zoom out"),
		),
		ExportJSON: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export json"),
		),
		ExportCSV: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "export csv"),
		),
		Snapshot: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save frame"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "toggle signal"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the single-line help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Grid, k.Toggle, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the expanded help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Grid, k.Scheme, k.Toggle},
		{k.ZoomIn, k.ZoomOut},
		{k.ExportJSON, k.ExportCSV, k.Snapshot},
		{k.Help, k.Quit},
	}
}
