package controls

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists the viewer bindings. It satisfies help.KeyMap.
type KeyMap struct {
	YawLeft   key.Binding
	YawRight  key.Binding
	PitchUp   key.Binding
	PitchDown key.Binding
	PanLeft   key.Binding
	PanRight  key.Binding
	PanUp     key.Binding
	PanDown   key.Binding
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	Reset     key.Binding
	Classes   key.Binding
	Toggle    key.Binding
	ShowAll   key.Binding
	Help      key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		YawLeft:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←→", "orbit")),
		YawRight:  key.NewBinding(key.WithKeys("right")),
		PitchUp:   key.NewBinding(key.WithKeys("up"), key.WithHelp("↑↓", "tilt")),
		PitchDown: key.NewBinding(key.WithKeys("down")),
		PanLeft:   key.NewBinding(key.WithKeys("a", "shift+left"), key.WithHelp("wasd", "pan")),
		PanRight:  key.NewBinding(key.WithKeys("d", "shift+right")),
		PanUp:     key.NewBinding(key.WithKeys("w", "shift+up")),
		PanDown:   key.NewBinding(key.WithKeys("s", "shift+down")),
		ZoomIn:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "zoom")),
		ZoomOut:   key.NewBinding(key.WithKeys("-", "_")),
		Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset view")),
		Classes:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "classes")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle class")),
		ShowAll:   key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "show all")),
		Help:      key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "help")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.YawLeft, k.PitchUp, k.PanLeft, k.ZoomIn, k.Reset, k.Classes, k.Help}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.YawLeft, k.PitchUp, k.PanLeft, k.ZoomIn, k.Reset},
		{k.Classes, k.Toggle, k.ShowAll, k.Help},
	}
}
