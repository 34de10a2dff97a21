package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextSection key.Binding
	PrevSection key.Binding
	Up          key.Binding
	Down        key.Binding
	PrevDay     key.Binding
	NextDay     key.Binding
	Today       key.Binding
	Edit        key.Binding
	Toggle      key.Binding
	Color       key.Binding
	MoreProg    key.Binding
	LessProg    key.Binding
	Generate    key.Binding
	Reset       key.Binding
	Quit        key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		NextSection: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next section")),
		PrevSection: key.NewBinding(key.WithKeys("shift+tab")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("j/k", "move")),
		Down:        key.NewBinding(key.WithKeys("down", "j")),
		PrevDay:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("h/l", "switch day")),
		NextDay:     key.NewBinding(key.WithKeys("right", "l")),
		Today:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Edit:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		Toggle:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle todo")),
		Color:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cycle color")),
		MoreProg:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "progress")),
		LessProg:    key.NewBinding(key.WithKeys("-")),
		Generate:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "generate plan")),
		Reset:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset sheet")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
