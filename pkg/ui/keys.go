package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap is the tree view's key bindings. It implements help.KeyMap.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding

	Expand      key.Binding
	Collapse    key.Binding
	Parent      key.Binding
	Toggle      key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding

	Select      key.Binding
	SelectAdd   key.Binding
	SelectRange key.Binding

	PickUp    key.Binding
	DropInto  key.Binding
	DropAfter key.Binding
	MoveTo    key.Binding
	Paste     key.Binding
	Cancel    key.Binding

	Rename key.Binding
	Add    key.Binding
	Delete key.Binding
	Copy   key.Binding

	Outlines key.Binding
	Reload   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		PageUp:   key.NewBinding(key.WithKeys("ctrl+u", "pgup"), key.WithHelp("ctrl+u", "page up")),
		PageDown: key.NewBinding(key.WithKeys("ctrl+d", "pgdown"), key.WithHelp("ctrl+d", "page down")),
		Top:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),

		Expand:      key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "expand")),
		Collapse:    key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "collapse")),
		Parent:      key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "parent")),
		Toggle:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open/close")),
		ExpandAll:   key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "expand all")),
		CollapseAll: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "collapse all")),

		Select:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		SelectAdd:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "ctrl-select")),
		SelectRange: key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "shift-select")),

		PickUp:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "pick up")),
		DropInto:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "drop into")),
		DropAfter: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "drop after")),
		MoveTo:    key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "move to…")),
		Paste:     key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "paste clipboard")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),

		Rename: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		Add:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new child")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Copy:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy labels")),

		Outlines: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "outlines")),
		Reload:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp is the one-line help shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Select, k.PickUp, k.DropInto, k.Help, k.Quit}
}

// FullHelp groups every binding by column.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Expand, k.Collapse, k.Parent, k.Toggle, k.ExpandAll, k.CollapseAll},
		{k.Select, k.SelectAdd, k.SelectRange, k.PickUp, k.DropInto, k.DropAfter, k.MoveTo, k.Paste},
		{k.Rename, k.Add, k.Delete, k.Copy, k.Outlines, k.Reload, k.Help, k.Quit},
	}
}
