package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit key.Binding
	Back key.Binding

	// Navigation
	Quotation key.Binding
	Preview   key.Binding
	History   key.Binding
	Reports   key.Binding
	Settings  key.Binding

	// Document
	Save         key.Binding
	Export       key.Binding
	NewQuotation key.Binding

	// Actions
	Select   key.Binding
	New      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Zone     key.Binding
	Client   key.Binding
	Language key.Binding
	Toggle   key.Binding
	Search   key.Binding
	Filter   key.Binding
	Rename   key.Binding

	// Movement
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
}

var DefaultKeyMap = KeyMap{
	Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Back:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Quotation:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "quotation")),
	Preview:      key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "preview")),
	History:      key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "history")),
	Reports:      key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "reports")),
	Settings:     key.NewBinding(key.WithKeys("5", ","), key.WithHelp(",", "document")),
	Save:         key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save")),
	Export:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export pdf")),
	NewQuotation: key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "new quotation")),
	Select:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	New:          key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
	Edit:         key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
	Delete:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Zone:         key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "add zone")),
	Client:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "client")),
	Language:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "language")),
	Toggle:       key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	Search:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Filter:       key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "dates")),
	Rename:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
	Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:         key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:        key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
}
