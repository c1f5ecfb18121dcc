package update

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every binding the app reacts to.
type KeyMap struct {
	Quit     key.Binding
	NextView key.Binding
	View     [4]key.Binding
	Sidebar  key.Binding
	Reload   key.Binding
	Help     key.Binding

	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Delete key.Binding
	Open   key.Binding

	PrevMonth key.Binding
	NextMonth key.Binding
	Today     key.Binding

	ConfirmAccuracy key.Binding
	Report          key.Binding
	FollowUp        key.Binding
	AddSchedule     key.Binding

	Section key.Binding
	Edit    key.Binding

	Accept  key.Binding
	Dismiss key.Binding
	Select  key.Binding
	Focus   key.Binding
	Submit  key.Binding
	Back    key.Binding
	Field   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		NextView: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		View: [4]key.Binding{
			key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "dashboard")),
			key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "calendar")),
			key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "diagnoses")),
			key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "admin")),
		},
		Sidebar: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "menu")),
		Reload:  key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),

		Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "done/undone")),
		Delete: key.NewBinding(key.WithKeys("d", "x", "delete"), key.WithHelp("d", "delete")),
		Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),

		PrevMonth: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev month")),
		NextMonth: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next month")),
		Today:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),

		ConfirmAccuracy: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "confirm accuracy")),
		Report:          key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "report inaccuracy")),
		FollowUp:        key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "follow-up")),
		AddSchedule:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "add schedule")),

		Section: key.NewBinding(key.WithKeys("left", "right", "h", "l"), key.WithHelp("←/→", "users/logbook")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit user")),

		Accept:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
		Dismiss: key.NewBinding(key.WithKeys("esc", "n"), key.WithHelp("esc", "cancel")),
		Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Focus:   key.NewBinding(key.WithKeys("tab", "left", "right", "h", "l"), key.WithHelp("tab", "switch button")),
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Field:   key.NewBinding(key.WithKeys("tab", "shift+tab", "up", "down"), key.WithHelp("tab", "next field")),
	}
}

// Context is the key set relevant to one screen, shown by the help bar.
type Context struct {
	short []key.Binding
	full  [][]key.Binding
}

func (c Context) ShortHelp() []key.Binding  { return c.short }
func (c Context) FullHelp() [][]key.Binding { return c.full }

// HelpFor returns the bindings that matter on the named screen.
func (k KeyMap) HelpFor(screen string) Context {
	global := []key.Binding{k.NextView, k.Sidebar, k.Reload, k.Help, k.Quit}
	var local []key.Binding
	switch screen {
	case "dialog":
		local = []key.Binding{k.Accept, k.Select, k.Focus, k.Dismiss}
		return Context{short: local, full: [][]key.Binding{local}}
	case "form":
		local = []key.Binding{k.Submit, k.Field, k.Back}
		return Context{short: local, full: [][]key.Binding{local}}
	case "Dashboard":
		local = []key.Binding{k.Up, k.Down, k.Toggle, k.Delete}
	case "Calendar":
		local = []key.Binding{k.Up, k.Down, k.PrevMonth, k.NextMonth, k.Today, k.Open}
	case "Diagnoses":
		local = []key.Binding{k.Up, k.Down, k.ConfirmAccuracy, k.Report, k.FollowUp, k.AddSchedule}
	case "Admin":
		local = []key.Binding{k.Section, k.Up, k.Down, k.Edit, k.Delete}
	}
	return Context{
		short: append(append([]key.Binding{}, local...), k.Help, k.Quit),
		full:  [][]key.Binding{local, global, k.View[:]},
	}
}
