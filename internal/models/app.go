package models

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/Rorical/LeafDesk/internal/bindings"
	"github.com/Rorical/LeafDesk/internal/dialog"
	"github.com/Rorical/LeafDesk/internal/widgets"
)

// AppModel represents the UI state. Everything in it is owned by the
// bubbletea loop.
type AppModel struct {
	View        View
	SidebarOpen bool
	Profile     string
	Admin       bool // chart data is only fetched for admin sessions

	Tasks      *bindings.List[bindings.TaskRow]
	TaskCursor int

	Calendar *widgets.Calendar

	Panels      []*bindings.DiagnosisPanel
	PanelCursor int
	Report      *bindings.ReportForm
	ReportInput textinput.Model

	Section     AdminSection
	Users       *bindings.List[bindings.UserRow]
	Logbook     *bindings.List[bindings.LogEntry]
	AdminCursor int
	Edit        *EditForm

	Charts       widgets.Charts
	ChartsLoaded bool

	Dialog *dialog.Controller
	Help   help.Model

	Status      string // Status bar text
	Loading     bool   // Loading state from core
	InFlight    int
	LoadingDots int // Animation counter for loading dots
	Width       int
	Height      int
	Now         func() time.Time
}

// Page is the render-time data a session starts from.
type Page struct {
	Panels  []*bindings.DiagnosisPanel
	Users   *bindings.List[bindings.UserRow]
	Logbook *bindings.List[bindings.LogEntry]
}

func NewAppModel(d *dialog.Controller, p Page, now func() time.Time) *AppModel {
	if now == nil {
		now = time.Now
	}
	if p.Users == nil {
		p.Users = bindings.NewList[bindings.UserRow]()
	}
	if p.Logbook == nil {
		p.Logbook = bindings.NewList[bindings.LogEntry]()
	}

	ri := textinput.New()
	ri.Placeholder = "What was wrong with this diagnosis?"
	ri.CharLimit = 500

	return &AppModel{
		View:        ViewDashboard,
		SidebarOpen: true,
		Tasks:       bindings.NewList[bindings.TaskRow](),
		Calendar:    widgets.NewCalendar(now),
		Panels:      p.Panels,
		Report:      bindings.NewReportForm(),
		ReportInput: ri,
		Users:       p.Users,
		Logbook:     p.Logbook,
		Dialog:      d,
		Help:        help.New(),
		Status:      "Ready",
		Width:       80,
		Height:      24,
		Now:         now,
	}
}

// SelectedPanel is the diagnosis under the cursor.
func (m *AppModel) SelectedPanel() *bindings.DiagnosisPanel {
	if m.PanelCursor < 0 || m.PanelCursor >= len(m.Panels) {
		return nil
	}
	return m.Panels[m.PanelCursor]
}

// PanelByID finds the diagnosis a report form belongs to.
func (m *AppModel) PanelByID(id string) *bindings.DiagnosisPanel {
	for _, p := range m.Panels {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (m *AppModel) SelectedTask() (bindings.TaskRow, bool) {
	items := m.Tasks.Items()
	if m.TaskCursor < 0 || m.TaskCursor >= len(items) {
		return bindings.TaskRow{}, false
	}
	return items[m.TaskCursor], true
}

func (m *AppModel) SelectedUser() (bindings.UserRow, bool) {
	items := m.Users.Items()
	if m.Section != SectionUsers || m.AdminCursor < 0 || m.AdminCursor >= len(items) {
		return bindings.UserRow{}, false
	}
	return items[m.AdminCursor], true
}

func (m *AppModel) SelectedEntry() (bindings.LogEntry, bool) {
	items := m.Logbook.Items()
	if m.Section != SectionLogbook || m.AdminCursor < 0 || m.AdminCursor >= len(items) {
		return bindings.LogEntry{}, false
	}
	return items[m.AdminCursor], true
}

// RefreshTasks rebuilds today's task list from the calendar.
func (m *AppModel) RefreshTasks() {
	m.Tasks.Set(m.Calendar.TaskRows(m.Now()))
	m.ClampCursors()
}

// ClampCursors keeps every cursor inside its list after rows disappear.
func (m *AppModel) ClampCursors() {
	m.TaskCursor = clamp(m.TaskCursor, m.Tasks.Len())
	m.PanelCursor = clamp(m.PanelCursor, len(m.Panels))
	n := m.Users.Len()
	if m.Section == SectionLogbook {
		n = m.Logbook.Len()
	}
	m.AdminCursor = clamp(m.AdminCursor, n)
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// Busy reports whether the status bar should animate.
func (m *AppModel) Busy() bool {
	return m.Loading || m.InFlight > 0
}
