package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/LeafDesk/internal/dialog"
	"github.com/Rorical/LeafDesk/internal/dispatcher"
	"github.com/Rorical/LeafDesk/internal/models"
	"github.com/Rorical/LeafDesk/internal/update"
	"github.com/Rorical/LeafDesk/ui/components"
)

type AppModel struct {
	appModel   *models.AppModel
	dispatcher *dispatcher.EventDispatcher
	deps       update.Deps
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		update.TickCmd(),
		m.dispatcher.ListenForCoreEvents(),
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle core events and continue listening
	if coreEvent, ok := msg.(dispatcher.CoreEventMsg); ok {
		cmd := update.HandleCoreEvent(m.appModel, coreEvent, m.deps)
		return m, tea.Batch(cmd, m.dispatcher.ListenForCoreEvents())
	}
	return m, update.HandleUpdate(m.appModel, msg, m.deps)
}

func (m *AppModel) View() string {
	am := m.appModel
	width := am.Width
	if am.SidebarOpen {
		width -= 22
	}

	var body string
	switch {
	case am.Edit != nil:
		body = components.RenderEditForm(am.Edit, width)
	case am.Report.Open:
		body = components.RenderReportForm(am.Report, am.PanelByID(am.Report.DiagnosisID), am.ReportInput, width)
	default:
		body = m.viewBody(width)
	}
	if d := components.RenderDialog(am.Dialog, width); d != "" {
		body = d + "\n" + body
	}

	main := lipgloss.JoinVertical(lipgloss.Left, components.RenderTabs(am.View, width), "", body)
	if am.SidebarOpen {
		main = lipgloss.JoinHorizontal(lipgloss.Top, components.RenderSidebar(am.View, am.Profile, am.Height-3), main)
	}

	var b strings.Builder
	b.WriteString(main)
	b.WriteString("\n")
	b.WriteString(am.Help.View(m.deps.Keys.HelpFor(m.helpScreen())))
	b.WriteString("\n")
	b.WriteString(components.RenderStatus(am.Status, am.Profile, am.Busy(), am.LoadingDots, am.Width))
	return b.String()
}

func (m *AppModel) viewBody(width int) string {
	am := m.appModel
	switch am.View {
	case models.ViewCalendar:
		return components.RenderCalendar(am.Calendar)
	case models.ViewDiagnoses:
		return components.RenderDiagnoses(am.Panels, am.PanelCursor, width)
	case models.ViewAdmin:
		return components.RenderAdmin(am, width)
	default:
		return components.RenderTasks(am.Tasks.Items(), am.TaskCursor)
	}
}

func (m *AppModel) helpScreen() string {
	am := m.appModel
	switch {
	case am.Dialog.Mode() != dialog.ModeHidden:
		return "dialog"
	case am.Edit != nil, am.Report.Open:
		return "form"
	}
	return am.View.String()
}
