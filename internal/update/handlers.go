package update

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/LeafDesk/internal/bindings"
	"github.com/Rorical/LeafDesk/internal/dialog"
	"github.com/Rorical/LeafDesk/internal/dispatcher"
	"github.com/Rorical/LeafDesk/internal/eventbus"
	"github.com/Rorical/LeafDesk/internal/models"
)

const (
	statusReady   = "Ready"
	statusWorking = "Working"
)

// HandleKeyMsg routes a key to the topmost surface: the dialog, then an
// open form, then the current view.
func HandleKeyMsg(appModel *models.AppModel, keyMsg tea.KeyMsg, d Deps) tea.Cmd {
	k := d.Keys
	if keyMsg.Type == tea.KeyCtrlC {
		return tea.Quit
	}
	if appModel.Dialog.Mode() != dialog.ModeHidden {
		return handleDialogKey(appModel.Dialog, keyMsg, k)
	}
	if appModel.Edit != nil {
		return handleEditKey(appModel, keyMsg, d)
	}
	if appModel.Report.Open {
		return handleReportKey(appModel, keyMsg, d)
	}

	switch {
	case key.Matches(keyMsg, k.Quit):
		return tea.Quit
	case key.Matches(keyMsg, k.NextView):
		appModel.View = appModel.View.Next()
		return nil
	case key.Matches(keyMsg, k.Sidebar):
		appModel.SidebarOpen = !appModel.SidebarOpen
		return nil
	case key.Matches(keyMsg, k.Help):
		appModel.Help.ShowAll = !appModel.Help.ShowAll
		return nil
	case key.Matches(keyMsg, k.Reload):
		if err := d.Dispatcher.Load(appModel.Admin); err != nil {
			d.Logger.Error("reload not dispatched", "err", err)
			appModel.Status = "Could not reload (see log)"
		}
		return nil
	}
	for i, vk := range k.View {
		if key.Matches(keyMsg, vk) {
			appModel.View = models.Views()[i]
			return nil
		}
	}

	switch appModel.View {
	case models.ViewDashboard:
		return handleDashboardKey(appModel, keyMsg, d)
	case models.ViewCalendar:
		return handleCalendarKey(appModel, keyMsg, d)
	case models.ViewDiagnoses:
		return handleDiagnosesKey(appModel, keyMsg, d)
	case models.ViewAdmin:
		return handleAdminKey(appModel, keyMsg, d)
	}
	return nil
}

// Input is ignored while the dialog is closing.
func handleDialogKey(c *dialog.Controller, keyMsg tea.KeyMsg, k KeyMap) tea.Cmd {
	if c.Closing() {
		return nil
	}
	switch {
	case key.Matches(keyMsg, k.Accept):
		return c.ConfirmClicked()
	case key.Matches(keyMsg, k.Select):
		return c.Select()
	case key.Matches(keyMsg, k.Dismiss):
		return c.Cancel()
	case key.Matches(keyMsg, k.Focus):
		c.ToggleFocus()
	}
	return nil
}

func handleDashboardKey(appModel *models.AppModel, keyMsg tea.KeyMsg, d Deps) tea.Cmd {
	k := d.Keys
	switch {
	case key.Matches(keyMsg, k.Up):
		appModel.TaskCursor--
	case key.Matches(keyMsg, k.Down):
		appModel.TaskCursor++
	case key.Matches(keyMsg, k.Toggle):
		row, ok := appModel.SelectedTask()
		if !ok {
			return nil
		}
		return d.Bindings.ToggleTask(appModel.Tasks, row.ID, func(r bindings.TaskRow) {
			appModel.Calendar.SetCompleted(r.ID, r.Completed)
		})
	case key.Matches(keyMsg, k.Delete):
		row, ok := appModel.SelectedTask()
		if !ok {
			return nil
		}
		return d.Bindings.DeleteTask(appModel.Tasks, row.ID, appModel.Calendar.RemoveEvent)
	}
	appModel.ClampCursors()
	return nil
}

func handleCalendarKey(appModel *models.AppModel, keyMsg tea.KeyMsg, d Deps) tea.Cmd {
	k := d.Keys
	cal := appModel.Calendar
	switch {
	case key.Matches(keyMsg, k.Up):
		cal.MoveCursor(-1)
	case key.Matches(keyMsg, k.Down):
		cal.MoveCursor(1)
	case key.Matches(keyMsg, k.PrevMonth):
		cal.Prev()
	case key.Matches(keyMsg, k.NextMonth):
		cal.Next()
	case key.Matches(keyMsg, k.Today):
		cal.Today()
	case key.Matches(keyMsg, k.Open), key.Matches(keyMsg, k.Delete):
		return cal.Click()
	}
	return nil
}

func handleDiagnosesKey(appModel *models.AppModel, keyMsg tea.KeyMsg, d Deps) tea.Cmd {
	k := d.Keys
	switch {
	case key.Matches(keyMsg, k.Up):
		appModel.PanelCursor--
		appModel.ClampCursors()
		return nil
	case key.Matches(keyMsg, k.Down):
		appModel.PanelCursor++
		appModel.ClampCursors()
		return nil
	}

	p := appModel.SelectedPanel()
	if p == nil {
		return nil
	}
	switch {
	case key.Matches(keyMsg, k.ConfirmAccuracy):
		return d.Bindings.ConfirmAccuracy(p)
	case key.Matches(keyMsg, k.Report):
		d.Bindings.OpenReport(appModel.Report, p)
		if appModel.Report.Open {
			appModel.ReportInput.Reset()
			return appModel.ReportInput.Focus()
		}
	case key.Matches(keyMsg, k.FollowUp):
		return d.Bindings.ScheduleFollowUp(p)
	case key.Matches(keyMsg, k.AddSchedule):
		return d.Bindings.AddSchedule(p)
	}
	return nil
}

func handleReportKey(appModel *models.AppModel, keyMsg tea.KeyMsg, d Deps) tea.Cmd {
	k := d.Keys
	switch {
	case key.Matches(keyMsg, k.Back):
		d.Bindings.CloseReport(appModel.Report)
		appModel.ReportInput.Blur()
		return nil
	case key.Matches(keyMsg, k.Submit):
		form := appModel.Report
		return d.Bindings.SubmitReport(form, appModel.PanelByID(form.DiagnosisID), appModel.ReportInput.Value())
	}
	var cmd tea.Cmd
	appModel.ReportInput, cmd = appModel.ReportInput.Update(keyMsg)
	return cmd
}

func handleAdminKey(appModel *models.AppModel, keyMsg tea.KeyMsg, d Deps) tea.Cmd {
	k := d.Keys
	switch {
	case key.Matches(keyMsg, k.Section):
		if appModel.Section == models.SectionUsers {
			appModel.Section = models.SectionLogbook
		} else {
			appModel.Section = models.SectionUsers
		}
		appModel.AdminCursor = 0
	case key.Matches(keyMsg, k.Up):
		appModel.AdminCursor--
	case key.Matches(keyMsg, k.Down):
		appModel.AdminCursor++
	case key.Matches(keyMsg, k.Edit):
		if row, ok := appModel.SelectedUser(); ok && !row.Busy {
			appModel.Edit = models.NewEditForm(row)
		}
	case key.Matches(keyMsg, k.Delete):
		if row, ok := appModel.SelectedUser(); ok {
			return d.Bindings.DeleteUser(appModel.Users, row.ID)
		}
		if entry, ok := appModel.SelectedEntry(); ok {
			return d.Bindings.DeleteLogEntry(appModel.Logbook, entry.ID)
		}
	}
	appModel.ClampCursors()
	return nil
}

func handleEditKey(appModel *models.AppModel, keyMsg tea.KeyMsg, d Deps) tea.Cmd {
	k := d.Keys
	f := appModel.Edit
	switch {
	case key.Matches(keyMsg, k.Back):
		appModel.Edit = nil
		return nil
	case key.Matches(keyMsg, k.Submit):
		appModel.Edit = nil
		return d.Bindings.EditUser(appModel.Users, f.UserID, f.Fields())
	case key.Matches(keyMsg, k.Field):
		if keyMsg.Type == tea.KeyShiftTab || keyMsg.Type == tea.KeyUp {
			f.Move(-1)
		} else {
			f.Move(1)
		}
		return nil
	}
	var cmd tea.Cmd
	f.Inputs[f.Focus], cmd = f.Inputs[f.Focus].Update(keyMsg)
	return cmd
}

// HandleCoreEvent processes events from the core
func HandleCoreEvent(appModel *models.AppModel, coreEventMsg dispatcher.CoreEventMsg, d Deps) tea.Cmd {
	var cmd tea.Cmd
	switch event := coreEventMsg.Event.(type) {
	case eventbus.ActionResultEvent:
		cmd = d.Dispatcher.Resolve(event)
	case eventbus.CalendarLoadedEvent:
		if event.Err != nil {
			d.Logger.Error("calendar feed failed", "err", event.Err)
			appModel.Status = "Could not load calendar (see log)"
			break
		}
		appModel.Calendar.SetEvents(event.Events)
		appModel.RefreshTasks()
	case eventbus.ChartLoadedEvent:
		if event.Err != nil {
			d.Logger.Error("chart data failed", "err", event.Err)
		}
		appModel.Charts = event.Charts
		appModel.ChartsLoaded = event.Err == nil
	case eventbus.StateUpdateEvent:
		appModel.InFlight = event.InFlight
		appModel.Loading = event.Loading
		switch {
		case appModel.Busy():
			appModel.Status = statusWorking
		case appModel.Status == statusWorking:
			appModel.Status = statusReady
		}
	}
	appModel.ClampCursors()
	return cmd
}

type TickMsg time.Time

func TickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func HandleWindowSizeMsg(appModel *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height
	appModel.Help.Width = sizeMsg.Width
}

func HandleTickMsg(appModel *models.AppModel) tea.Cmd {
	// Only handle UI animations - loading dots
	if appModel.Busy() {
		appModel.LoadingDots = (appModel.LoadingDots + 1) % 4
	}
	return TickCmd()
}
