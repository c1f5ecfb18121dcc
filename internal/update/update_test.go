package update

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/LeafDesk/internal/bindings"
	"github.com/Rorical/LeafDesk/internal/dialog"
	"github.com/Rorical/LeafDesk/internal/dispatcher"
	"github.com/Rorical/LeafDesk/internal/eventbus"
	"github.com/Rorical/LeafDesk/internal/gateway"
	"github.com/Rorical/LeafDesk/internal/models"
)

var today = time.Date(2025, 6, 12, 9, 0, 0, 0, time.UTC)

type harness struct {
	t     *testing.T
	model *models.AppModel
	bus   *eventbus.EventBus
	deps  Deps
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	bus := eventbus.NewEventBus()
	t.Cleanup(bus.Close)
	disp := dispatcher.NewEventDispatcher(bus, nil)

	panel := bindings.NewDiagnosisPanel("7", "Tomato", "Early blight")
	m := models.NewAppModel(dialog.New(), models.Page{
		Panels: []*bindings.DiagnosisPanel{panel},
		Users: bindings.NewList(bindings.UserRow{ID: "u1", UserFields: gateway.UserFields{
			Name: "Ada", Email: "ada@example.com", Role: "farmer",
		}}),
		Logbook: bindings.NewList(bindings.LogEntry{ID: "d9", Title: "Pepper / Leaf spot"}),
	}, func() time.Time { return today })
	m.Calendar.SetEvents([]gateway.CalendarEvent{
		{ID: "41", Title: "Prune roses", Start: today, AllDay: true},
		{ID: "42", Title: "Water tomatoes", Start: today.Add(2 * time.Hour)},
	})
	m.RefreshTasks()

	b := bindings.New(m.Dialog, disp, bindings.WithNotifier(func(s string) { m.Status = s }))
	Wire(m, b)
	return &harness{
		t:     t,
		model: m,
		bus:   bus,
		deps:  Deps{Bindings: b, Dispatcher: disp, Keys: DefaultKeyMap(), Logger: discardLogger()},
	}
}

func (h *harness) press(keys ...string) {
	for _, k := range keys {
		HandleUpdate(h.model, keyMsg(k), h.deps)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// sent returns the request the core received.
func (h *harness) sent() gateway.Request {
	h.t.Helper()
	select {
	case ev := <-h.bus.UIToCore():
		req, ok := ev.(eventbus.ActionRequestEvent)
		require.True(h.t, ok, "unexpected event %T", ev)
		return req.Request
	case <-time.After(time.Second):
		h.t.Fatal("no request reached the core")
	}
	return gateway.Request{}
}

func (h *harness) nothingSent() {
	h.t.Helper()
	select {
	case ev := <-h.bus.UIToCore():
		h.t.Fatalf("unexpected event %#v", ev)
	default:
	}
}

func (h *harness) reply(req gateway.Request, res gateway.Result, err error) {
	HandleUpdate(h.model, dispatcher.CoreEventMsg{Event: eventbus.ActionResultEvent{
		ID: req.ID, Result: res, Err: err,
	}}, h.deps)
}

func TestDashboardDelete_ConfirmThenRemove(t *testing.T) {
	h := newHarness(t)
	h.press("down", "d")

	d := h.model.Dialog
	assert.Equal(t, dialog.ModeConfirm, d.Mode())
	assert.Equal(t, `"Water tomatoes"`, d.SubjectLabel())
	h.nothingSent()

	h.press("y")
	req := h.sent()
	assert.Equal(t, "DELETE", req.Method)
	assert.Equal(t, "/api/delete_task/42", req.Path)
	assert.True(t, d.Closing())

	h.reply(req, gateway.Result{Status: "success"}, nil)
	assert.Nil(t, h.model.Tasks.Find("42"))
	assert.Len(t, h.model.Calendar.Events(), 1, "calendar drops the task as well")
}

func TestDashboardDelete_CancelKeepsRow(t *testing.T) {
	h := newHarness(t)
	h.press("d", "esc")

	h.nothingSent()
	assert.True(t, h.model.Dialog.Closing())
	assert.Equal(t, 2, h.model.Tasks.Len())
}

func TestDashboardDelete_FailureAlerts(t *testing.T) {
	h := newHarness(t)
	h.press("d", "y")
	req := h.sent()
	h.model.Dialog.Settle()

	h.reply(req, gateway.Result{Status: "error"}, nil)
	assert.Equal(t, 2, h.model.Tasks.Len())
	assert.Equal(t, dialog.ModeAlert, h.model.Dialog.Mode())
	assert.Equal(t, "Could not delete task.", h.model.Dialog.Body())
}

func TestDialogOwnsKeysWhileOpen(t *testing.T) {
	h := newHarness(t)
	h.press("d")
	require.Equal(t, dialog.ModeConfirm, h.model.Dialog.Mode())

	h.press("2", "q")
	assert.Equal(t, models.ViewDashboard, h.model.View, "view keys do not leak past the dialog")

	h.press("enter")
	h.nothingSent()
	assert.True(t, h.model.Dialog.Closing(), "enter on the cancel button dismisses")
}

func TestCalendarDoubleEnterDoesNotDelete(t *testing.T) {
	h := newHarness(t)
	h.press("2", "enter", "enter")

	h.nothingSent()
	assert.True(t, h.model.Dialog.Closing())
	assert.Len(t, h.model.Calendar.Events(), 2)

	h.model.Dialog.Settle()
	h.press("enter", "tab", "enter")
	req := h.sent()
	assert.Equal(t, "/api/delete_task/41", req.Path)
}

func TestClosingDialogIgnoresInput(t *testing.T) {
	h := newHarness(t)
	h.press("d", "esc")
	require.True(t, h.model.Dialog.Closing())

	h.press("y", "3")
	h.nothingSent()
	assert.Equal(t, models.ViewDashboard, h.model.View)

	HandleUpdate(h.model, dialog.ClosedMsg{Gen: 1}, h.deps)
	assert.Equal(t, dialog.ModeHidden, h.model.Dialog.Mode())
	h.press("3")
	assert.Equal(t, models.ViewDiagnoses, h.model.View)
}

func TestToggleTask_SyncsCalendar(t *testing.T) {
	h := newHarness(t)
	h.press(" ")
	req := h.sent()
	assert.Equal(t, "/api/toggle_task/41", req.Path)

	row := h.model.Tasks.Find("41")
	require.NotNil(t, row)
	assert.True(t, row.Busy)

	done := true
	h.reply(req, gateway.Result{Status: "success", IsCompleted: &done}, nil)
	assert.True(t, h.model.Tasks.Find("41").Completed)
	assert.False(t, h.model.Tasks.Find("41").Busy)
	for _, ev := range h.model.Calendar.Events() {
		if ev.ID == "41" {
			assert.True(t, ev.Completed)
		}
	}
}

func TestToggleTask_TransportFailureNotifies(t *testing.T) {
	h := newHarness(t)
	h.press(" ")
	req := h.sent()

	h.reply(req, gateway.Result{}, &gateway.TransportError{Method: "POST", Path: req.Path, Err: errors.New("refused")})
	assert.False(t, h.model.Tasks.Find("41").Completed)
	assert.False(t, h.model.Tasks.Find("41").Busy)
	assert.Equal(t, dialog.ModeHidden, h.model.Dialog.Mode())
	assert.Equal(t, "Network error (see log)", h.model.Status)
}

func TestCalendarClickDeletesEvent(t *testing.T) {
	h := newHarness(t)
	h.press("2")
	require.Equal(t, models.ViewCalendar, h.model.View)

	h.press("enter")
	require.Equal(t, dialog.ModeConfirm, h.model.Dialog.Mode())
	h.press("y")
	req := h.sent()
	assert.Equal(t, "/api/delete_task/41", req.Path)

	h.reply(req, gateway.Result{Status: "success"}, nil)
	assert.Len(t, h.model.Calendar.Events(), 1)
	assert.Nil(t, h.model.Tasks.Find("41"))
}

func TestReportFlow(t *testing.T) {
	h := newHarness(t)
	h.press("3", "r")
	require.True(t, h.model.Report.Open)

	h.press("enter")
	h.nothingSent()
	assert.Equal(t, "Please provide a reason for your report.", h.model.Dialog.Body())
	h.press("esc")
	h.model.Dialog.Settle()
	require.True(t, h.model.Report.Open, "the form stays open behind the alert")

	h.press("w", "r", "o", "n", "g")
	h.press("enter")
	req := h.sent()
	assert.Equal(t, "/api/report_diagnosis/7", req.Path)

	h.reply(req, gateway.Result{Status: "success", Message: "Thanks"}, nil)
	assert.False(t, h.model.Report.Open)
	p := h.model.PanelByID("7")
	assert.Equal(t, "⚑ Reported", p.Report.Label)
	assert.True(t, p.Report.Disabled)
	assert.True(t, p.Confirm.Disabled)
	assert.Equal(t, "Report Submitted", h.model.Dialog.Title())
}

func TestAdminDeleteUserWording(t *testing.T) {
	h := newHarness(t)
	h.press("4", "d")

	d := h.model.Dialog
	assert.Contains(t, d.Body(), "delete this user")
	h.press("y")
	req := h.sent()
	assert.Equal(t, "/admin/delete_user/u1", req.Path)

	h.reply(req, gateway.Result{Status: "success"}, nil)
	assert.Equal(t, 0, h.model.Users.Len())
}

func TestAdminEditUser(t *testing.T) {
	h := newHarness(t)
	h.press("4", "e")
	require.NotNil(t, h.model.Edit)

	h.press("tab")
	assert.Equal(t, 1, h.model.Edit.Focus)
	h.press("enter")
	assert.Nil(t, h.model.Edit)

	req := h.sent()
	assert.Equal(t, "/admin/update_user/u1", req.Path)
	assert.Equal(t, "ada@example.com", req.Form.Get("email"))
}

func TestCoreEvents(t *testing.T) {
	h := newHarness(t)

	HandleCoreEvent(h.model, dispatcher.CoreEventMsg{Event: eventbus.StateUpdateEvent{Loading: true}}, h.deps)
	assert.Equal(t, statusWorking, h.model.Status)
	HandleCoreEvent(h.model, dispatcher.CoreEventMsg{Event: eventbus.StateUpdateEvent{}}, h.deps)
	assert.Equal(t, statusReady, h.model.Status)

	HandleCoreEvent(h.model, dispatcher.CoreEventMsg{Event: eventbus.CalendarLoadedEvent{
		Events: []gateway.CalendarEvent{{ID: "50", Title: "Spray copper", Start: today, AllDay: true}},
	}}, h.deps)
	require.Equal(t, 1, h.model.Tasks.Len())
	assert.Equal(t, "Spray copper", h.model.Tasks.Items()[0].Title)

	HandleCoreEvent(h.model, dispatcher.CoreEventMsg{Event: eventbus.CalendarLoadedEvent{
		Err: errors.New("boom"),
	}}, h.deps)
	assert.Equal(t, 1, h.model.Tasks.Len(), "a failed reload keeps what is shown")
	assert.Equal(t, "Could not load calendar (see log)", h.model.Status)
}
