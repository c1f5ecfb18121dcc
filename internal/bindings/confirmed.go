package bindings

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/LeafDesk/internal/dialog"
	"github.com/Rorical/LeafDesk/internal/gateway"
)

const (
	titleConfirmDeletion = "Confirm Deletion"
	textDeleteTask       = "Are you sure you want to delete this task?"
	msgDeleteTaskFailed  = "Could not delete task."
	msgDeleteItemFailed  = "Could not delete item."
)

// RecordKind selects the wording of an admin delete confirmation.
type RecordKind int

const (
	RecordUnknown RecordKind = iota
	RecordLogEntry
	RecordUser
)

func (k RecordKind) confirmText() string {
	switch k {
	case RecordLogEntry:
		return "Are you sure you want to delete this logbook entry? All associated tasks will also be removed."
	case RecordUser:
		return "Are you sure you want to delete this user? All their diagnoses and tasks will be permanently removed."
	default:
		return "Are you sure you want to delete this item?"
	}
}

// EventStore is a view that can drop a task by its identifier.
type EventStore interface {
	RemoveEvent(id string) bool
}

// Mirror removes the same task from another view once deletion succeeded.
type Mirror func(id string) bool

// DeleteTask asks before deleting a dashboard task.
func (b *Bindings) DeleteTask(tasks *List[TaskRow], id string, mirrors ...Mirror) tea.Cmd {
	row := tasks.Find(id)
	if row == nil {
		return nil
	}
	b.confirmTaskDelete(id, row.Title, func() {
		tasks.Remove(id)
		for _, m := range mirrors {
			m(id)
		}
	})
	return nil
}

// DeleteEvent asks before deleting a task shown in the calendar.
func (b *Bindings) DeleteEvent(store EventStore, id, title string, mirrors ...Mirror) tea.Cmd {
	b.confirmTaskDelete(id, title, func() {
		store.RemoveEvent(id)
		for _, m := range mirrors {
			m(id)
		}
	})
	return nil
}

func (b *Bindings) confirmTaskDelete(id, title string, removed func()) {
	b.dialog.Confirm(titleConfirmDeletion, textDeleteTask, strings.TrimSpace(title), func() tea.Cmd {
		return b.submit.Submit(gateway.DeleteTaskRequest(id), func(res gateway.Result, err error) tea.Cmd {
			if err != nil {
				b.transportFailed("delete_task", err)
				return nil
			}
			if !res.OK() {
				b.dialog.Alert("Error", msgDeleteTaskFailed)
				return nil
			}
			removed()
			return nil
		})
	})
}

// DeleteLogEntry asks before deleting a logbook diagnosis and its tasks.
func (b *Bindings) DeleteLogEntry(entries *List[LogEntry], id string) tea.Cmd {
	entry := entries.Find(id)
	if entry == nil {
		return nil
	}
	b.confirmRecordDelete(RecordLogEntry, entry.Title, gateway.DeleteDiagnosisRequest(id), func() {
		entries.Remove(id)
	})
	return nil
}

// DeleteUser asks before deleting a user account and everything it owns.
func (b *Bindings) DeleteUser(users *List[UserRow], id string) tea.Cmd {
	row := users.Find(id)
	if row == nil {
		return nil
	}
	b.confirmRecordDelete(RecordUser, row.Name, gateway.DeleteUserRequest(id), func() {
		users.Remove(id)
	})
	return nil
}

func (b *Bindings) confirmRecordDelete(kind RecordKind, label string, req gateway.Request, removed func()) {
	label = strings.TrimSpace(label)
	if label == "" {
		kind = RecordUnknown
		label = dialog.DefaultSubject
	}
	b.dialog.Confirm(titleConfirmDeletion, kind.confirmText(), label, func() tea.Cmd {
		return b.submit.Submit(req, func(res gateway.Result, err error) tea.Cmd {
			if err != nil {
				b.transportFailed(req.Endpoint, err)
				return nil
			}
			if !res.OK() {
				b.dialog.Alert("Error", msgDeleteItemFailed)
				return nil
			}
			removed()
			return nil
		})
	})
}
