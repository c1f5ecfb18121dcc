package bindings

import (
	"time"

	"github.com/Rorical/LeafDesk/internal/gateway"
)

// Button is a clickable control: what it says and whether it takes input.
type Button struct {
	Label    string
	Disabled bool
}

// Keyed rows can be addressed by their server identifier.
type Keyed interface {
	Key() string
}

// List is an ordered set of rows owned by one view.
type List[T Keyed] struct {
	items []T
}

func NewList[T Keyed](items ...T) *List[T] {
	return &List[T]{items: items}
}

func (l *List[T]) Items() []T { return l.items }

func (l *List[T]) Len() int { return len(l.items) }

func (l *List[T]) Set(items []T) { l.items = items }

// Find returns the row with key, valid until the list is next modified.
func (l *List[T]) Find(key string) *T {
	for i := range l.items {
		if l.items[i].Key() == key {
			return &l.items[i]
		}
	}
	return nil
}

// Remove drops the row with key and reports whether it was present.
func (l *List[T]) Remove(key string) bool {
	for i := range l.items {
		if l.items[i].Key() == key {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// TaskRow is one task on the dashboard.
type TaskRow struct {
	ID        string
	Title     string
	Details   string
	Due       time.Time
	AllDay    bool
	Completed bool
	Busy      bool
}

func (r TaskRow) Key() string { return r.ID }

// LogEntry is one diagnosis in the logbook.
type LogEntry struct {
	ID    string
	Title string
}

func (e LogEntry) Key() string { return e.ID }

// UserRow is one account on the admin users screen.
type UserRow struct {
	ID string
	gateway.UserFields
	Busy bool
}

func (u UserRow) Key() string { return u.ID }

// DiagnosisPanel holds the feedback and scheduling controls of one diagnosis.
type DiagnosisPanel struct {
	ID         string
	Plant      string
	Disease    string
	Suggestion string
	Schedule   []gateway.ScheduleItem

	Confirm     Button
	Report      Button
	FollowUp    Button
	AddSchedule Button
}

func NewDiagnosisPanel(id, plant, disease string) *DiagnosisPanel {
	return &DiagnosisPanel{
		ID:          id,
		Plant:       plant,
		Disease:     disease,
		Confirm:     Button{Label: "Confirm Accuracy"},
		Report:      Button{Label: "Report Inaccuracy"},
		FollowUp:    Button{Label: "Schedule Follow-up"},
		AddSchedule: Button{Label: "Add Schedule to Calendar"},
	}
}

// ReportForm is the inaccuracy report modal.
type ReportForm struct {
	Open        bool
	DiagnosisID string
	Submit      Button
}

func NewReportForm() *ReportForm {
	return &ReportForm{Submit: Button{Label: "Submit Report"}}
}
