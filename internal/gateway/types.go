package gateway

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

// StatusSuccess is the only status value treated as success.
const StatusSuccess = "success"

// Request describes one outbound call. Exactly one of Body or Form is used;
// a non-nil Form makes the call a full-page form submission.
type Request struct {
	ID       string
	Method   string
	Path     string
	Endpoint string // metric label
	Body     any
	Form     url.Values
	Landing  string // page a form post redirects to when it went through
}

// Result is the decoded JSON envelope every mutating endpoint answers with.
type Result struct {
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
	IsCompleted *bool  `json:"is_completed,omitempty"`

	StatusCode int             `json:"-"`
	Raw        json.RawMessage `json:"-"`
}

// OK reports whether the server signalled success.
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

// MessageOr returns the server message, or fallback when none was sent.
func (r Result) MessageOr(fallback string) string {
	if r.Message != "" {
		return r.Message
	}
	return fallback
}

// TransportError means the call itself did not complete.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ScheduleItem is one row of a treatment schedule.
type ScheduleItem struct {
	Date    string `json:"date"`
	Task    string `json:"task"`
	Details string `json:"details"`
}

// CalendarEvent is the calendar feed's native event schema.
type CalendarEvent struct {
	ID     string    `json:"id"`
	Title  string    `json:"title"`
	Start  time.Time `json:"-"`
	AllDay bool      `json:"allDay"`

	// Optional; the feed does not always send completion state.
	Completed bool `json:"-"`
}

type calendarEventWire struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Start         string `json:"start"`
	AllDay        bool   `json:"allDay"`
	ExtendedProps struct {
		IsCompleted bool `json:"is_completed"`
	} `json:"extendedProps"`
}

var startLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (e *CalendarEvent) UnmarshalJSON(data []byte) error {
	var w calendarEventWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	e.ID = w.ID
	e.Title = w.Title
	e.AllDay = w.AllDay
	e.Completed = w.ExtendedProps.IsCompleted
	e.Start = time.Time{}
	if w.Start == "" {
		return nil
	}
	for _, layout := range startLayouts {
		if t, err := time.ParseInLocation(layout, w.Start, time.Local); err == nil {
			e.Start = t
			return nil
		}
	}
	return fmt.Errorf("calendar event %s: unparseable start %q", w.ID, w.Start)
}

// Series is a labelled set of counts.
type Series struct {
	Labels []string `json:"labels"`
	Counts []int    `json:"counts"`
}

// ChartData is the admin feedback summary.
type ChartData struct {
	PieData *Series `json:"pieData"`
	BarData *Series `json:"barData"`
}
