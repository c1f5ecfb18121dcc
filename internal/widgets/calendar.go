// Package widgets adapts the calendar feed and the admin chart data into
// models the terminal views draw from.
package widgets

import (
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/LeafDesk/internal/bindings"
	"github.com/Rorical/LeafDesk/internal/gateway"
)

// Day groups the events that start on one calendar date.
type Day struct {
	Date   time.Time
	Events []gateway.CalendarEvent
}

// Calendar is a month view over the task feed with a selection cursor.
type Calendar struct {
	events []gateway.CalendarEvent
	month  time.Time
	cursor int
	now    func() time.Time

	// OnEventClick runs when the selected event is activated.
	OnEventClick func(ev gateway.CalendarEvent) tea.Cmd
}

func NewCalendar(now func() time.Time) *Calendar {
	if now == nil {
		now = time.Now
	}
	c := &Calendar{now: now}
	c.Today()
	return c
}

// SetEvents replaces the feed. Events are kept ordered by start time.
func (c *Calendar) SetEvents(events []gateway.CalendarEvent) {
	c.events = append([]gateway.CalendarEvent(nil), events...)
	sort.SliceStable(c.events, func(i, j int) bool {
		return c.events[i].Start.Before(c.events[j].Start)
	})
	c.clampCursor()
}

func (c *Calendar) Events() []gateway.CalendarEvent { return c.events }

// RemoveEvent drops the event with id and reports whether it was present.
func (c *Calendar) RemoveEvent(id string) bool {
	for i := range c.events {
		if c.events[i].ID == id {
			c.events = append(c.events[:i], c.events[i+1:]...)
			c.clampCursor()
			return true
		}
	}
	return false
}

// SetCompleted records a completion change made from another view.
func (c *Calendar) SetCompleted(id string, done bool) {
	for i := range c.events {
		if c.events[i].ID == id {
			c.events[i].Completed = done
			return
		}
	}
}

// Month is the first day of the month on screen.
func (c *Calendar) Month() time.Time { return c.month }

func (c *Calendar) Next() { c.setMonth(c.month.AddDate(0, 1, 0)) }

func (c *Calendar) Prev() { c.setMonth(c.month.AddDate(0, -1, 0)) }

func (c *Calendar) Today() { c.setMonth(c.now()) }

func (c *Calendar) setMonth(t time.Time) {
	c.month = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	c.cursor = 0
}

// Visible returns the events of the month on screen.
func (c *Calendar) Visible() []gateway.CalendarEvent {
	end := c.month.AddDate(0, 1, 0)
	var out []gateway.CalendarEvent
	for _, ev := range c.events {
		if !ev.Start.Before(c.month) && ev.Start.Before(end) {
			out = append(out, ev)
		}
	}
	return out
}

// Days groups the visible events by start date, in order.
func (c *Calendar) Days() []Day {
	var days []Day
	for _, ev := range c.Visible() {
		date := dateOf(ev.Start)
		if n := len(days); n > 0 && days[n-1].Date.Equal(date) {
			days[n-1].Events = append(days[n-1].Events, ev)
			continue
		}
		days = append(days, Day{Date: date, Events: []gateway.CalendarEvent{ev}})
	}
	return days
}

// On returns the events that start on the same date as t.
func (c *Calendar) On(t time.Time) []gateway.CalendarEvent {
	date := dateOf(t)
	var out []gateway.CalendarEvent
	for _, ev := range c.events {
		if dateOf(ev.Start).Equal(date) {
			out = append(out, ev)
		}
	}
	return out
}

// TaskRows lists the tasks due on t's date as dashboard rows.
func (c *Calendar) TaskRows(t time.Time) []bindings.TaskRow {
	events := c.On(t)
	rows := make([]bindings.TaskRow, 0, len(events))
	for _, ev := range events {
		rows = append(rows, bindings.TaskRow{
			ID:        ev.ID,
			Title:     ev.Title,
			Due:       ev.Start,
			AllDay:    ev.AllDay,
			Completed: ev.Completed,
		})
	}
	return rows
}

func (c *Calendar) Cursor() int { return c.cursor }

func (c *Calendar) MoveCursor(delta int) {
	c.cursor += delta
	c.clampCursor()
}

func (c *Calendar) clampCursor() {
	n := len(c.Visible())
	if c.cursor >= n {
		c.cursor = n - 1
	}
	if c.cursor < 0 {
		c.cursor = 0
	}
}

// Selected is the event under the cursor.
func (c *Calendar) Selected() (gateway.CalendarEvent, bool) {
	visible := c.Visible()
	if c.cursor < 0 || c.cursor >= len(visible) {
		return gateway.CalendarEvent{}, false
	}
	return visible[c.cursor], true
}

// Click activates the selected event.
func (c *Calendar) Click() tea.Cmd {
	ev, ok := c.Selected()
	if !ok || c.OnEventClick == nil {
		return nil
	}
	return c.OnEventClick(ev)
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
