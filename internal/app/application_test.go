package app

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/LeafDesk/internal/gateway"
)

type staticEvents struct {
	events []gateway.CalendarEvent
	err    error
}

func (s staticEvents) CalendarEvents(context.Context) ([]gateway.CalendarEvent, error) {
	return s.events, s.err
}

func TestPrintTasks(t *testing.T) {
	day := time.Date(2025, 6, 12, 8, 0, 0, 0, time.UTC)
	src := staticEvents{events: []gateway.CalendarEvent{
		{ID: "42", Title: "Water tomatoes", Start: day.Add(3 * time.Hour)},
		{ID: "41", Title: "Prune roses", Start: day, AllDay: true, Completed: true},
		{ID: "43", Title: "Next week", Start: day.AddDate(0, 0, 7)},
	}}

	var out bytes.Buffer
	require.NoError(t, printTasks(context.Background(), &out, src, day))

	assert.Equal(t,
		"[x] all day  Prune roses  (id 41)\n"+
			"[ ] 11:00    Water tomatoes  (id 42)\n",
		out.String())
}

func TestPrintTasks_Empty(t *testing.T) {
	day := time.Date(2025, 6, 12, 8, 0, 0, 0, time.UTC)
	var out bytes.Buffer
	require.NoError(t, printTasks(context.Background(), &out, staticEvents{}, day))
	assert.Equal(t, "No tasks for Thu 12 Jun 2025\n", out.String())
}

func TestPrintTasks_FeedError(t *testing.T) {
	err := printTasks(context.Background(), &bytes.Buffer{}, staticEvents{err: errors.New("refused")}, time.Now())
	assert.ErrorContains(t, err, "load tasks: refused")
}
