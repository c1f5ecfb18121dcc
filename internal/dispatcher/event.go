package dispatcher

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/Rorical/LeafDesk/internal/bindings"
	"github.com/Rorical/LeafDesk/internal/eventbus"
	"github.com/Rorical/LeafDesk/internal/gateway"
)

// CoreEventMsg wraps core events for Bubble Tea
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

// EventDispatcher routes requests from the bindings to the core and hands
// each result back to the binding that asked. It lives on the UI loop.
type EventDispatcher struct {
	eventBus *eventbus.EventBus
	pending  map[string]bindings.Outcome
	logger   *slog.Logger
}

func NewEventDispatcher(eventBus *eventbus.EventBus, logger *slog.Logger) *EventDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventDispatcher{
		eventBus: eventBus,
		pending:  make(map[string]bindings.Outcome),
		logger:   logger.With("component", "dispatcher"),
	}
}

// Submit sends req to the core and keeps done until its result arrives.
// A request the bus refuses resolves at once as a transport failure.
func (ed *EventDispatcher) Submit(req gateway.Request, done bindings.Outcome) tea.Cmd {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if err := ed.eventBus.SendToCore(eventbus.ActionRequestEvent{Request: req}); err != nil {
		return done(gateway.Result{}, &gateway.TransportError{
			Method: req.Method,
			Path:   req.Path,
			Err:    fmt.Errorf("dispatch: %w", err),
		})
	}
	ed.pending[req.ID] = done
	return nil
}

// Resolve runs the outcome handler registered for ev, once.
func (ed *EventDispatcher) Resolve(ev eventbus.ActionResultEvent) tea.Cmd {
	done, ok := ed.pending[ev.ID]
	if !ok {
		ed.logger.Warn("result for unknown request", "request_id", ev.ID)
		return nil
	}
	delete(ed.pending, ev.ID)
	return done(ev.Result, ev.Err)
}

func (ed *EventDispatcher) Pending() int { return len(ed.pending) }

// Load asks the core for the calendar feed and, if charts is set, the
// admin chart data.
func (ed *EventDispatcher) Load(charts bool) error {
	return ed.eventBus.SendToCore(eventbus.LoadEvent{Charts: charts})
}

// ListenForCoreEvents waits for the next core event.
func (ed *EventDispatcher) ListenForCoreEvents() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ed.eventBus.CoreToUI()
		if !ok {
			return nil
		}
		return CoreEventMsg{Event: ev}
	}
}

func (ed *EventDispatcher) GetEventBus() *eventbus.EventBus {
	return ed.eventBus
}
