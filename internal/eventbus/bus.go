package eventbus

import (
	"errors"
	"sync"
	"time"

	"github.com/Rorical/LeafDesk/internal/gateway"
	"github.com/Rorical/LeafDesk/internal/widgets"
)

// UIEvent represents events sent from UI to Core
type UIEvent interface {
	UIEvent()
}

// CoreEvent represents events sent from Core to UI
type CoreEvent interface {
	CoreEvent()
}

// ActionRequestEvent - UI asks core to perform one mutating call
type ActionRequestEvent struct {
	Request gateway.Request
}

func (e ActionRequestEvent) UIEvent() {}

// LoadEvent - UI asks core to fetch the calendar feed and, for admins, the chart data
type LoadEvent struct {
	Charts bool
}

func (e LoadEvent) UIEvent() {}

// ActionResultEvent - the single outcome of an ActionRequestEvent
type ActionResultEvent struct {
	ID     string
	Result gateway.Result
	Err    error
}

func (e ActionResultEvent) CoreEvent() {}

type CalendarLoadedEvent struct {
	Events []gateway.CalendarEvent
	Err    error
}

func (e CalendarLoadedEvent) CoreEvent() {}

type ChartLoadedEvent struct {
	Charts widgets.Charts
	Err    error
}

func (e ChartLoadedEvent) CoreEvent() {}

// StateUpdateEvent - Core pushes state changes to UI
type StateUpdateEvent struct {
	InFlight int
	Loading  bool
	Error    error
}

func (e StateUpdateEvent) CoreEvent() {}

// EventBusError represents errors in event processing
type EventBusError struct {
	Operation string
	Err       error
	Timestamp time.Time
}

func (e EventBusError) Error() string {
	return e.Operation + ": " + e.Err.Error()
}

var (
	ErrCircuitOpen = errors.New("circuit breaker is open")
	ErrClosed      = errors.New("event bus is closed")
)

// CircuitBreakerState represents the state of circuit breaker
type CircuitBreakerState int

const (
	CircuitClosed CircuitBreakerState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitBreakerState) String() string {
	switch s {
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// CircuitBreaker implements circuit breaker pattern. Core goroutines and the
// UI loop share it, so every method locks.
type CircuitBreaker struct {
	mu              sync.Mutex
	maxFailures     int
	resetTimeout    time.Duration
	failureCount    int
	lastFailureTime time.Time
	state           CircuitBreakerState
	now             func() time.Time
}

func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        CircuitClosed,
		now:          time.Now,
	}
}

func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == CircuitOpen && cb.now().Sub(cb.lastFailureTime) > cb.resetTimeout {
		cb.state = CircuitHalfOpen
	}
	return cb.state == CircuitOpen
}

func (cb *CircuitBreaker) State() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failureCount = 0
	cb.state = CircuitClosed
}

func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failureCount++
	cb.lastFailureTime = cb.now()

	if cb.failureCount >= cb.maxFailures || cb.state == CircuitHalfOpen {
		cb.state = CircuitOpen
	}
}

// EventBus handles communication between UI and Core with circuit breaker
type EventBus struct {
	mu            sync.RWMutex
	closed        bool
	done          chan struct{}
	closeOnce     sync.Once
	uiToCore      chan UIEvent
	coreToUI      chan CoreEvent
	errorCallback func(EventBusError)

	// Each direction trips its own breaker.
	toCore *CircuitBreaker
	toUI   *CircuitBreaker
}

func NewEventBus() *EventBus {
	return &EventBus{
		uiToCore: make(chan UIEvent, 100),
		coreToUI: make(chan CoreEvent, 100),
		done:     make(chan struct{}),
		toCore:   NewCircuitBreaker(5, 30*time.Second),
		toUI:     NewCircuitBreaker(5, 30*time.Second),
	}
}

func (eb *EventBus) SetErrorCallback(callback func(EventBusError)) {
	eb.errorCallback = callback
}

// reportError tells the callback about err and, when cb is set, counts it
// against that breaker.
func (eb *EventBus) reportError(cb *CircuitBreaker, operation string, err error) {
	if cb != nil {
		cb.RecordFailure()
	}

	if eb.errorCallback != nil {
		eb.errorCallback(EventBusError{
			Operation: operation,
			Err:       err,
			Timestamp: time.Now(),
		})
	}
}

func (eb *EventBus) SendToCore(event UIEvent) error {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	if eb.closed {
		return ErrClosed
	}
	if eb.toCore.IsOpen() {
		eb.reportError(eb.toCore, "SendToCore", ErrCircuitOpen)
		return ErrCircuitOpen
	}

	select {
	case eb.uiToCore <- event:
		eb.toCore.RecordSuccess()
		return nil
	default:
		err := errors.New("UI to Core channel is full")
		eb.reportError(eb.toCore, "SendToCore", err)
		return err
	}
}

// SendToUI blocks on an ActionResultEvent until the UI has room or the bus
// closes. Other events fail fast when the channel is full; a dropped state
// snapshot is superseded by the next one and does not trip the breaker.
func (eb *EventBus) SendToUI(event CoreEvent) error {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	if eb.closed {
		return ErrClosed
	}
	if _, isResult := event.(ActionResultEvent); isResult {
		select {
		case eb.coreToUI <- event:
			return nil
		case <-eb.done:
			return ErrClosed
		}
	}
	if eb.toUI.IsOpen() {
		eb.reportError(eb.toUI, "SendToUI", ErrCircuitOpen)
		return ErrCircuitOpen
	}

	select {
	case eb.coreToUI <- event:
		eb.toUI.RecordSuccess()
		return nil
	default:
		err := errors.New("Core to UI channel is full")
		cb := eb.toUI
		if _, snapshot := event.(StateUpdateEvent); snapshot {
			cb = nil
		}
		eb.reportError(cb, "SendToUI", err)
		return err
	}
}

func (eb *EventBus) UIToCore() <-chan UIEvent {
	return eb.uiToCore
}

func (eb *EventBus) CoreToUI() <-chan CoreEvent {
	return eb.coreToUI
}

// GetCircuitBreakerState reports the breaker guarding user actions.
func (eb *EventBus) GetCircuitBreakerState() CircuitBreakerState {
	return eb.toCore.State()
}

// UIBreakerState reports the breaker guarding core to UI delivery.
func (eb *EventBus) UIBreakerState() CircuitBreakerState {
	return eb.toUI.State()
}

// Close releases blocked senders before closing the channels.
func (eb *EventBus) Close() {
	eb.closeOnce.Do(func() {
		close(eb.done)
		eb.mu.Lock()
		defer eb.mu.Unlock()
		eb.closed = true
		close(eb.uiToCore)
		close(eb.coreToUI)
	})
}
