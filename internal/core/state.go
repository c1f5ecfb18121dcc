package core

import (
	"sync"
	"time"

	"github.com/Rorical/LeafDesk/internal/gateway"
)

type pending struct {
	req     gateway.Request
	started time.Time
}

// State tracks the requests the core is performing. Each request is
// resolved at most once.
type State struct {
	mu        sync.RWMutex
	inFlight  map[string]pending
	loading   int
	lastError error
}

func NewState() *State {
	return &State{inFlight: make(map[string]pending)}
}

// Begin registers req. It reports false when a request with the same ID is
// already in flight.
func (s *State) Begin(req gateway.Request) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.inFlight[req.ID]; dup {
		return false
	}
	s.inFlight[req.ID] = pending{req: req, started: time.Now()}
	return true
}

// Resolve removes id and reports whether this call was the one that
// resolved it.
func (s *State) Resolve(id string) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.inFlight[id]
	if !ok {
		return 0, false
	}
	delete(s.inFlight, id)
	return time.Since(p.started), true
}

func (s *State) InFlight() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.inFlight)
}

func (s *State) StartLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading++
}

func (s *State) FinishLoading(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading > 0 {
		s.loading--
	}
	s.lastError = err
}

func (s *State) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading > 0
}

func (s *State) GetLastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}
