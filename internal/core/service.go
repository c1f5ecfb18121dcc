// Package core performs gateway calls off the UI loop and reports each
// outcome back over the event bus.
package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Rorical/LeafDesk/internal/eventbus"
	"github.com/Rorical/LeafDesk/internal/gateway"
	"github.com/Rorical/LeafDesk/internal/widgets"
)

// Gateway is the part of the API client the core drives.
type Gateway interface {
	Do(ctx context.Context, req gateway.Request) (gateway.Result, error)
	CalendarEvents(ctx context.Context) ([]gateway.CalendarEvent, error)
	ChartData(ctx context.Context) (*gateway.ChartData, error)
}

type Service struct {
	gw       Gateway
	state    *State
	eventBus *eventbus.EventBus
	logger   *slog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewService(gw Gateway, eb *eventbus.EventBus, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		gw:       gw,
		state:    NewState(),
		eventBus: eb,
		logger:   logger.With("component", "core"),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start runs the core logic in a goroutine
func (s *Service) Start() {
	s.pushStateToUI()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.eventLoop()
	}()
}

// Stop cancels in-flight calls and waits for their goroutines.
func (s *Service) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Service) State() *State { return s.state }

func (s *Service) eventLoop() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-s.eventBus.UIToCore():
			if !ok {
				return
			}
			s.handleUIEvent(event)
		}
	}
}

func (s *Service) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.ActionRequestEvent:
		s.perform(e.Request)
	case eventbus.LoadEvent:
		s.load(e.Charts)
	}
}

func (s *Service) perform(req gateway.Request) {
	if !s.state.Begin(req) {
		s.logger.Warn("duplicate request ignored", "request_id", req.ID, "endpoint", req.Endpoint)
		return
	}
	s.pushStateToUI()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		res, err := s.gw.Do(s.ctx, req)
		s.resolve(req, res, err)
	}()
}

func (s *Service) resolve(req gateway.Request, res gateway.Result, err error) {
	elapsed, first := s.state.Resolve(req.ID)
	if !first {
		return
	}
	s.logger.Debug("request resolved",
		"request_id", req.ID,
		"endpoint", req.Endpoint,
		"status", res.Status,
		"elapsed", elapsed,
		"transport_error", err != nil,
	)
	if sendErr := s.eventBus.SendToUI(eventbus.ActionResultEvent{ID: req.ID, Result: res, Err: err}); sendErr != nil {
		s.logger.Error("result not delivered", "request_id", req.ID, "err", sendErr)
	}
	s.pushStateToUI()
}

// load fetches the calendar feed and, when asked, the chart data. The two
// run side by side and report independently.
func (s *Service) load(charts bool) {
	s.state.StartLoading()
	s.pushStateToUI()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		var g errgroup.Group
		g.Go(func() error {
			events, err := s.gw.CalendarEvents(s.ctx)
			s.send(eventbus.CalendarLoadedEvent{Events: events, Err: err})
			if err != nil {
				return fmt.Errorf("calendar: %w", err)
			}
			return nil
		})
		if charts {
			g.Go(func() error {
				ch, err := widgets.LoadCharts(s.ctx, s.gw)
				s.send(eventbus.ChartLoadedEvent{Charts: ch, Err: err})
				return err
			})
		}
		err := g.Wait()
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("initial load failed", "err", err)
		}
		s.state.FinishLoading(err)
		s.pushStateToUI()
	}()
}

func (s *Service) send(ev eventbus.CoreEvent) {
	if err := s.eventBus.SendToUI(ev); err != nil {
		s.logger.Error("event not delivered", "event", fmt.Sprintf("%T", ev), "err", err)
	}
}

func (s *Service) pushStateToUI() {
	if err := s.eventBus.SendToUI(eventbus.StateUpdateEvent{
		InFlight: s.state.InFlight(),
		Loading:  s.state.IsLoading(),
		Error:    s.state.GetLastError(),
	}); err != nil {
		s.logger.Warn("state update dropped", "err", err)
	}
}
