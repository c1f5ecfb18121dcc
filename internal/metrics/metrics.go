package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Gateway outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeApplication = "application"
	OutcomeTransport   = "transport"
)

// NewRegistry returns a registry with the process and Go runtime collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Gateway records outbound API calls.
type Gateway struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

func NewGateway(reg prometheus.Registerer) *Gateway {
	g := &Gateway{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leafdesk",
			Name:      "gateway_requests_total",
			Help:      "Total API calls by method, endpoint, and outcome.",
		}, []string{"method", "endpoint", "outcome"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "leafdesk",
			Name:      "gateway_request_duration_seconds",
			Help:      "API call latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
	}
	if reg != nil {
		reg.MustRegister(g.Requests, g.Duration)
	}
	return g
}

// Observe is safe to call on a nil *Gateway.
func (g *Gateway) Observe(method, endpoint, outcome string, elapsed time.Duration) {
	if g == nil {
		return
	}
	g.Requests.WithLabelValues(method, endpoint, outcome).Inc()
	g.Duration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("metrics listener started", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
