package metrics

import (
	"context"
	"errors"
	log "log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is nil-safe: every method on a nil *Metrics is a no-op.
type Metrics struct {
	reg *prometheus.Registry

	turns          *prometheus.CounterVec
	actions        *prometheus.CounterVec
	faults         *prometheus.CounterVec
	actionDuration *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		turns: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voxa_turns_total",
				Help: "Dialogue turns by outcome",
			},
			[]string{"outcome"},
		),
		actions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voxa_actions_total",
				Help: "Routed actions by kind",
			},
			[]string{"kind"},
		),
		faults: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voxa_faults_total",
				Help: "Recovered faults by kind",
			},
			[]string{"kind"},
		),
		actionDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "voxa_action_duration_seconds",
				Help:    "Time spent executing an action",
				Buckets: prometheus.ExponentialBuckets(0.01, 4, 7),
			},
			[]string{"kind"},
		),
	}
}

func (m *Metrics) Turn(outcome string) {
	if m == nil {
		return
	}
	m.turns.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Action(kind string, took time.Duration) {
	if m == nil {
		return
	}
	m.actions.WithLabelValues(kind).Inc()
	m.actionDuration.WithLabelValues(kind).Observe(took.Seconds())
}

func (m *Metrics) Fault(kind string) {
	if m == nil {
		return
	}
	m.faults.WithLabelValues(kind).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("Serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
