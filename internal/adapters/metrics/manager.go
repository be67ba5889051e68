package metrics

import (
	"context"
	"time"

	"github.com/comitanigiacomo/liftbook/internal/core/session"
	"github.com/comitanigiacomo/liftbook/internal/core/workers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests           *prometheus.CounterVec
	CounterSessionEvents      *prometheus.CounterVec
	CounterSummaryRefresh     *prometheus.CounterVec
	CounterHandleRequestPanic prometheus.Counter
	CounterRateLimited        prometheus.Counter

	// gauges
	GaugeRequests prometheus.Gauge

	// histograms
	HistRequestDuration        *prometheus.HistogramVec
	HistSummaryRefreshDuration prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("liftbook", "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("liftbook", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "The total number of handled requests",
		}, []string{"method", "route", "status"}),
		CounterSessionEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "session_events_total",
			Help:      "Sign ups, sign ins and sign outs",
		}, []string{"type"}),
		CounterSummaryRefresh: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "summary_refresh_total",
			Help:      "Dashboard summary recomputations by result",
		}, []string{"result"}),
		CounterHandleRequestPanic: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "handle_request_panic",
			Help:      "The total number of serve request panics",
		}),
		CounterRateLimited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		}),
		GaugeRequests: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "current_requests",
			Help:      "Current number of requests served",
		}),
		HistRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Duration of requests in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"route"}),
		HistSummaryRefreshDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "summary_refresh_duration_seconds",
			Help:      "Duration of a single summary recomputation in seconds",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5},
		}),
	}
}

// WatchSessions counts every session event published on hub.
func (m *Manager) WatchSessions(hub *session.Hub) func() {
	return hub.Subscribe(func(e session.Event) {
		m.CounterSessionEvents.WithLabelValues(string(e.Type)).Inc()
	})
}

// InstrumentRefresher records outcome and duration of every refresh.
func (m *Manager) InstrumentRefresher(next workers.SummaryRefresher) workers.SummaryRefresher {
	return &instrumentedRefresher{next: next, m: m}
}

type instrumentedRefresher struct {
	next workers.SummaryRefresher
	m    *Manager
}

func (r *instrumentedRefresher) RefreshSummary(ctx context.Context, userID string) error {
	start := time.Now()
	err := r.next.RefreshSummary(ctx, userID)
	r.m.HistSummaryRefreshDuration.Observe(time.Since(start).Seconds())

	result := "ok"
	if err != nil {
		result = "error"
	}
	r.m.CounterSummaryRefresh.WithLabelValues(result).Inc()
	return err
}
