package observability

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds the Prometheus counters and gauges for one relay run.
type Metrics struct {
	SourceAttempts    *prometheus.CounterVec // labels: source, outcome={accepted,fetch_error,parse_error,empty_rejected}
	CurrentWarnings   prometheus.Gauge
	Decisions         *prometheus.CounterVec // labels: kind
	NotificationsSent prometheus.Counter
	NotifyFailures    prometheus.Counter
	StateCorruptions  prometheus.Counter
	RunDuration       prometheus.Histogram

	registry *prometheus.Registry
}

// NewMetrics creates all relay metrics on a dedicated registry. A dedicated
// registry keeps the Pushgateway payload free of default Go runtime series.
func NewMetrics() *Metrics {
	m := newMetrics()
	m.registry.MustRegister(
		m.SourceAttempts,
		m.CurrentWarnings,
		m.Decisions,
		m.NotificationsSent,
		m.NotifyFailures,
		m.StateCorruptions,
		m.RunDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering anything, so
// tests can construct them repeatedly without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		SourceAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bom_relay",
			Name:      "source_attempts_total",
			Help:      "Feed source attempts by source name and outcome.",
		}, []string{"source", "outcome"}),
		CurrentWarnings: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bom_relay",
			Name:      "current_warnings",
			Help:      "Number of warnings in the accepted feed result.",
		}),
		Decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bom_relay",
			Name:      "decisions_total",
			Help:      "Deduplication decisions by kind.",
		}, []string{"kind"}),
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bom_relay",
			Name:      "notifications_sent_total",
			Help:      "Webhook messages delivered successfully.",
		}),
		NotifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bom_relay",
			Name:      "notify_failures_total",
			Help:      "Webhook deliveries rejected or failed.",
		}),
		StateCorruptions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bom_relay",
			Name:      "state_corruptions_total",
			Help:      "Unreadable state files treated as empty state.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bom_relay",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-decide-notify run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 40},
		}),
		registry: prometheus.NewRegistry(),
	}
}

// Push sends the run's metrics to a Pushgateway. The relay is a one-shot
// process, so push is the only way its metrics outlive the run. Best effort:
// a push failure is logged and never fails the run.
func (m *Metrics) Push(gatewayURL string, logger *slog.Logger) {
	if gatewayURL == "" {
		return
	}
	err := push.New(gatewayURL, "bom_alert_relay").
		Gatherer(m.registry).
		Push()
	if err != nil {
		logger.Warn("metrics push failed", "gateway", gatewayURL, "error", err)
	}
}
