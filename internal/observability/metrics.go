package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes recorded on profile action metrics.
const (
	OutcomeOK        = "ok"
	OutcomeInvalid   = "invalid"
	OutcomeNotFound  = "not_found"
	OutcomeDuplicate = "duplicate"
	OutcomeError     = "error"
)

// Metrics holds the Prometheus collectors of the profile actions.
type Metrics struct {
	ActionsTotal   *prometheus.CounterVec
	ActionDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors on registry.
// A nil registry leaves them unregistered, which is convenient in tests.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		ActionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "profiles_actions_total",
				Help: "Total number of profile actions by action and outcome",
			},
			[]string{"action", "outcome"},
		),
		ActionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "profiles_action_duration_seconds",
				Help:    "Profile action latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"action"},
		),
	}
	if registry != nil {
		registry.MustRegister(m.ActionsTotal, m.ActionDuration)
	}
	return m
}

// Observe records one action run.
func (m *Metrics) Observe(action, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.ActionsTotal.WithLabelValues(action, outcome).Inc()
	m.ActionDuration.WithLabelValues(action).Observe(time.Since(start).Seconds())
}
