// Package metrics exposes Prometheus collectors for connectivity diagnostics
// and registration attempts.
//
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"braces.dev/errtrace"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sipreg"

// Diagnostic stage names.
const (
	StageDNS        = "dns"
	StageTCP        = "tcp"
	StageTraceroute = "traceroute"
	StageServices   = "services"
)

// Registration outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeTimeout = "timeout"
)

type Metrics struct {
	diagnostics     *prometheus.CounterVec
	stageDuration   *prometheus.HistogramVec
	attempts        *prometheus.CounterVec
	outcomes        *prometheus.CounterVec
	pendingAttempts prometheus.Gauge
}

// New creates the collectors and registers them with reg.
// If reg is nil, the collectors are created but not registered.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "diagnostics_total",
			Help:      "Number of SIP connectivity diagnostics by overall result.",
		}, []string{"result"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "diagnostic_stage_duration_seconds",
			Help:      "Duration of SIP connectivity diagnostic stages.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 4, 8),
		}, []string{"stage", "result"}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registration_attempts_total",
			Help:      "Number of registration attempts by transport.",
		}, []string{"transport"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registration_outcomes_total",
			Help:      "Number of terminal registration outcomes.",
		}, []string{"outcome"}),
		pendingAttempts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registration_pending_attempts",
			Help:      "Number of tracked registration attempts awaiting an outcome.",
		}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{
			m.diagnostics,
			m.stageDuration,
			m.attempts,
			m.outcomes,
			m.pendingAttempts,
		} {
			if err := reg.Register(c); err != nil {
				return nil, errtrace.Wrap(err)
			}
		}
	}
	return m, nil
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

// ObserveDiagnostic counts a finished diagnostic run.
func (m *Metrics) ObserveDiagnostic(ok bool) {
	if m == nil {
		return
	}
	m.diagnostics.WithLabelValues(result(ok)).Inc()
}

// ObserveStage records the duration of a diagnostic stage.
func (m *Metrics) ObserveStage(stage string, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage, result(ok)).Observe(d.Seconds())
}

// AttemptStarted counts a new tracked registration attempt.
func (m *Metrics) AttemptStarted(transport string) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(transport).Inc()
	m.pendingAttempts.Inc()
}

// AttemptReleased marks a tracked attempt as no longer pending.
func (m *Metrics) AttemptReleased() {
	if m == nil {
		return
	}
	m.pendingAttempts.Dec()
}

// Outcome counts a terminal registration outcome.
func (m *Metrics) Outcome(outcome string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(outcome).Inc()
}
