package metrics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ghettovoice/sipreg/metrics"
)

func TestMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewPedanticRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		t.Fatalf("metrics.New(reg) error = %v, want nil", err)
	}

	m.ObserveDiagnostic(false)
	m.ObserveDiagnostic(true)
	m.ObserveDiagnostic(false)
	m.ObserveStage(metrics.StageDNS, true, 10*time.Millisecond)
	m.AttemptStarted("udp")
	m.AttemptStarted("tcp")
	m.AttemptReleased()
	m.Outcome(metrics.OutcomeTimeout)

	want := `
# HELP sipreg_diagnostics_total Number of SIP connectivity diagnostics by overall result.
# TYPE sipreg_diagnostics_total counter
sipreg_diagnostics_total{result="failure"} 2
sipreg_diagnostics_total{result="success"} 1
# HELP sipreg_registration_attempts_total Number of registration attempts by transport.
# TYPE sipreg_registration_attempts_total counter
sipreg_registration_attempts_total{transport="tcp"} 1
sipreg_registration_attempts_total{transport="udp"} 1
# HELP sipreg_registration_outcomes_total Number of terminal registration outcomes.
# TYPE sipreg_registration_outcomes_total counter
sipreg_registration_outcomes_total{outcome="timeout"} 1
# HELP sipreg_registration_pending_attempts Number of tracked registration attempts awaiting an outcome.
# TYPE sipreg_registration_pending_attempts gauge
sipreg_registration_pending_attempts 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want),
		"sipreg_diagnostics_total",
		"sipreg_registration_attempts_total",
		"sipreg_registration_outcomes_total",
		"sipreg_registration_pending_attempts",
	); err != nil {
		t.Errorf("unexpected metrics:\n%v", err)
	}

	if n := testutil.CollectAndCount(reg, "sipreg_diagnostic_stage_duration_seconds"); n != 1 {
		t.Errorf("stage duration series = %d, want 1", n)
	}

	if _, err := metrics.New(reg); err == nil {
		t.Error("second metrics.New(reg) error = nil, want duplicate registration error")
	}
}

func TestMetrics_Nil(t *testing.T) {
	t.Parallel()

	var m *metrics.Metrics
	m.ObserveDiagnostic(true)
	m.ObserveStage(metrics.StageTCP, false, time.Second)
	m.AttemptStarted("udp")
	m.AttemptReleased()
	m.Outcome(metrics.OutcomeSuccess)
}
