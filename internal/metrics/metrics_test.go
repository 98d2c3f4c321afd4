package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestRegister(t *testing.T) {
	m := New()
	reg := prometheus.NewRegistry()
	if err := m.Register(reg); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if err := m.Register(reg); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}

func TestCounters(t *testing.T) {
	m := New()
	m.IncCalculation("session", OutcomeOK)
	m.IncCalculation("session", OutcomeOK)
	m.IncCalculation("compute", OutcomeInvalid)
	m.IncRankEdit(OutcomeOK)
	m.IncSessionCreated()

	if got := testutil.ToFloat64(m.calculations.WithLabelValues("session", OutcomeOK)); got != 2 {
		t.Errorf("expected 2 session calculations, got %v", got)
	}
	if got := testutil.ToFloat64(m.calculations.WithLabelValues("compute", OutcomeInvalid)); got != 1 {
		t.Errorf("expected 1 invalid compute, got %v", got)
	}
	if got := testutil.ToFloat64(m.rankEdits.WithLabelValues(OutcomeOK)); got != 1 {
		t.Errorf("expected 1 rank edit, got %v", got)
	}
	if got := testutil.ToFloat64(m.sessionsCreated); got != 1 {
		t.Errorf("expected 1 session, got %v", got)
	}
}

func TestObserveHTTPRequest(t *testing.T) {
	m := New()
	reg := prometheus.NewRegistry()
	if err := m.Register(reg); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	m.ObserveHTTPRequest("GET", "/", 200, 0.002)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() failed: %v", err)
	}
	var hist *dto.MetricFamily
	for _, mf := range families {
		if mf.GetName() == MetricHTTPRequestDuration {
			hist = mf
		}
	}
	if hist == nil {
		t.Fatalf("metric %s not found", MetricHTTPRequestDuration)
	}
	if n := hist.GetMetric()[0].GetHistogram().GetSampleCount(); n != 1 {
		t.Errorf("expected 1 sample, got %d", n)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.IncCalculation("session", OutcomeOK)
	m.IncRankEdit(OutcomeError)
	m.IncSessionCreated()
	m.ObserveHTTPRequest("GET", "/", 200, 0.1)
}
