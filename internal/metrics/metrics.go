// Package metrics defines the Prometheus collectors exported on the metrics port.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	MetricCalculations        = "apportion_calculations_total"
	MetricRankEdits           = "apportion_rank_edits_total"
	MetricSessionsCreated     = "apportion_sessions_created_total"
	MetricHTTPRequestDuration = "apportion_http_request_duration_seconds"
)

// Outcome label values.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Metrics holds the service collectors. All methods are safe for concurrent use and
// on a nil receiver, which records nothing.
type Metrics struct {
	calculations    *prometheus.CounterVec
	rankEdits       *prometheus.CounterVec
	sessionsCreated prometheus.Counter
	httpDuration    *prometheus.HistogramVec
}

// New creates unregistered collectors; call Register before serving them.
func New() *Metrics {
	return &Metrics{
		calculations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricCalculations,
				Help: "Weight calculations by source (session, compute) and outcome",
			},
			[]string{"source", "outcome"},
		),
		rankEdits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRankEdits,
				Help: "Category rank edits by outcome",
			},
			[]string{"outcome"},
		),
		sessionsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: MetricSessionsCreated,
				Help: "Sessions created",
			},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricHTTPRequestDuration,
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"method", "route", "status"},
		),
	}
}

// Register registers every collector with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.calculations, m.rankEdits, m.sessionsCreated, m.httpDuration}
}

func (m *Metrics) IncCalculation(source, outcome string) {
	if m == nil {
		return
	}
	m.calculations.WithLabelValues(source, outcome).Inc()
}

func (m *Metrics) IncRankEdit(outcome string) {
	if m == nil {
		return
	}
	m.rankEdits.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncSessionCreated() {
	if m == nil {
		return
	}
	m.sessionsCreated.Inc()
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(seconds)
}
