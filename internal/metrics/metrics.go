// Package metrics holds the prometheus collectors for table builds and solver
// queries, and the HTTP handler that exposes them.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Scenario labels.
const (
	ScenarioSolo = "solo"
	ScenarioDuo  = "duo"
)

// Metrics is one set of registered collectors.
type Metrics struct {
	registry *prometheus.Registry

	tableBuildSeconds prometheus.Histogram
	tableCells        prometheus.Gauge
	solveTotal        *prometheus.CounterVec
	bestRelease       *prometheus.GaugeVec
	verifyMismatches  prometheus.Counter
}

// New creates the collectors on a fresh registry, so several applications in
// one process (tests) never collide on registration.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		tableBuildSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "releaseplan_table_build_seconds",
				Help:    "Time taken to fill the dynamic-programming table.",
				Buckets: prometheus.DefBuckets,
			},
		),
		tableCells: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "releaseplan_table_cells",
				Help: "Number of cells in the most recently built table.",
			},
		),
		solveTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "releaseplan_solve_total",
				Help: "Number of solver queries by scenario.",
			},
			[]string{"scenario"},
		),
		bestRelease: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "releaseplan_best_release",
				Help: "Most recent optimum by scenario.",
			},
			[]string{"scenario"},
		),
		verifyMismatches: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "releaseplan_verify_mismatch_total",
				Help: "Number of times the branch-and-bound search disagreed with the table.",
			},
		),
	}

	m.registry.MustRegister(
		m.tableBuildSeconds,
		m.tableCells,
		m.solveTotal,
		m.bestRelease,
		m.verifyMismatches,
	)
	return m
}

// ObserveTable records one table build.
func (m *Metrics) ObserveTable(cells int64, took time.Duration) {
	m.tableBuildSeconds.Observe(took.Seconds())
	m.tableCells.Set(float64(cells))
}

// ObserveSolve records one solver answer.
func (m *Metrics) ObserveSolve(scenario string, value int) {
	m.solveTotal.WithLabelValues(scenario).Inc()
	m.bestRelease.WithLabelValues(scenario).Set(float64(value))
}

// ObserveMismatch records a verification failure.
func (m *Metrics) ObserveMismatch() {
	m.verifyMismatches.Inc()
}

// Gatherer exposes the registry for inspection.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
