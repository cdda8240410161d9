package daemon

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jnylund/vartija/internal/engine"
)

// Metrics tracks lifecycle run outcomes for the daemon's /metrics endpoint.
type Metrics struct {
	registry *prometheus.Registry

	runs     prometheus.Counter
	failures prometheus.Counter
	creates  prometheus.Counter
	deletes  prometheus.Counter
	errors   prometheus.Counter
}

// NewMetrics creates a self-contained metrics set with its own registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		runs: factory.NewCounter(prometheus.CounterOpts{
			Name: "vartija_runs_total",
			Help: "Completed lifecycle runs.",
		}),
		failures: factory.NewCounter(prometheus.CounterOpts{
			Name: "vartija_run_failures_total",
			Help: "Lifecycle runs aborted by a fatal error.",
		}),
		creates: factory.NewCounter(prometheus.CounterOpts{
			Name: "vartija_snapshots_created_total",
			Help: "Snapshots created across all runs.",
		}),
		deletes: factory.NewCounter(prometheus.CounterOpts{
			Name: "vartija_snapshots_deleted_total",
			Help: "Snapshots deleted across all runs.",
		}),
		errors: factory.NewCounter(prometheus.CounterOpts{
			Name: "vartija_snapshot_errors_total",
			Help: "Collected non-fatal errors, mostly failed deletions.",
		}),
	}
}

// Observe records the outcome of one run.
func (m *Metrics) Observe(report *engine.Report, err error) {
	if err != nil {
		m.failures.Inc()
		return
	}
	m.runs.Inc()
	if report == nil {
		return
	}
	m.creates.Add(float64(len(report.Created)))
	m.deletes.Add(float64(len(report.Deleted)))
	m.errors.Add(float64(len(report.Errors)))
}

// Handler serves the metrics registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
