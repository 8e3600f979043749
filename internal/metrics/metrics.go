// Package metrics counts batch outcomes on a private Prometheus registry.
// A CLI run has no scrape endpoint, so the counters are written to a text
// file for the node exporter textfile collector when requested.
package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shapetools"

// Metrics holds the counters for one process.
type Metrics struct {
	Registry *prometheus.Registry

	Features      *prometheus.CounterVec
	CacheHits     prometheus.Counter
	CacheMisses   prometheus.Counter
	BuildDuration *prometheus.HistogramVec
}

// New registers a fresh set of collectors on their own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		Features: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "features_total",
			Help:      "Features handled, by outcome",
		}, []string{"shape", "outcome"}),
		CacheHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Shapes served from the memo cache",
		}),
		CacheMisses: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Shapes generated because the memo cache had no entry",
		}),
		BuildDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "build_duration_seconds",
			Help:      "Time spent generating a single shape",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"shape"}),
	}
}

// Processed records a feature that produced a shape.
func (m *Metrics) Processed(shape string, took time.Duration) {
	if m == nil {
		return
	}
	m.Features.WithLabelValues(shape, "processed").Inc()
	m.BuildDuration.WithLabelValues(shape).Observe(took.Seconds())
}

// Skipped records a feature whose parameters or solve failed.
func (m *Metrics) Skipped(shape string) {
	if m == nil {
		return
	}
	m.Features.WithLabelValues(shape, "skipped").Inc()
}

// CacheHit and CacheMiss satisfy the cache observer hook.
func (m *Metrics) CacheHit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

func (m *Metrics) CacheMiss() {
	if m != nil {
		m.CacheMisses.Inc()
	}
}

// WriteTextfile atomically writes every collector to path.
func (m *Metrics) WriteTextfile(path string) error {
	return errors.Wrapf(prometheus.WriteToTextfile(path, m.Registry), "writing metrics to %s", path)
}
