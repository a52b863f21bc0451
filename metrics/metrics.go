// Package metrics exposes Prometheus counters for cleanup runs.
//
// Runs are short-lived batch jobs, so metrics are written to a file in the
// text exposition format for the node_exporter textfile collector instead of
// being scraped.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360studio/groupsheets/processor"
)

const namespace = "groupsheets"

// Metrics holds the per-stage counters of a process.
type Metrics struct {
	registry *prometheus.Registry

	files    *prometheus.CounterVec
	matched  *prometheus.CounterVec
	resolved *prometheus.CounterVec
	added    *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// New creates a metrics set on its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Files processed, by stage and outcome.",
		}, []string{"stage", "outcome"}),
		matched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matched_nodes_total",
			Help:      "Nodes selected by a stage.",
		}, []string{"stage"}),
		resolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolved_identifiers_total",
			Help:      "Group sheets given a canonical identifier.",
		}, []string{"stage"}),
		added: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triples_added_total",
			Help:      "Triples added to graphs.",
		}, []string{"stage"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Files a stage failed on.",
		}, []string{"stage"}),
	}
	m.registry.MustRegister(m.files, m.matched, m.resolved, m.added, m.failures)
	return m
}

// Registry returns the registry holding the counters.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe records one stage result.
func (m *Metrics) Observe(res processor.Result) {
	m.files.WithLabelValues(res.Stage, outcome(res)).Inc()
	m.matched.WithLabelValues(res.Stage).Add(float64(res.Matched))
	m.resolved.WithLabelValues(res.Stage).Add(float64(res.Resolved))
	m.added.WithLabelValues(res.Stage).Add(float64(res.Added))
}

// Failed records a stage failure.
func (m *Metrics) Failed(stage string) {
	m.failures.WithLabelValues(stage).Inc()
}

// WriteTextfile writes all metrics to path in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

func outcome(res processor.Result) string {
	switch {
	case res.Written:
		return "written"
	case res.Skipped:
		return "skipped"
	default:
		return "unchanged"
	}
}
