// Package metrics exposes counters describing sync activity.
//
// A nil *Metrics is valid and records nothing, so callers never need to check
// whether metrics were enabled.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sheetsync"

// Outcome labels for runs.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
)

// Metrics holds the sync counters.
type Metrics struct {
	registry *prometheus.Registry

	runs          *prometheus.CounterVec // Resource runs by operation and outcome
	rows          *prometheus.CounterVec // Rows written to or read from the sink
	merges        *prometheus.CounterVec // Mapping store merges
	fieldFailures *prometheus.CounterVec // Cells left empty because a field failed
	schemaChanges *prometheus.CounterVec // Detected schema changes by direction
}

// New creates the counters on a dedicated registry.
func New() (*Metrics, error) {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,

		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resource_runs_total",
			Help:      "Resource sync runs by operation and outcome",
		}, []string{"resource", "operation", "outcome"}),

		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_total",
			Help:      "Rows moved between source, sink and entities",
		}, []string{"resource", "operation"}),

		merges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mapping",
			Name:      "merges_total",
			Help:      "Field path merges into the mapping store",
		}, []string{"resource"}),

		fieldFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "codec",
			Name:      "field_failures_total",
			Help:      "Fields that could not be converted and were left empty",
		}, []string{"resource"}),

		schemaChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mapping",
			Name:      "schema_changes_total",
			Help:      "Field paths added to or removed from a resource schema",
		}, []string{"resource", "direction"}),
	}

	for _, c := range []prometheus.Collector{m.runs, m.rows, m.merges, m.fieldFailures, m.schemaChanges} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Registry returns the registry holding the counters.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// WriteFile writes the current values in the text exposition format, for
// node_exporter's textfile collector.
func (m *Metrics) WriteFile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

// Run counts one resource run.
func (m *Metrics) Run(resource, operation, outcome string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(resource, operation, outcome).Inc()
}

// Rows counts n rows for an operation.
func (m *Metrics) Rows(resource, operation string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.rows.WithLabelValues(resource, operation).Add(float64(n))
}

// Merge counts one mapping store merge.
func (m *Metrics) Merge(resource string) {
	if m == nil {
		return
	}
	m.merges.WithLabelValues(resource).Inc()
}

// FieldFailures counts n failed fields.
func (m *Metrics) FieldFailures(resource string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.fieldFailures.WithLabelValues(resource).Add(float64(n))
}

// SchemaChange counts added and removed field paths.
func (m *Metrics) SchemaChange(resource string, added, removed int) {
	if m == nil {
		return
	}
	if added > 0 {
		m.schemaChanges.WithLabelValues(resource, "added").Add(float64(added))
	}
	if removed > 0 {
		m.schemaChanges.WithLabelValues(resource, "removed").Add(float64(removed))
	}
}
