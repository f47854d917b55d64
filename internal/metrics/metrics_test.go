package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	m.Run("ORDERS", "push", OutcomeOK)
	m.Run("ORDERS", "push", OutcomeOK)
	m.Run("ORDERS", "push", OutcomeError)
	m.Rows("ORDERS", "push", 12)
	m.Rows("ORDERS", "push", 0)
	m.Merge("ORDERS")
	m.FieldFailures("ORDERS", 3)
	m.SchemaChange("ORDERS", 2, 1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.runs.WithLabelValues("ORDERS", "push", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("ORDERS", "push", OutcomeError)))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.rows.WithLabelValues("ORDERS", "push")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.merges.WithLabelValues("ORDERS")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.fieldFailures.WithLabelValues("ORDERS")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.schemaChanges.WithLabelValues("ORDERS", "added")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.schemaChanges.WithLabelValues("ORDERS", "removed")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.Run("X", "push", OutcomeOK)
	m.Rows("X", "push", 1)
	m.Merge("X")
	m.FieldFailures("X", 1)
	m.SchemaChange("X", 1, 1)
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteFile("ignored.prom"))
}

func TestWriteFile(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	m.Merge("PIES")

	path := filepath.Join(t.TempDir(), "sheetsync.prom")
	require.NoError(t, m.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `sheetsync_mapping_merges_total{resource="PIES"} 1`)
}
