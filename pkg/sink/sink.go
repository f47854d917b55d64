// Package sink defines the tabular destination rows are written to.
package sink

import (
	"context"
	"sync"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/errors"
)

// Sink is a tabular store with one table per resource and a header row.
type Sink interface {
	// DeclareColumns sets the header row of the resource's table, creating it
	// when missing. Data rows are left in place.
	DeclareColumns(ctx context.Context, resourceID string, names []string) error

	// ReplaceRows rewrites the resource's table with names as header followed by rows.
	ReplaceRows(ctx context.Context, resourceID string, rows [][]any, names []string) error

	// ReadAllRows returns the data rows of the resource's table, header excluded.
	// A missing table yields no rows.
	ReadAllRows(ctx context.Context, resourceID string) ([][]any, error)
}

// Memory is an in-memory Sink.
type Memory struct {
	mu      sync.Mutex
	headers map[string][]string
	rows    map[string][][]any

	// FailDeclare, when set, is returned by DeclareColumns.
	FailDeclare error
}

// NewMemory creates an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{
		headers: make(map[string][]string),
		rows:    make(map[string][][]any),
	}
}

// DeclareColumns implements Sink.
func (m *Memory) DeclareColumns(ctx context.Context, resourceID string, names []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailDeclare != nil {
		return errors.WrapSink("declare", resourceID, m.FailDeclare)
	}
	m.headers[resourceID] = append([]string(nil), names...)
	return nil
}

// ReplaceRows implements Sink.
func (m *Memory) ReplaceRows(ctx context.Context, resourceID string, rows [][]any, names []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.headers[resourceID] = append([]string(nil), names...)
	m.rows[resourceID] = copyRows(rows)
	return nil
}

// ReadAllRows implements Sink.
func (m *Memory) ReadAllRows(ctx context.Context, resourceID string) ([][]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyRows(m.rows[resourceID]), nil
}

// Header returns the declared header of resourceID.
func (m *Memory) Header(resourceID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.headers[resourceID]...)
}

// SetRows seeds the data rows of resourceID, as a user editing the sheet would.
func (m *Memory) SetRows(resourceID string, rows [][]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[resourceID] = copyRows(rows)
}

func copyRows(rows [][]any) [][]any {
	if rows == nil {
		return nil
	}
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = append([]any(nil), r...)
	}
	return out
}
