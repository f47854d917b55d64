package mapping

import (
	"context"
	"sync"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/errors"
)

// Table is the persisted two-dimensional store behind a Store.
//
// ReadAll returns data rows only (no header) in storage order and returns
// (nil, nil) when the table does not exist yet. ReplaceAll overwrites the
// whole table in one operation.
type Table interface {
	ReadAll(ctx context.Context) ([]Row, error)
	ReplaceAll(ctx context.Context, rows []Row) error
}

// Named is implemented by tables that can describe themselves in errors.
type Named interface {
	Name() string
}

// MemoryTable is an in-memory Table.
type MemoryTable struct {
	mu     sync.Mutex
	rows   []Row
	exists bool
	reads  int
	writes int

	// FailReads and FailWrites, when set, are returned by the next calls.
	FailReads  error
	FailWrites error
}

// NewMemoryTable returns a table seeded with rows. With no rows the table
// behaves as missing until the first write.
func NewMemoryTable(rows ...Row) *MemoryTable {
	t := &MemoryTable{}
	if len(rows) > 0 {
		t.rows = append([]Row(nil), rows...)
		t.exists = true
	}
	return t
}

// Name implements Named.
func (t *MemoryTable) Name() string { return "memory" }

// ReadAll implements Table.
func (t *MemoryTable) ReadAll(ctx context.Context) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reads++
	if t.FailReads != nil {
		return nil, t.FailReads
	}
	if !t.exists {
		return nil, nil
	}
	return append([]Row(nil), t.rows...), nil
}

// ReplaceAll implements Table.
func (t *MemoryTable) ReplaceAll(ctx context.Context, rows []Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writes++
	if t.FailWrites != nil {
		return t.FailWrites
	}
	t.rows = append([]Row(nil), rows...)
	t.exists = true
	return nil
}

// Rows returns a copy of the stored rows.
func (t *MemoryTable) Rows() []Row {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Row(nil), t.rows...)
}

// Reads returns the number of ReadAll calls.
func (t *MemoryTable) Reads() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reads
}

// Writes returns the number of ReplaceAll calls.
func (t *MemoryTable) Writes() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.writes
}

// ErrTableUnavailable is a convenience error for fault injection.
var ErrTableUnavailable = errors.New("table unavailable")
