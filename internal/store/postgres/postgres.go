// Package postgres keeps the mapping table in a PostgreSQL table.
//
// Rows carry an extra position column so that ReadAll returns them in the
// order they were written, which is the canonical column order of each
// resource.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/constants"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/mapping"
)

var columns = []string{"position", "resource_id", "api_field_path", "auto_transformed_header", "user_defined_header"}

// Table is a mapping.Table stored in PostgreSQL.
type Table struct {
	pool  *pgxpool.Pool
	table pgx.Identifier
	owned bool
}

var (
	_ mapping.Table = (*Table)(nil)
	_ mapping.Named = (*Table)(nil)
)

// Option configures a Table.
type Option func(*Table)

// WithTableName overrides the default field_mappings table.
func WithTableName(name string) Option {
	return func(t *Table) {
		if name != "" {
			t.table = pgx.Identifier{name}
		}
	}
}

// Open connects to dsn and makes sure the table exists.
func Open(ctx context.Context, dsn string, opts ...Option) (*Table, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	t := New(pool, opts...)
	t.owned = true
	if err := t.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return t, nil
}

// New wraps an existing pool. The caller keeps ownership of the pool.
func New(pool *pgxpool.Pool, opts ...Option) *Table {
	t := &Table{pool: pool, table: pgx.Identifier{constants.MappingTableName}}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name implements mapping.Named.
func (t *Table) Name() string { return t.table.Sanitize() }

// EnsureSchema creates the table when it is missing.
func (t *Table) EnsureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
  position integer NOT NULL PRIMARY KEY,
  resource_id text NOT NULL,
  api_field_path text NOT NULL,
  auto_transformed_header text NOT NULL DEFAULT '',
  user_defined_header text NOT NULL DEFAULT ''
);`, t.table.Sanitize())
	if _, err := t.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("creating %s: %w", t.Name(), err)
	}
	return nil
}

// ReadAll implements mapping.Table. An empty table reads as missing.
func (t *Table) ReadAll(ctx context.Context) ([]mapping.Row, error) {
	query := fmt.Sprintf(`SELECT resource_id, api_field_path, auto_transformed_header, user_defined_header
FROM %s ORDER BY position`, t.table.Sanitize())
	rows, err := t.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []mapping.Row
	for rows.Next() {
		var r mapping.Row
		if err := rows.Scan(&r[0], &r[1], &r[2], &r[3]); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ReplaceAll implements mapping.Table in a single transaction.
func (t *Table) ReplaceAll(ctx context.Context, rows []mapping.Row) error {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s", t.table.Sanitize())); err != nil {
		return err
	}

	data := make([][]any, len(rows))
	for i, r := range rows {
		data[i] = []any{i, r[0], r[1], r[2], r[3]}
	}
	if _, err := tx.CopyFrom(ctx, t.table, columns, pgx.CopyFromRows(data)); err != nil {
		return fmt.Errorf("copying mappings: %w", err)
	}
	return tx.Commit(ctx)
}

// Close releases the pool when the table opened it.
func (t *Table) Close() {
	if t.owned {
		t.pool.Close()
	}
}
