// Package yamlfile keeps the mapping table in a YAML document on disk.
package yamlfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/constants"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/errors"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/mapping"
)

// document is the on-disk layout.
type document struct {
	Mappings []mapping.FieldMapping `yaml:"mappings"`
}

// Table is a mapping.Table backed by a YAML file.
type Table struct {
	mu   sync.Mutex
	path string
}

var (
	_ mapping.Table = (*Table)(nil)
	_ mapping.Named = (*Table)(nil)
)

// New returns a table stored at path. The file is created on the first write.
func New(path string) *Table {
	return &Table{path: path}
}

// Name implements mapping.Named.
func (t *Table) Name() string { return t.path }

// ReadAll implements mapping.Table. A missing file is a missing table.
func (t *Table) ReadAll(ctx context.Context) ([]mapping.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	data, err := os.ReadFile(t.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", t.path, err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapParse("yaml", t.path, err)
	}
	rows := make([]mapping.Row, 0, len(doc.Mappings))
	for _, m := range doc.Mappings {
		rows = append(rows, m.Row())
	}
	return rows, nil
}

// ReplaceAll implements mapping.Table.
func (t *Table) ReplaceAll(ctx context.Context, rows []mapping.Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	doc := document{Mappings: make([]mapping.FieldMapping, len(rows))}
	for i, r := range rows {
		doc.Mappings[i] = mapping.FieldMapping{
			ResourceID:            r[0],
			APIFieldPath:          r[1],
			AutoTransformedHeader: r[2],
			UserDefinedHeader:     r[3],
		}
	}
	data, err := yaml.MarshalWithOptions(doc, yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return fmt.Errorf("marshaling mappings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(t.path), constants.DirPermissions); err != nil {
		return fmt.Errorf("creating mapping directory: %w", err)
	}
	tmp := t.path + ".tmp"
	if err := os.WriteFile(tmp, data, constants.FilePermissions); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	return os.Rename(tmp, t.path)
}
