// Package workbook stores resources and the mapping table in an xlsx file.
//
// Every resource is a sheet whose first row is the header. The mapping table
// lives in its own sheet, _FieldMappings by default, with the mapping.Columns
// header. Changes are saved to disk after every write when the workbook was
// opened from a path.
package workbook

import (
	"context"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/errors"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/logging"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/sink"
)

// placeholderSheet is the sheet excelize creates in a new file. It is left
// in place but not reported by Sheets while it holds no data.
const placeholderSheet = "Sheet1"

// Workbook is an xlsx file used as tabular sink and mapping table.
type Workbook struct {
	mu          sync.Mutex
	path        string
	file        *excelize.File
	placeholder bool
}

var _ sink.Sink = (*Workbook)(nil)

// Open opens the workbook at path, creating a new one when the file does not
// exist. An empty path keeps the workbook in memory.
func Open(path string) (*Workbook, error) {
	if path == "" {
		return New(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		w := New()
		w.path = path
		return w, nil
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.WrapParse("xlsx", path, err)
	}
	return &Workbook{path: path, file: f}, nil
}

// New creates an empty in-memory workbook.
func New() *Workbook {
	return &Workbook{file: excelize.NewFile(), placeholder: true}
}

// Path returns the file the workbook is saved to.
func (w *Workbook) Path() string { return w.path }

// Sheets returns the sheet names in workbook order.
func (w *Workbook) Sheets() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []string
	for _, name := range w.file.GetSheetList() {
		if name == placeholderSheet {
			if rows, err := w.file.GetRows(name); err == nil && len(rows) == 0 {
				continue
			}
		}
		out = append(out, name)
	}
	return out
}

// Save writes the workbook to its path. In-memory workbooks are not saved.
func (w *Workbook) Save() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.save()
}

// SaveAs writes the workbook to path and keeps saving there.
func (w *Workbook) SaveAs(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.path = path
	return w.save()
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

// DeclareColumns implements sink.Sink. Data rows are left untouched and
// header cells past the new width are cleared.
func (w *Workbook) DeclareColumns(ctx context.Context, resourceID string, names []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.ensureSheet(resourceID); err != nil {
		return errors.WrapSink("declare", resourceID, err)
	}

	width := len(names)
	if existing, err := w.file.GetRows(resourceID); err == nil && len(existing) > 0 && len(existing[0]) > width {
		width = len(existing[0])
	}
	header := make([]any, width)
	for i := range header {
		if i < len(names) {
			header[i] = names[i]
		} else {
			header[i] = ""
		}
	}
	if err := w.file.SetSheetRow(resourceID, "A1", &header); err != nil {
		return errors.WrapSink("declare", resourceID, err)
	}

	logging.Ctx(ctx).Debug().
		Str("resource", resourceID).
		Int("columns", len(names)).
		Msg("Declared sheet columns")
	return errors.WrapSink("declare", resourceID, w.save())
}

// ReplaceRows implements sink.Sink.
func (w *Workbook) ReplaceRows(ctx context.Context, resourceID string, rows [][]any, names []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	header := make([]any, len(names))
	for i, n := range names {
		header[i] = n
	}
	if err := w.rewrite(resourceID, header, rows); err != nil {
		return errors.WrapSink("replace", resourceID, err)
	}
	return errors.WrapSink("replace", resourceID, w.save())
}

// ReadAllRows implements sink.Sink. Cells are returned as text and trailing
// blank rows are dropped.
func (w *Workbook) ReadAllRows(ctx context.Context, resourceID string) ([][]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	rows, err := w.readRows(resourceID)
	if err != nil {
		return nil, errors.WrapSink("read", resourceID, err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	out := make([][]any, 0, len(rows)-1)
	for _, r := range rows[1:] {
		cells := make([]any, len(r))
		for i, c := range r {
			cells[i] = c
		}
		out = append(out, cells)
	}
	for len(out) > 0 && blank(out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out, nil
}

// Header returns the first row of a sheet.
func (w *Workbook) Header(sheet string) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	rows, err := w.readRows(sheet)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	header := rows[0]
	for len(header) > 0 && header[len(header)-1] == "" {
		header = header[:len(header)-1]
	}
	return header, nil
}

func (w *Workbook) hasSheet(name string) bool {
	idx, err := w.file.GetSheetIndex(name)
	return err == nil && idx >= 0
}

// readRows returns every row of sheet, nil when the sheet does not exist.
func (w *Workbook) readRows(sheet string) ([][]string, error) {
	if !w.hasSheet(sheet) {
		return nil, nil
	}
	return w.file.GetRows(sheet, excelize.Options{RawCellValue: true})
}

func (w *Workbook) ensureSheet(name string) error {
	if w.hasSheet(name) {
		return nil
	}
	idx, err := w.file.NewSheet(name)
	if err != nil {
		return err
	}
	if w.placeholder && name != placeholderSheet {
		w.file.SetActiveSheet(idx)
	}
	return nil
}

// rewrite replaces the whole content of sheet with header and rows.
func (w *Workbook) rewrite(sheet string, header []any, rows [][]any) error {
	if err := w.ensureSheet(sheet); err != nil {
		return err
	}
	existing, err := w.file.GetRows(sheet)
	if err != nil {
		return err
	}
	for i := len(existing); i >= 1; i-- {
		if err := w.file.RemoveRow(sheet, i); err != nil {
			return err
		}
	}

	if err := w.file.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := append([]any(nil), r...)
		if err := w.file.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

func (w *Workbook) save() error {
	if w.path == "" {
		return nil
	}
	return w.file.SaveAs(w.path)
}

func blank(row []any) bool {
	for _, c := range row {
		if s, ok := c.(string); !ok || s != "" {
			return false
		}
	}
	return true
}
