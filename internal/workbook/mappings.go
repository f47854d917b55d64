package workbook

import (
	"context"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/constants"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/mapping"
)

// MappingSheet is a mapping.Table stored in a sheet of the workbook.
type MappingSheet struct {
	wb    *Workbook
	sheet string
}

var (
	_ mapping.Table = (*MappingSheet)(nil)
	_ mapping.Named = (*MappingSheet)(nil)
)

// MappingSheet returns the mapping table stored in the default mapping sheet.
func (w *Workbook) MappingSheet() *MappingSheet {
	return w.MappingSheetNamed(constants.MappingSheetName)
}

// MappingSheetNamed returns the mapping table stored in sheet.
func (w *Workbook) MappingSheetNamed(sheet string) *MappingSheet {
	return &MappingSheet{wb: w, sheet: sheet}
}

// Name implements mapping.Named.
func (m *MappingSheet) Name() string { return m.sheet }

// ReadAll implements mapping.Table. Short rows are padded and blank rows skipped.
func (m *MappingSheet) ReadAll(ctx context.Context) ([]mapping.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.wb.mu.Lock()
	defer m.wb.mu.Unlock()

	rows, err := m.wb.readRows(m.sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	out := make([]mapping.Row, 0, len(rows)-1)
	for _, r := range rows[1:] {
		var row mapping.Row
		empty := true
		for i := 0; i < len(row) && i < len(r); i++ {
			row[i] = r[i]
			if r[i] != "" {
				empty = false
			}
		}
		if !empty {
			out = append(out, row)
		}
	}
	return out, nil
}

// ReplaceAll implements mapping.Table.
func (m *MappingSheet) ReplaceAll(ctx context.Context, rows []mapping.Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.wb.mu.Lock()
	defer m.wb.mu.Unlock()

	header := make([]any, len(mapping.Columns))
	for i, c := range mapping.Columns {
		header[i] = c
	}
	data := make([][]any, len(rows))
	for i, r := range rows {
		data[i] = []any{r[0], r[1], r[2], r[3]}
	}
	if err := m.wb.rewrite(m.sheet, header, data); err != nil {
		return err
	}
	return m.wb.save()
}
