package output

import (
	"strconv"
	"strings"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/codec"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/entities"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/mapping"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/paths"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/sync"
)

// Mappings lists the field mappings of one resource in column order.
func Mappings(ms []mapping.FieldMapping) Data {
	data := Data{
		Headers:         []string{"#", "Field Path", "Auto Header", "User Header", "Column"},
		ColumnAlignment: []Align{AlignRight, AlignLeft, AlignLeft, AlignLeft, AlignLeft},
	}
	for i, m := range ms {
		data.Rows = append(data.Rows, []string{
			strconv.Itoa(i + 1),
			m.APIFieldPath,
			m.AutoTransformedHeader,
			m.UserDefinedHeader,
			m.EffectiveHeader(),
		})
	}
	return data
}

// Changes lists added and removed field paths.
func Changes(c mapping.Changes) Data {
	data := Data{Headers: []string{"Change", "Field Path"}}
	for _, p := range c.Added {
		data.Rows = append(data.Rows, []string{"added", p})
	}
	for _, p := range c.Removed {
		data.Rows = append(data.Rows, []string{"removed", p})
	}
	return data
}

// Result summarizes a sync run per resource.
func Result(r *sync.Result) Data {
	data := Data{
		Headers:         []string{"Resource", "Status", "Rows", "Columns", "Failed Fields", "Added", "Removed", "Error"},
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignLeft, AlignLeft, AlignLeft},
	}
	for _, res := range r.Resources {
		errText := ""
		if res.Err != nil {
			errText = res.Err.Error()
		}
		data.Rows = append(data.Rows, []string{
			res.ResourceID,
			res.Status(),
			strconv.Itoa(res.Rows),
			strconv.Itoa(res.Columns),
			strconv.Itoa(res.FieldFailures),
			strings.Join(res.Added, ", "),
			strings.Join(res.Removed, ", "),
			errText,
		})
	}
	return data
}

// Entities renders entities the way they appear in the workbook.
func Entities(headers []mapping.FieldMapping, schema codec.Schema, es []entities.Entity) Data {
	data := Data{Headers: mapping.Names(headers)}
	for _, e := range es {
		values := codec.Encode(e.Nested(), headers, schema).Values()
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = paths.Stringify(v)
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

// Kinds lists the registered resources with their fallback field paths.
func Kinds(kinds []entities.Kind) Data {
	data := Data{
		Headers:         []string{"Resource", "Fields", "Fallback Field Paths"},
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignLeft},
	}
	for _, k := range kinds {
		defaults := k.DefaultFieldPaths()
		data.Rows = append(data.Rows, []string{
			k.ResourceID(),
			strconv.Itoa(len(defaults)),
			strings.Join(defaults, ", "),
		})
	}
	return data
}
