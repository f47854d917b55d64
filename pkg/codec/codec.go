// Package codec converts nested records to spreadsheet rows and back using a
// resource's effective header set.
//
// Encoding never aborts a row: each cell carries its own FieldResult and a
// failed field becomes an empty cell. Decoding is lenient in the same way;
// invariants are enforced by the entity constructors afterwards.
package codec

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/utc"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/constants"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/errors"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/mapping"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/paths"
)

// FieldKind selects how a field is formatted in a cell.
type FieldKind int

const (
	// KindText cells hold the value's canonical text.
	KindText FieldKind = iota
	// KindNumber cells hold a float64.
	KindNumber
	// KindRatio cells hold a percentage such as "15.50%".
	KindRatio
	// KindTimestamp cells hold a UTC "2006-01-02 15:04:05" timestamp.
	KindTimestamp
)

// String returns the kind name.
func (k FieldKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindRatio:
		return "ratio"
	case KindTimestamp:
		return "timestamp"
	default:
		return "text"
	}
}

// Schema maps field paths to their kind. Paths not listed are text.
type Schema map[string]FieldKind

// Kind returns the kind of path.
func (s Schema) Kind(path string) FieldKind {
	if k, ok := s[path]; ok {
		return k
	}
	return KindText
}

// FieldResult is the outcome of encoding or decoding one field.
type FieldResult struct {
	Path  string
	Value any
	Err   error
}

// OK reports whether the field was converted.
func (r FieldResult) OK() bool { return r.Err == nil }

// EncodedRow is one encoded record, one FieldResult per header.
type EncodedRow []FieldResult

// Values returns the cells of the row, with "" for failed fields.
func (r EncodedRow) Values() []any {
	out := make([]any, len(r))
	for i, f := range r {
		if f.Err != nil {
			out[i] = ""
			continue
		}
		out[i] = f.Value
	}
	return out
}

// Failures returns the fields that could not be encoded.
func (r EncodedRow) Failures() []FieldResult {
	var out []FieldResult
	for _, f := range r {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// Encode resolves every header's path in nested and formats it for a cell.
func Encode(nested any, headers []mapping.FieldMapping, schema Schema) EncodedRow {
	row := make(EncodedRow, len(headers))
	for i, h := range headers {
		row[i] = encodeField(nested, h.APIFieldPath, schema.Kind(h.APIFieldPath))
	}
	return row
}

func encodeField(nested any, path string, kind FieldKind) FieldResult {
	raw, err := paths.ResolveValue(nested, path)
	if err != nil {
		return FieldResult{Path: path, Err: err}
	}
	value, err := format(raw, kind)
	if err != nil {
		return FieldResult{Path: path, Err: errors.NewValidationError("", path, raw, err.Error())}
	}
	return FieldResult{Path: path, Value: value}
}

func format(raw any, kind FieldKind) (any, error) {
	if isBlank(raw) {
		return "", nil
	}
	switch kind {
	case KindTimestamp:
		t, err := toTime(raw)
		if err != nil {
			return nil, err
		}
		return t.UTC().Format(constants.TimestampLayout), nil
	case KindRatio:
		f, err := toFloat(raw)
		if err != nil {
			return nil, err
		}
		return fmt.Sprintf("%.2f%%", f*100), nil
	case KindNumber:
		return toFloat(raw)
	default:
		switch raw.(type) {
		case string, bool, float64,
			int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64:
			// Integers stay integers so IDs above 2^53 keep every digit.
			return raw, nil
		}
		if f, ok := numeric(raw); ok {
			return f, nil
		}
		return paths.Stringify(raw), nil
	}
}

// Decode writes row[i] into the nested position of headers[i].APIFieldPath.
// Rows shorter than the header set are padded with nil and extra cells are
// ignored. Number and ratio cells that do not parse decode to nil and are
// reported in the returned results.
func Decode(row []any, headers []mapping.FieldMapping, schema Schema) (map[string]any, []FieldResult) {
	out := make(map[string]any, len(headers))
	results := make([]FieldResult, len(headers))
	for i, h := range headers {
		var cell any
		if i < len(row) {
			cell = row[i]
		}
		value, err := parse(cell, schema.Kind(h.APIFieldPath))
		if err != nil {
			err = errors.NewValidationError("", h.APIFieldPath, cell, err.Error())
			value = nil
		}
		if setErr := paths.SetValue(out, h.APIFieldPath, value); setErr != nil && err == nil {
			err = setErr
		}
		results[i] = FieldResult{Path: h.APIFieldPath, Value: value, Err: err}
	}
	return out, results
}

func parse(cell any, kind FieldKind) (any, error) {
	if isBlank(cell) {
		return nil, nil
	}
	switch kind {
	case KindNumber, KindRatio:
		if s, ok := cell.(string); ok {
			s = strings.TrimSpace(s)
			if strings.HasSuffix(s, "%") {
				f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "%")), 64)
				if err != nil {
					return nil, fmt.Errorf("not a percentage: %q", s)
				}
				return f / 100, nil
			}
		}
		return toFloat(cell)
	case KindTimestamp:
		if t, ok := cell.(time.Time); ok {
			return t.UTC().Format(time.RFC3339), nil
		}
		s := strings.TrimSpace(paths.Stringify(cell))
		t, err := parseTime(s)
		if err != nil {
			return s, nil
		}
		return t.Format(time.RFC3339), nil
	default:
		if s, ok := cell.(string); ok {
			return s, nil
		}
		return cell, nil
	}
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	}
	return 0, false
}

func toFloat(v any) (float64, error) {
	if f, ok := numeric(v); ok {
		return f, nil
	}
	s := strings.TrimSpace(paths.Stringify(v))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return f, nil
}

func toTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case utc.Time:
		return t.Time, nil
	case *utc.Time:
		if t == nil {
			return time.Time{}, fmt.Errorf("nil timestamp")
		}
		return t.Time, nil
	}
	return parseTime(strings.TrimSpace(paths.Stringify(v)))
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	constants.TimestampLayout,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("not a timestamp: %q", s)
}
