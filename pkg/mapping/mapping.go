// Package mapping persists the per-resource association between field paths
// and the column names shown to users.
//
// A mapping table is shared by every resource. Each row links a resource and
// an API field path to the automatically derived header and an optional
// header chosen by the user. The order of a resource's rows is its canonical
// column order.
package mapping

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Columns are the header cells of every persisted mapping table, in order.
var Columns = []string{"resourceId", "apiFieldPath", "autoTransformedHeader", "userDefinedHeader"}

// Row is one persisted mapping record laid out as Columns.
type Row [4]string

// FieldMapping links one field path of a resource to its display names.
type FieldMapping struct {
	ResourceID            string `json:"resourceId" yaml:"resourceId"`
	APIFieldPath          string `json:"apiFieldPath" yaml:"apiFieldPath"`
	AutoTransformedHeader string `json:"autoTransformedHeader" yaml:"autoTransformedHeader"`
	UserDefinedHeader     string `json:"userDefinedHeader,omitempty" yaml:"userDefinedHeader,omitempty"`
}

// EffectiveHeader returns the user header when set, the automatic one otherwise.
func (m FieldMapping) EffectiveHeader() string {
	return EffectiveName(m)
}

// HasOverride reports whether the user renamed the column.
func (m FieldMapping) HasOverride() bool {
	return strings.TrimSpace(m.UserDefinedHeader) != ""
}

// Row converts the mapping into its persisted layout.
func (m FieldMapping) Row() Row {
	return Row{m.ResourceID, m.APIFieldPath, m.AutoTransformedHeader, m.UserDefinedHeader}
}

// FromRow reads a persisted row. Cells are trimmed except the user header,
// which is kept verbatim so that a round trip does not rewrite user input.
func FromRow(r Row) FieldMapping {
	return FieldMapping{
		ResourceID:            strings.TrimSpace(r[0]),
		APIFieldPath:          strings.TrimSpace(r[1]),
		AutoTransformedHeader: strings.TrimSpace(r[2]),
		UserDefinedHeader:     r[3],
	}
}

// NewMapping returns a fresh mapping for path with its automatic header.
func NewMapping(resourceID, path string) FieldMapping {
	return FieldMapping{
		ResourceID:            resourceID,
		APIFieldPath:          path,
		AutoTransformedHeader: TransformName(path),
	}
}

// EffectiveName returns the trimmed user header if non-empty, else the auto header.
func EffectiveName(m FieldMapping) string {
	if user := strings.TrimSpace(m.UserDefinedHeader); user != "" {
		return user
	}
	return m.AutoTransformedHeader
}

// Names returns the effective header of each mapping, in order.
func Names(mappings []FieldMapping) []string {
	names := make([]string, len(mappings))
	for i, m := range mappings {
		names[i] = EffectiveName(m)
	}
	return names
}

// FieldPaths returns the field path of each mapping, in order.
func FieldPaths(mappings []FieldMapping) []string {
	out := make([]string, len(mappings))
	for i, m := range mappings {
		out[i] = m.APIFieldPath
	}
	return out
}

// TransformName derives a display name from a field path:
// "amount.value" becomes "Amount Value" and "order_id" becomes "Order Id".
func TransformName(path string) string {
	replaced := strings.NewReplacer("_", " ", ".", " ").Replace(path)
	tokens := strings.Fields(replaced)
	upper := cases.Upper(language.Und)
	lower := cases.Lower(language.Und)
	for i, token := range tokens {
		_, size := utf8.DecodeRuneInString(token)
		tokens[i] = upper.String(token[:size]) + lower.String(token[size:])
	}
	return strings.Join(tokens, " ")
}
