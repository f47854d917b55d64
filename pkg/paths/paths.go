// Package paths walks nested records and addresses their fields with
// dot-separated paths.
//
// Records are whatever a decoder produced: ordered mappings (yaml.MapSlice,
// which keep the key order of the source document), plain Go maps (walked in
// sorted key order), slices and scalars. All functions are pure and never fail
// on missing data; they only fail on malformed input such as an empty path or a
// record nested deeper than MaxDepth.
package paths

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/constants"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/errors"
)

// MaxDepth is the deepest nesting level ExtractPaths and ResolveValue accept.
const MaxDepth = constants.MaxPathDepth

// Separator joins path segments.
const Separator = "."

// ExtractPaths returns the field paths of sample in depth-first order.
//
// Lists contribute the paths of their first element only, empty lists
// contribute nothing, and scalar leaves (nil included) contribute their own
// path. A list at the top level is treated as a list of records.
func ExtractPaths(sample any) ([]string, error) {
	w := &walker{seen: make(map[string]struct{})}
	if err := w.walk(sample, "", 0); err != nil {
		return nil, err
	}
	return w.paths, nil
}

type walker struct {
	paths []string
	seen  map[string]struct{}
}

func (w *walker) add(path string) {
	if path == "" {
		return
	}
	if _, ok := w.seen[path]; ok {
		return
	}
	w.seen[path] = struct{}{}
	w.paths = append(w.paths, path)
}

func (w *walker) walk(value any, parent string, depth int) error {
	if depth > MaxDepth {
		return errors.NewStructuralError(parent, depth, fmt.Sprintf("nesting exceeds %d levels", MaxDepth))
	}

	if entries, ok := mapEntries(value); ok {
		for _, e := range entries {
			if err := w.walk(e.value, join(parent, e.key), depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	if list, ok := value.([]any); ok {
		if len(list) == 0 {
			return nil
		}
		return w.walk(list[0], parent, depth+1)
	}

	w.add(parent)
	return nil
}

// ResolveValue returns the value found at path inside record.
//
// A scalar leaf is returned unchanged. When a list is met along the walk the
// rest of the path is resolved against every element and the results are
// joined with ", ". Missing or nil values resolve to "" and a nested structure
// at the leaf is flattened with FlattenScalar.
func ResolveValue(record any, path string) (any, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.NewStructuralError(path, 0, "empty path")
	}
	return resolve(record, strings.Split(path, Separator), path, 0)
}

func resolve(value any, segments []string, path string, depth int) (any, error) {
	if depth > MaxDepth {
		return nil, errors.NewStructuralError(path, depth, fmt.Sprintf("nesting exceeds %d levels", MaxDepth))
	}
	if value == nil {
		return "", nil
	}

	if list, ok := value.([]any); ok {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			v, err := resolve(item, segments, path, depth+1)
			if err != nil {
				return nil, err
			}
			parts = append(parts, Stringify(v))
		}
		return strings.Join(parts, constants.ListSeparator), nil
	}

	if len(segments) == 0 {
		if _, ok := mapEntries(value); ok {
			return FlattenScalar(value), nil
		}
		return value, nil
	}

	child, ok := lookup(value, segments[0])
	if !ok {
		return "", nil
	}
	return resolve(child, segments[1:], path, depth+1)
}

// FlattenScalar joins the values (not the keys) of a structure with ", ".
// Nil members become empty strings and nested members are flattened in turn.
func FlattenScalar(value any) string {
	return flatten(value, 0)
}

func flatten(value any, depth int) string {
	if depth > MaxDepth {
		return ""
	}
	if entries, ok := mapEntries(value); ok {
		parts := make([]string, 0, len(entries))
		for _, e := range entries {
			parts = append(parts, flatten(e.value, depth+1))
		}
		return strings.Join(parts, constants.ListSeparator)
	}
	if list, ok := value.([]any); ok {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			parts = append(parts, flatten(item, depth+1))
		}
		return strings.Join(parts, constants.ListSeparator)
	}
	return Stringify(value)
}

// Stringify renders a scalar as cell text.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	default:
		if _, ok := mapEntries(value); ok {
			return FlattenScalar(value)
		}
		return fmt.Sprint(v)
	}
}

// SetValue writes value at path inside target, creating intermediate maps.
func SetValue(target map[string]any, path string, value any) error {
	if strings.TrimSpace(path) == "" {
		return errors.NewStructuralError(path, 0, "empty path")
	}
	segments := strings.Split(path, Separator)
	current := target
	for i, segment := range segments[:len(segments)-1] {
		next, exists := current[segment]
		if !exists || next == nil {
			child := make(map[string]any)
			current[segment] = child
			current = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return errors.NewStructuralError(strings.Join(segments[:i+1], Separator), i+1, "intermediate value is not a record")
		}
		current = child
	}
	current[segments[len(segments)-1]] = value
	return nil
}

// Normalize converts ordered and loosely typed maps into map[string]any,
// recursively, so entity constructors see a single representation.
func Normalize(value any) any {
	if entries, ok := mapEntries(value); ok {
		out := make(map[string]any, len(entries))
		for _, e := range entries {
			out[e.key] = Normalize(e.value)
		}
		return out
	}
	if list, ok := value.([]any); ok {
		out := make([]any, len(list))
		for i, item := range list {
			out[i] = Normalize(item)
		}
		return out
	}
	return value
}

// Records splits a source sample into individual records: a list yields its
// elements, a single record yields itself and nil yields nothing.
func Records(sample any) []any {
	switch v := sample.(type) {
	case nil:
		return nil
	case []any:
		return v
	default:
		if _, ok := mapEntries(v); ok {
			return []any{v}
		}
		return nil
	}
}

type entry struct {
	key   string
	value any
}

// mapEntries reports whether value is a record and returns its entries in
// walk order.
func mapEntries(value any) ([]entry, bool) {
	switch m := value.(type) {
	case yaml.MapSlice:
		entries := make([]entry, 0, len(m))
		for _, item := range m {
			entries = append(entries, entry{key: Stringify(item.Key), value: item.Value})
		}
		return entries, true
	case map[string]any:
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		entries := make([]entry, 0, len(m))
		for _, k := range keys {
			entries = append(entries, entry{key: k, value: m[k]})
		}
		return entries, true
	case map[any]any:
		entries := make([]entry, 0, len(m))
		for k, v := range m {
			entries = append(entries, entry{key: Stringify(k), value: v})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
		return entries, true
	}
	return nil, false
}

func lookup(value any, key string) (any, bool) {
	switch m := value.(type) {
	case yaml.MapSlice:
		for _, item := range m {
			if Stringify(item.Key) == key {
				return item.Value, true
			}
		}
	case map[string]any:
		v, ok := m[key]
		return v, ok
	case map[any]any:
		for k, v := range m {
			if Stringify(k) == key {
				return v, true
			}
		}
	}
	return nil, false
}

func join(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + Separator + key
}
