package codec

import (
	"strings"
	"time"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/paths"
)

// Input gives typed access to a decoded nested record.
type Input map[string]any

// Get returns the raw value at path, nil when absent.
func (in Input) Get(path string) any {
	var current any = map[string]any(in)
	for _, segment := range strings.Split(path, paths.Separator) {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = m[segment]
	}
	return current
}

// Has reports whether path holds a non-blank value.
func (in Input) Has(path string) bool {
	return !isBlank(in.Get(path))
}

// String returns the trimmed text at path.
func (in Input) String(path string) string {
	return strings.TrimSpace(paths.Stringify(in.Get(path)))
}

// Float returns the number at path, reading "12.5%" as 0.125. ok is false
// when the value is blank or not numeric.
func (in Input) Float(path string) (value float64, ok bool) {
	v := in.Get(path)
	if isBlank(v) {
		return 0, false
	}
	f, err := parse(v, KindNumber)
	if err != nil {
		return 0, false
	}
	return f.(float64), true
}

// Time returns the timestamp at path. ok is false when the value is blank or
// cannot be parsed.
func (in Input) Time(path string) (value time.Time, ok bool) {
	v := in.Get(path)
	if isBlank(v) {
		return time.Time{}, false
	}
	t, err := toTime(v)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// Without returns a copy of the record minus the given leaf paths, dropping
// maps left empty. Entities use it to keep the fields they do not model.
func (in Input) Without(known ...string) map[string]any {
	skip := make(map[string]struct{}, len(known))
	for _, k := range known {
		skip[k] = struct{}{}
	}
	return prune(in, "", skip)
}

func prune(m map[string]any, parent string, skip map[string]struct{}) map[string]any {
	var out map[string]any
	for k, v := range m {
		path := k
		if parent != "" {
			path = parent + paths.Separator + k
		}
		if _, ok := skip[path]; ok {
			continue
		}
		if child, ok := v.(map[string]any); ok {
			pruned := prune(child, path, skip)
			if pruned == nil {
				continue
			}
			v = pruned
		}
		if out == nil {
			out = make(map[string]any)
		}
		out[k] = v
	}
	if out == nil {
		return nil
	}
	return out
}
