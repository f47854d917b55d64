// Package sources defines where record samples come from.
//
// A Source returns the current records of a resource as decoded, nested
// values: a list of records, a single record, or nil when it has nothing.
// Implementations backed by files and HTTP APIs live under internal/sources.
package sources

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/errors"
)

// Source fetches the raw records of one resource.
type Source interface {
	Fetch(ctx context.Context, resourceID string) (any, error)
}

// Func adapts a function to the Source interface.
type Func func(ctx context.Context, resourceID string) (any, error)

// Fetch implements Source.
func (f Func) Fetch(ctx context.Context, resourceID string) (any, error) {
	return f(ctx, resourceID)
}

// Static is a thread-safe in-memory source.
type Static struct {
	mu      sync.RWMutex
	records map[string]any
	errs    map[string]error
}

// NewStatic creates an empty static source.
func NewStatic() *Static {
	return &Static{
		records: make(map[string]any),
		errs:    make(map[string]error),
	}
}

// Set stores the sample returned for resourceID.
func (s *Static) Set(resourceID string, sample any) *Static {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[resourceID] = sample
	delete(s.errs, resourceID)
	return s
}

// Fail makes every fetch of resourceID return err.
func (s *Static) Fail(resourceID string, err error) *Static {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[resourceID] = err
	return s
}

// Delete removes the sample of resourceID.
func (s *Static) Delete(resourceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, resourceID)
	delete(s.errs, resourceID)
}

// IDs returns the resources with a stored sample, sorted.
func (s *Static) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Fetch implements Source. Unknown resources yield nil.
func (s *Static) Fetch(ctx context.Context, resourceID string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err, ok := s.errs[resourceID]; ok {
		return nil, errors.WrapSource("static", resourceID, err)
	}
	return s.records[resourceID], nil
}

// ItemsKey is the envelope key paginated APIs wrap their records in.
const ItemsKey = "items"

// Unwrap returns the records inside an {"items": [...]} envelope, or sample
// unchanged when it is not one.
func Unwrap(sample any) any {
	switch m := sample.(type) {
	case yaml.MapSlice:
		for _, item := range m {
			if k, ok := item.Key.(string); ok && k == ItemsKey {
				if list, ok := item.Value.([]any); ok {
					return list
				}
			}
		}
	case map[string]any:
		if list, ok := m[ItemsKey].([]any); ok {
			return list
		}
	}
	return sample
}
