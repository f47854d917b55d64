package mapping

import (
	"context"
	"strings"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/errors"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/logging"
)

// Store reconciles observed field paths with the persisted mapping table.
//
// Every operation filters strictly by resource ID. Merge and SetUserHeader are
// read-then-write without locking: a single writer per table is assumed.
type Store struct {
	table Table
}

// NewStore returns a store over table.
func NewStore(table Table) *Store {
	return &Store{table: table}
}

// Table returns the backing table.
func (s *Store) Table() Table {
	return s.table
}

// Changes is the outcome of comparing stored paths with observed ones.
type Changes struct {
	Added   []string `json:"added,omitempty" yaml:"added,omitempty"`
	Removed []string `json:"removed,omitempty" yaml:"removed,omitempty"`
}

// IsEmpty reports whether no path was added or removed.
func (c Changes) IsEmpty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0
}

// GetAll returns the mappings of resourceID in storage order. A missing or
// unreadable table yields an empty result; read failures are logged.
func (s *Store) GetAll(ctx context.Context, resourceID string) []FieldMapping {
	rows, err := s.table.ReadAll(ctx)
	if err != nil {
		logging.Ctx(ctx).Warn().
			Err(errors.WrapStoreIO("read", s.name(), err)).
			Str("resource", resourceID).
			Msg("Mapping table unreadable, treating as empty")
		return nil
	}
	return filter(rows, resourceID)
}

// Merge reconciles newPaths with the stored mappings of resourceID and
// persists the result.
//
// Existing paths keep their position and user header, and their automatic
// header is recomputed. Unseen paths are appended in first-seen order. The
// table is rewritten once, leaving every other resource's rows in place.
//
// When the table cannot be read nothing is written and fresh mappings for
// newPaths are returned with a *errors.StoreIOError. When the write fails the
// merged mappings are returned with a *errors.StoreIOError. Either way callers
// may keep working with the returned mappings in memory.
func (s *Store) Merge(ctx context.Context, resourceID string, newPaths []string) ([]FieldMapping, error) {
	log := logging.Ctx(ctx).With().Str("resource", resourceID).Logger()

	rows, err := s.table.ReadAll(ctx)
	if err != nil {
		return synthesize(resourceID, newPaths), errors.WrapStoreIO("read", s.name(), err)
	}

	existing := filter(rows, resourceID)
	merged := make([]FieldMapping, 0, len(existing)+len(newPaths))
	known := make(map[string]struct{}, len(existing)+len(newPaths))
	for _, m := range existing {
		m.AutoTransformedHeader = TransformName(m.APIFieldPath)
		merged = append(merged, m)
		known[m.APIFieldPath] = struct{}{}
	}

	added := 0
	for _, path := range newPaths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		if _, ok := known[path]; ok {
			continue
		}
		known[path] = struct{}{}
		merged = append(merged, NewMapping(resourceID, path))
		added++
	}

	out, skipped := splice(rows, resourceID, merged)
	for _, r := range skipped {
		log.Warn().
			Str("field_path", strings.TrimSpace(r[1])).
			Str("user_header", r[3]).
			Msg("Mapping row is blank or duplicated, kept as is")
	}
	if err := s.table.ReplaceAll(ctx, out); err != nil {
		return merged, errors.WrapStoreIO("write", s.name(), err)
	}

	log.Debug().
		Int("mappings", len(merged)).
		Int("added", added).
		Msg("Merged field mappings")
	return merged, nil
}

// Diff compares the stored paths of resourceID with currentPaths. Added keeps
// the order of currentPaths and Removed the storage order. Nothing is written.
func (s *Store) Diff(ctx context.Context, resourceID string, currentPaths []string) Changes {
	return diff(FieldPaths(s.GetAll(ctx, resourceID)), currentPaths)
}

// SetUserHeader edits the user header of one mapping in place. A blank header
// clears the override.
func (s *Store) SetUserHeader(ctx context.Context, resourceID, path, header string) error {
	rows, err := s.table.ReadAll(ctx)
	if err != nil {
		return errors.WrapStoreIO("read", s.name(), err)
	}

	found := false
	for i, r := range rows {
		m := FromRow(r)
		if m.ResourceID != resourceID || m.APIFieldPath != path {
			continue
		}
		rows[i][3] = strings.TrimSpace(header)
		found = true
		break
	}
	if !found {
		return errors.NewNotFoundError("field mapping", resourceID+"/"+path)
	}

	return errors.WrapStoreIO("write", s.name(), s.table.ReplaceAll(ctx, rows))
}

// Resources returns the distinct resource IDs in storage order.
func (s *Store) Resources(ctx context.Context) ([]string, error) {
	rows, err := s.table.ReadAll(ctx)
	if err != nil {
		return nil, errors.WrapStoreIO("read", s.name(), err)
	}
	seen := make(map[string]struct{})
	var out []string
	for _, r := range rows {
		id := strings.TrimSpace(r[0])
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

func (s *Store) name() string {
	if n, ok := s.table.(Named); ok {
		return n.Name()
	}
	return "mapping table"
}

// filter returns the valid mappings of resourceID, first occurrence of each path.
func filter(rows []Row, resourceID string) []FieldMapping {
	var out []FieldMapping
	seen := make(map[string]struct{})
	for _, r := range rows {
		m := FromRow(r)
		if m.ResourceID == "" || m.APIFieldPath == "" || m.ResourceID != resourceID {
			continue
		}
		if _, ok := seen[m.APIFieldPath]; ok {
			continue
		}
		seen[m.APIFieldPath] = struct{}{}
		out = append(out, m)
	}
	return out
}

// splice replaces the rows of resourceID with merged, written at the position
// of the resource's first row or appended when the resource is new. Rows of the
// resource that carry no field path or repeat one are kept after merged and
// returned as skipped.
func splice(rows []Row, resourceID string, merged []FieldMapping) (out, skipped []Row) {
	seen := make(map[string]struct{})
	for _, r := range rows {
		m := FromRow(r)
		if m.ResourceID != resourceID {
			continue
		}
		if _, dup := seen[m.APIFieldPath]; m.APIFieldPath == "" || dup {
			skipped = append(skipped, r)
			continue
		}
		seen[m.APIFieldPath] = struct{}{}
	}

	out = make([]Row, 0, len(rows)+len(merged))
	written := false
	emit := func() {
		for _, m := range merged {
			out = append(out, m.Row())
		}
		out = append(out, skipped...)
		written = true
	}

	for _, r := range rows {
		if strings.TrimSpace(r[0]) != resourceID {
			out = append(out, r)
			continue
		}
		if !written {
			emit()
		}
	}
	if !written {
		emit()
	}
	return out, skipped
}

func synthesize(resourceID string, paths []string) []FieldMapping {
	out := make([]FieldMapping, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		out = append(out, NewMapping(resourceID, path))
	}
	return out
}

func diff(stored, current []string) Changes {
	storedSet := make(map[string]struct{}, len(stored))
	for _, p := range stored {
		storedSet[p] = struct{}{}
	}
	currentSet := make(map[string]struct{}, len(current))
	var changes Changes
	for _, p := range current {
		if _, dup := currentSet[p]; dup {
			continue
		}
		currentSet[p] = struct{}{}
		if _, ok := storedSet[p]; !ok {
			changes.Added = append(changes.Added, p)
		}
	}
	for _, p := range stored {
		if _, ok := currentSet[p]; !ok {
			changes.Removed = append(changes.Removed, p)
		}
	}
	return changes
}
