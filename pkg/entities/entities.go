// Package entities defines the broker records synchronized to the workbook.
//
// Each Kind names a resource, declares its fallback field paths and cell
// kinds, and constructs validated entities from decoded records. Fields an
// entity does not model are kept in its Extra map so that dynamic columns
// survive a pull and push round trip.
package entities

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/codec"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/errors"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/paths"
)

// Entity is a validated domain record.
type Entity interface {
	// Nested returns the entity as a nested record keyed like the source API.
	Nested() map[string]any
	// Validate checks the entity's invariants.
	Validate() error
	// Key identifies the entity within its resource.
	Key() string
}

// Kind describes one resource type.
type Kind interface {
	ResourceID() string
	DefaultFieldPaths() []string
	Schema() codec.Schema
	// New constructs and validates an entity. Invalid input never yields an entity.
	New(input map[string]any) (Entity, error)
}

// Resource identifiers of the built-in kinds.
const (
	DividendsID    = "DIVIDENDS"
	OrdersID       = "ORDERS"
	TransactionsID = "TRANSACTIONS"
	PortfolioID    = "PORTFOLIO"
	PiesID         = "PIES"
	InstrumentsID  = "INSTRUMENTS"
	AccountID      = "ACCOUNT"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Kind)
)

func init() {
	for _, k := range []Kind{
		DividendKind,
		OrderKind,
		TransactionKind,
		PositionKind,
		PieKind,
		InstrumentKind,
		AccountSummaryKind,
	} {
		if err := Register(k); err != nil {
			panic(err)
		}
	}
}

// Register adds a kind to the registry.
func Register(k Kind) error {
	if k == nil || strings.TrimSpace(k.ResourceID()) == "" {
		return errors.NewValidationError("kind", "ResourceID", nil, "resource ID is required")
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[k.ResourceID()]; exists {
		return errors.NewValidationError("kind", "ResourceID", k.ResourceID(), "already registered")
	}
	registry[k.ResourceID()] = k
	return nil
}

// Lookup returns the kind registered for resourceID.
func Lookup(resourceID string) (Kind, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	k, ok := registry[resourceID]
	if !ok {
		return nil, errors.NewNotFoundError("resource", resourceID)
	}
	return k, nil
}

// All returns every registered kind ordered by resource ID.
func All() []Kind {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Kind, 0, len(registry))
	for _, k := range registry {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ResourceID() < out[j].ResourceID() })
	return out
}

// IDs returns the registered resource IDs, sorted.
func IDs() []string {
	kinds := All()
	ids := make([]string, len(kinds))
	for i, k := range kinds {
		ids[i] = k.ResourceID()
	}
	return ids
}

// kind is the table-driven Kind shared by the built-in entities.
type kind struct {
	id        string
	defaults  []string
	schema    codec.Schema
	construct func(in codec.Input) Entity
}

func (k *kind) ResourceID() string { return k.id }

func (k *kind) DefaultFieldPaths() []string { return append([]string(nil), k.defaults...) }

func (k *kind) Schema() codec.Schema { return k.schema }

func (k *kind) New(input map[string]any) (Entity, error) {
	e := k.construct(codec.Input(input))
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// builder assembles Nested output on top of a copy of Extra.
type builder struct {
	out map[string]any
}

func newBuilder(extra map[string]any) *builder {
	out, _ := paths.Normalize(extra).(map[string]any)
	if out == nil {
		out = make(map[string]any)
	}
	return &builder{out: out}
}

func (b *builder) set(path string, value any) *builder {
	switch v := value.(type) {
	case nil:
		return b
	case string:
		if v == "" {
			return b
		}
	case *float64:
		if v == nil {
			return b
		}
		value = *v
	case time.Time:
		if v.IsZero() {
			return b
		}
	}
	if err := paths.SetValue(b.out, path, value); err != nil {
		// A scalar kept in Extra sits where the modeled field needs a record.
		// The modeled field wins.
		b.clearScalars(path)
		_ = paths.SetValue(b.out, path, value)
	}
	return b
}

// clearScalars removes every non-record value on the way to path.
func (b *builder) clearScalars(path string) {
	segments := strings.Split(path, paths.Separator)
	current := b.out
	for _, segment := range segments[:len(segments)-1] {
		child, ok := current[segment].(map[string]any)
		if !ok {
			child = make(map[string]any)
			current[segment] = child
		}
		current = child
	}
}

func (b *builder) build() map[string]any { return b.out }

func optFloat(in codec.Input, path string) *float64 {
	if f, ok := in.Float(path); ok {
		return &f
	}
	return nil
}

func requireText(entity, field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewValidationError(entity, field, value, "must not be empty")
	}
	return nil
}

func requireNumber(entity, field string, value *float64) error {
	if value == nil {
		return errors.NewValidationError(entity, field, nil, "is required")
	}
	return nil
}

func requirePositive(entity, field string, value *float64) error {
	if value == nil {
		return errors.NewValidationError(entity, field, nil, "is required")
	}
	if *value <= 0 {
		return errors.NewValidationError(entity, field, *value, "must be positive")
	}
	return nil
}

func positiveIfSet(entity, field string, value *float64) error {
	if value == nil {
		return nil
	}
	return requirePositive(entity, field, value)
}

func currencyCode(entity, field, value string) error {
	if len(value) != 3 {
		return errors.NewValidationError(entity, field, value, "must be a three-letter currency code")
	}
	for _, r := range value {
		if r < 'A' || r > 'Z' {
			return errors.NewValidationError(entity, field, value, "must be a three-letter currency code")
		}
	}
	return nil
}

func currencyIfSet(entity, field, value string) error {
	if value == "" {
		return nil
	}
	return currencyCode(entity, field, value)
}

// timeField reads a timestamp, remembering unparseable text for validation.
type timeField struct {
	Value time.Time
	Raw   string
}

func readTime(in codec.Input, path string) timeField {
	t, _ := in.Time(path)
	return timeField{Value: t, Raw: in.String(path)}
}

func (f timeField) nested() any {
	if !f.Value.IsZero() {
		return f.Value
	}
	return f.Raw
}

func requireTime(entity, field string, f timeField) error {
	if f.Raw == "" {
		return errors.NewValidationError(entity, field, nil, "is required")
	}
	return timeIfSet(entity, field, f)
}

func timeIfSet(entity, field string, f timeField) error {
	if f.Raw != "" && f.Value.IsZero() {
		return errors.NewValidationError(entity, field, f.Raw, fmt.Sprintf("cannot parse date %q", f.Raw))
	}
	return nil
}

func upper(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func newRequiredTogether(entity, field, with string) error {
	return errors.NewValidationError(entity, field, nil, fmt.Sprintf("is required when %s is present", with))
}
