// Package coordinator manages the column layout of one resource.
//
// A Coordinator decides where a resource's schema comes from: a live sample
// from the data source, the persisted mapping table, or the field paths the
// entity type declares as fallback. Once initialized it holds the effective
// header set, the ordered mappings every encode and decode of the resource
// uses.
//
// A Coordinator is not safe for concurrent use.
package coordinator

import (
	"context"

	"github.com/agentstation/utc"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/errors"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/logging"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/mapping"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/paths"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/sink"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/sources"
)

// State is the lifecycle state of a Coordinator.
type State int

const (
	// StateUninitialized means no header set has been adopted yet.
	StateUninitialized State = iota
	// StateInitialized means the header set is ready for encode and decode.
	StateInitialized
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	default:
		return "uninitialized"
	}
}

// FallbackDeclarer declares the field paths of an entity type, used when
// neither a live sample nor the mapping table provide any.
type FallbackDeclarer interface {
	DefaultFieldPaths() []string
}

// Coordinator owns the effective header set of one resource.
type Coordinator struct {
	resourceID string
	store      *mapping.Store
	sink       sink.Sink
	source     sources.Source
	fallback   FallbackDeclarer

	state       State
	headers     []mapping.FieldMapping
	lastChanges mapping.Changes
	hooks       hooks
}

// New creates a coordinator for resourceID. The sink, source and fallback may
// be nil: a nil sink skips column declaration, a nil source means no live
// sample is ever fetched and a nil fallback declares no paths.
func New(resourceID string, store *mapping.Store, sk sink.Sink, src sources.Source, fallback FallbackDeclarer) *Coordinator {
	return &Coordinator{
		resourceID: resourceID,
		store:      store,
		sink:       sk,
		source:     src,
		fallback:   fallback,
	}
}

// ResourceID returns the resource this coordinator manages.
func (c *Coordinator) ResourceID() string { return c.resourceID }

// State returns the lifecycle state.
func (c *Coordinator) State() State { return c.state }

// Initialized reports whether a header set has been adopted.
func (c *Coordinator) Initialized() bool { return c.state == StateInitialized }

// Headers returns a copy of the effective header set.
func (c *Coordinator) Headers() []mapping.FieldMapping {
	return append([]mapping.FieldMapping(nil), c.headers...)
}

// HeaderNames returns the effective column names in order.
func (c *Coordinator) HeaderNames() []string {
	return mapping.Names(c.headers)
}

// LastChanges returns the schema changes seen by the latest sample initialization.
func (c *Coordinator) LastChanges() mapping.Changes {
	return c.lastChanges
}

// OnSchemaChange registers a hook called whenever a sample changes the schema.
func (c *Coordinator) OnSchemaChange(fn SchemaChangeHook) {
	c.hooks.add(fn)
}

// DefaultFieldPaths returns the declared fallback paths.
func (c *Coordinator) DefaultFieldPaths() []string {
	if c.fallback == nil {
		return nil
	}
	return c.fallback.DefaultFieldPaths()
}

// InitializeFromSample derives the schema from sample, falling back to
// fallbackPaths when the sample yields no path. The result is merged into the
// store, adopted, and declared as the sink's header row.
//
// A store failure during the merge is logged and the returned mappings are
// adopted anyway. A sink failure is returned after the header set was adopted.
func (c *Coordinator) InitializeFromSample(ctx context.Context, sample any, fallbackPaths []string) error {
	log := logging.Ctx(ctx).With().Str("resource", c.resourceID).Logger()

	found, err := paths.ExtractPaths(sample)
	if err != nil {
		log.Warn().Err(err).Msg("Sample could not be walked, using fallback field paths")
		found = nil
	}
	if len(found) == 0 {
		found = fallbackPaths
	}
	if len(found) == 0 {
		return errors.NewMappingInitializationError(c.resourceID, "sample and fallback declaration yield no field paths", err)
	}

	changes := c.store.Diff(ctx, c.resourceID, found)

	merged, mergeErr := c.store.Merge(ctx, c.resourceID, found)
	if mergeErr != nil {
		log.Warn().Err(mergeErr).Msg("Mapping store merge failed, continuing with in-memory mappings")
	}
	if len(merged) == 0 {
		return errors.NewMappingInitializationError(c.resourceID, "no usable field paths", mergeErr)
	}

	c.adopt(merged)
	c.lastChanges = changes

	if !changes.IsEmpty() {
		log.Info().
			Strs("added", changes.Added).
			Strs("removed", changes.Removed).
			Msg("Schema change detected")
		c.hooks.trigger(SchemaChange{
			ResourceID: c.resourceID,
			Added:      changes.Added,
			Removed:    changes.Removed,
			DetectedAt: utc.Now(),
		})
	}

	return c.declare(ctx)
}

// InitializeFromStore adopts the stored mappings, or stores and adopts fresh
// mappings for fallbackPaths when the store has none.
func (c *Coordinator) InitializeFromStore(ctx context.Context, fallbackPaths []string) error {
	if stored := c.store.GetAll(ctx, c.resourceID); len(stored) > 0 {
		c.adopt(stored)
		return nil
	}

	if len(fallbackPaths) == 0 {
		return errors.NewMappingInitializationError(c.resourceID, "store is empty and no fallback field paths are declared", nil)
	}

	merged, err := c.store.Merge(ctx, c.resourceID, fallbackPaths)
	if err != nil {
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("resource", c.resourceID).
			Msg("Could not persist fallback mappings, continuing in memory")
	}
	if len(merged) == 0 {
		return errors.NewMappingInitializationError(c.resourceID, "no usable fallback field paths", err)
	}
	c.adopt(merged)
	return nil
}

// EnsureInitialized makes the header set available. Stored mappings are
// preferred; only when the store has none is a live sample fetched, with the
// declared fallback paths covering an empty or failing source.
func (c *Coordinator) EnsureInitialized(ctx context.Context) error {
	if c.Initialized() {
		return nil
	}

	if stored := c.store.GetAll(ctx, c.resourceID); len(stored) > 0 {
		c.adopt(stored)
		logging.Ctx(ctx).Debug().
			Str("resource", c.resourceID).
			Int("mappings", len(stored)).
			Msg("Initialized from mapping store")
		return nil
	}

	return c.InitializeFromSample(ctx, c.fetch(ctx), c.DefaultFieldPaths())
}

// Refresh re-derives the schema from a live sample. When the source fails the
// coordinator falls back to EnsureInitialized.
func (c *Coordinator) Refresh(ctx context.Context) error {
	if c.source == nil {
		return c.EnsureInitialized(ctx)
	}
	sample, err := c.source.Fetch(ctx, c.resourceID)
	if err != nil {
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("resource", c.resourceID).
			Msg("Live sample unavailable, keeping current schema")
		return c.EnsureInitialized(ctx)
	}
	return c.InitializeFromSample(ctx, sample, c.DefaultFieldPaths())
}

func (c *Coordinator) fetch(ctx context.Context) any {
	if c.source == nil {
		return nil
	}
	sample, err := c.source.Fetch(ctx, c.resourceID)
	if err != nil {
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("resource", c.resourceID).
			Msg("Live sample unavailable, using fallback field paths")
		return nil
	}
	return sample
}

func (c *Coordinator) adopt(mappings []mapping.FieldMapping) {
	c.headers = append([]mapping.FieldMapping(nil), mappings...)
	c.state = StateInitialized
}

func (c *Coordinator) declare(ctx context.Context) error {
	if c.sink == nil {
		return nil
	}
	err := c.sink.DeclareColumns(ctx, c.resourceID, c.HeaderNames())
	if err == nil {
		return nil
	}
	if errors.Is(err, errors.ErrSink) {
		return err
	}
	return errors.WrapSink("declare", c.resourceID, err)
}
