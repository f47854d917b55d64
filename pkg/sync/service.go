package sync

import (
	"context"
	"fmt"
	"sort"

	"github.com/agentstation/utc"
	"github.com/google/uuid"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/metrics"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/codec"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/coordinator"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/entities"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/errors"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/logging"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/mapping"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/paths"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/sink"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/sources"
)

// Service runs push, pull and refresh cycles. Resources are processed one
// after another and a Service is not safe for concurrent use.
type Service struct {
	store   *mapping.Store
	sink    sink.Sink
	source  sources.Source
	options *Options

	kinds        map[string]entities.Kind
	coordinators map[string]*coordinator.Coordinator
}

// New creates a service. Without WithKinds every registered kind is handled.
func New(store *mapping.Store, sk sink.Sink, src sources.Source, opts ...Option) (*Service, error) {
	options := Defaults().Apply(opts...)
	if err := options.Validate(); err != nil {
		return nil, err
	}
	kinds := options.Kinds
	if len(kinds) == 0 {
		kinds = entities.All()
	}

	s := &Service{
		store:        store,
		sink:         sk,
		source:       src,
		options:      options,
		kinds:        make(map[string]entities.Kind, len(kinds)),
		coordinators: make(map[string]*coordinator.Coordinator),
	}
	for _, k := range kinds {
		s.kinds[k.ResourceID()] = k
	}
	return s, nil
}

// Store returns the mapping store.
func (s *Service) Store() *mapping.Store { return s.store }

// ResourceIDs returns the handled resources in sorted order.
func (s *Service) ResourceIDs() []string {
	ids := make([]string, 0, len(s.kinds))
	for id := range s.kinds {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Kind returns the kind handling resourceID.
func (s *Service) Kind(resourceID string) (entities.Kind, error) {
	k, ok := s.kinds[resourceID]
	if !ok {
		return nil, errors.NewNotFoundError("resource", resourceID)
	}
	return k, nil
}

// Coordinator returns the coordinator of resourceID, creating it on first use.
func (s *Service) Coordinator(resourceID string) (*coordinator.Coordinator, error) {
	if c, ok := s.coordinators[resourceID]; ok {
		return c, nil
	}
	k, err := s.Kind(resourceID)
	if err != nil {
		return nil, err
	}

	c := coordinator.New(resourceID, s.store, s.sink, s.source, k)
	m := s.options.Metrics
	c.OnSchemaChange(func(change coordinator.SchemaChange) {
		m.SchemaChange(change.ResourceID, len(change.Added), len(change.Removed))
	})
	for _, hook := range s.options.Hooks {
		c.OnSchemaChange(hook)
	}
	s.coordinators[resourceID] = c
	return c, nil
}

// Push fetches every resource from the source and rewrites its sink table.
// No resource IDs means every handled resource. A failing resource is
// recorded in the result and the next resource is processed; the returned
// error joins all failures.
func (s *Service) Push(ctx context.Context, resourceIDs ...string) (*Result, error) {
	return s.run(ctx, OperationPush, resourceIDs, s.push)
}

// Refresh re-derives the schema of every resource from a live sample without
// writing data rows.
func (s *Service) Refresh(ctx context.Context, resourceIDs ...string) (*Result, error) {
	return s.run(ctx, OperationRefresh, resourceIDs, s.refresh)
}

// Pull reads the sink table of resourceID back into validated entities.
// A row that fails validation aborts the pull.
func (s *Service) Pull(ctx context.Context, resourceID string) ([]entities.Entity, error) {
	ctx = logging.WithOperation(s.context(ctx), OperationPull)
	ctx = logging.WithResource(ctx, resourceID)

	out, err := s.pull(ctx, resourceID)
	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
	}
	s.options.Metrics.Run(resourceID, OperationPull, outcome)
	s.options.Metrics.Rows(resourceID, OperationPull, len(out))
	return out, err
}

// Diff compares the stored field paths of resourceID with those of a live
// sample. Nothing is written. When the source has no sample the declared
// fallback paths stand in for it.
func (s *Service) Diff(ctx context.Context, resourceID string) (mapping.Changes, error) {
	ctx = logging.WithResource(s.context(ctx), resourceID)
	k, err := s.Kind(resourceID)
	if err != nil {
		return mapping.Changes{}, err
	}

	var sample any
	if s.source != nil {
		if sample, err = s.source.Fetch(ctx, resourceID); err != nil {
			return mapping.Changes{}, err
		}
	}
	current, err := paths.ExtractPaths(sample)
	if err != nil {
		return mapping.Changes{}, err
	}
	if len(current) == 0 {
		current = k.DefaultFieldPaths()
	}
	return s.store.Diff(ctx, resourceID, current), nil
}

// Rename sets the user header of one field and rewrites the sink's header
// row so the new name shows up without a push.
func (s *Service) Rename(ctx context.Context, resourceID, path, header string) ([]mapping.FieldMapping, error) {
	ctx = logging.WithResource(s.context(ctx), resourceID)
	if _, err := s.Kind(resourceID); err != nil {
		return nil, err
	}
	if err := s.store.SetUserHeader(ctx, resourceID, path, header); err != nil {
		return nil, err
	}

	ms := s.store.GetAll(ctx, resourceID)
	delete(s.coordinators, resourceID)
	if s.options.DryRun || s.sink == nil {
		return ms, nil
	}
	if err := s.sink.DeclareColumns(ctx, resourceID, mapping.Names(ms)); err != nil {
		return ms, wrapSink("declare", resourceID, err)
	}
	return ms, nil
}

type step func(ctx context.Context, res *ResourceResult) error

func (s *Service) run(ctx context.Context, operation string, resourceIDs []string, fn step) (*Result, error) {
	if len(resourceIDs) == 0 {
		resourceIDs = s.ResourceIDs()
	}

	result := &Result{
		RunID:     uuid.New(),
		Operation: operation,
		DryRun:    s.options.DryRun && operation == OperationPush,
		StartedAt: utc.Now(),
	}
	ctx = logging.WithRunID(s.context(ctx), result.RunID.String())
	ctx = logging.WithOperation(ctx, operation)

	for _, id := range resourceIDs {
		if err := ctx.Err(); err != nil {
			result.Resources = append(result.Resources, ResourceResult{ResourceID: id, Skipped: true, Err: err})
			continue
		}

		res := ResourceResult{ResourceID: id}
		rctx := logging.WithResource(ctx, id)
		res.Err = fn(rctx, &res)

		outcome := metrics.OutcomeOK
		switch {
		case res.Err != nil && res.Skipped:
			outcome = metrics.OutcomeSkipped
		case res.Err != nil:
			outcome = metrics.OutcomeError
		}
		s.options.Metrics.Run(id, operation, outcome)

		log := logging.Ctx(rctx)
		if res.Err != nil {
			log.Error().Err(res.Err).Msg("Resource failed")
		} else {
			log.Info().
				Int("rows", res.Rows).
				Int("field_failures", res.FieldFailures).
				Msg("Resource done")
		}
		result.Resources = append(result.Resources, res)
	}

	result.FinishedAt = utc.Now()
	return result, result.Err()
}

func (s *Service) push(ctx context.Context, res *ResourceResult) error {
	k, err := s.Kind(res.ResourceID)
	if err != nil {
		return err
	}
	c, err := s.Coordinator(res.ResourceID)
	if err != nil {
		return err
	}

	var sample any
	if s.source != nil {
		sample, err = s.source.Fetch(ctx, res.ResourceID)
	}
	if err != nil {
		// Keep the sheet usable even though nothing can be pushed.
		if initErr := c.EnsureInitialized(ctx); initErr != nil {
			logging.Ctx(ctx).Warn().Err(initErr).Msg("Could not initialize mappings")
		}
		res.Skipped = true
		return err
	}

	if err := c.InitializeFromSample(ctx, sample, k.DefaultFieldPaths()); err != nil {
		return err
	}
	s.options.Metrics.Merge(res.ResourceID)
	changes := c.LastChanges()
	res.Added, res.Removed = changes.Added, changes.Removed

	headers := c.Headers()
	res.Columns = len(headers)
	schema := k.Schema()
	records := paths.Records(sample)
	rows := make([][]any, 0, len(records))
	for i, record := range records {
		entity, err := construct(k, record)
		if err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
		encoded := codec.Encode(entity.Nested(), headers, schema)
		for _, failure := range encoded.Failures() {
			logging.Ctx(ctx).Warn().
				Err(failure.Err).
				Str("path", failure.Path).
				Str("key", entity.Key()).
				Msg("Field left empty")
		}
		res.FieldFailures += len(encoded.Failures())
		rows = append(rows, encoded.Values())
	}
	res.Rows = len(rows)
	s.options.Metrics.FieldFailures(res.ResourceID, res.FieldFailures)

	if s.options.DryRun {
		logging.Ctx(ctx).Info().Int("rows", len(rows)).Msg("Dry run, sink left unchanged")
		return nil
	}
	if err := s.sink.ReplaceRows(ctx, res.ResourceID, rows, c.HeaderNames()); err != nil {
		return wrapSink("replace", res.ResourceID, err)
	}
	s.options.Metrics.Rows(res.ResourceID, OperationPush, len(rows))
	return nil
}

func (s *Service) refresh(ctx context.Context, res *ResourceResult) error {
	c, err := s.Coordinator(res.ResourceID)
	if err != nil {
		return err
	}
	if err := c.Refresh(ctx); err != nil {
		return err
	}
	changes := c.LastChanges()
	res.Added, res.Removed = changes.Added, changes.Removed
	res.Columns = len(c.Headers())
	return nil
}

func (s *Service) pull(ctx context.Context, resourceID string) ([]entities.Entity, error) {
	k, err := s.Kind(resourceID)
	if err != nil {
		return nil, err
	}
	c, err := s.Coordinator(resourceID)
	if err != nil {
		return nil, err
	}
	if err := c.EnsureInitialized(ctx); err != nil {
		return nil, err
	}

	rows, err := s.sink.ReadAllRows(ctx, resourceID)
	if err != nil {
		return nil, wrapSink("read", resourceID, err)
	}

	headers := c.Headers()
	schema := k.Schema()
	out := make([]entities.Entity, 0, len(rows))
	for i, row := range rows {
		if blankRow(row) {
			continue
		}
		nested, failures := codec.Decode(row, headers, schema)
		for _, failure := range failures {
			if failure.OK() {
				continue
			}
			logging.Ctx(ctx).Warn().
				Err(failure.Err).
				Str("path", failure.Path).
				Int("row", i+2).
				Msg("Cell could not be parsed")
		}
		entity, err := k.New(nested)
		if err != nil {
			// Row 1 is the header.
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, entity)
	}
	return out, nil
}

func (s *Service) context(ctx context.Context) context.Context {
	if s.options.Logger != nil {
		return logging.WithLogger(ctx, s.options.Logger)
	}
	return ctx
}

func construct(k entities.Kind, record any) (entities.Entity, error) {
	input, ok := paths.Normalize(record).(map[string]any)
	if !ok {
		return nil, errors.NewValidationError(k.ResourceID(), "", record, "record is not an object")
	}
	return k.New(input)
}

func wrapSink(operation, resourceID string, err error) error {
	if errors.Is(err, errors.ErrSink) {
		return err
	}
	return errors.WrapSink(operation, resourceID, err)
}

func blankRow(row []any) bool {
	for _, cell := range row {
		if paths.Stringify(cell) != "" {
			return false
		}
	}
	return true
}
