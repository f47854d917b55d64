// Package sync moves broker records between a data source, the mapping store
// and a tabular sink.
package sync

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/metrics"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/coordinator"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/entities"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/errors"
)

// Options controls a Service.
type Options struct {
	DryRun  bool                           // Encode rows without writing them to the sink
	Kinds   []entities.Kind                // Resources the service handles (empty means all registered)
	Metrics *metrics.Metrics               // Counters, nil disables metrics
	Hooks   []coordinator.SchemaChangeHook // Called on every detected schema change
	Logger  *zerolog.Logger                // Logger attached to every operation's context
}

// Option is a function that configures Options.
type Option func(*Options)

// Defaults returns the default service options.
func Defaults() *Options {
	return &Options{}
}

// Apply applies the given options.
func (o *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Validate checks that every kind is usable and registered once.
func (o *Options) Validate() error {
	seen := make(map[string]struct{}, len(o.Kinds))
	for i, k := range o.Kinds {
		if k == nil {
			return &errors.ValidationError{
				Field:   "Kinds",
				Value:   i,
				Message: fmt.Sprintf("kind %d is nil", i),
			}
		}
		id := k.ResourceID()
		if id == "" {
			return &errors.ValidationError{
				Field:   "Kinds",
				Value:   i,
				Message: "kind has an empty resource id",
			}
		}
		if _, dup := seen[id]; dup {
			return &errors.ValidationError{
				Field:   "Kinds",
				Value:   id,
				Message: fmt.Sprintf("resource %s is configured twice", id),
			}
		}
		seen[id] = struct{}{}
	}
	return nil
}

// WithDryRun configures dry run mode.
func WithDryRun(dryRun bool) Option {
	return func(o *Options) {
		o.DryRun = dryRun
	}
}

// WithKinds restricts the service to the given kinds.
func WithKinds(kinds ...entities.Kind) Option {
	return func(o *Options) {
		o.Kinds = append(o.Kinds, kinds...)
	}
}

// WithMetrics records activity in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Options) {
		o.Metrics = m
	}
}

// WithSchemaChangeHook registers a hook on every coordinator the service creates.
func WithSchemaChangeHook(fn coordinator.SchemaChangeHook) Option {
	return func(o *Options) {
		if fn != nil {
			o.Hooks = append(o.Hooks, fn)
		}
	}
}

// WithLogger sets the logger used by the service's operations.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = &logger
	}
}
