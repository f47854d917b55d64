package appcontext

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/sync"
)

// Mock provides a mock implementation of Interface for testing.
// If a function field is nil, the method returns a default/zero value.
type Mock struct {
	ServiceFunc      func(ctx context.Context, opts ...sync.Option) (*sync.Service, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
}

var _ Interface = (*Mock)(nil)

// Service returns a service using the mock function or nil.
func (m *Mock) Service(ctx context.Context, opts ...sync.Option) (*sync.Service, error) {
	if m.ServiceFunc != nil {
		return m.ServiceFunc(ctx, opts...)
	}
	return nil, nil
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the format using the mock function or "json".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "json"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}
