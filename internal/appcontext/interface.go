// Package appcontext defines what commands need from the application, so
// that command packages do not depend on the concrete App.
package appcontext

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/sync"
)

// Interface is implemented by the App in cmd/sheetsync/app.
type Interface interface {
	// Service returns a sync service over the configured store, workbook and
	// source. Extra options are applied after the configured ones.
	Service(ctx context.Context, opts ...sync.Option) (*sync.Service, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the requested output format (table, json, yaml).
	OutputFormat() string

	// Version returns the application version string.
	Version() string
}
