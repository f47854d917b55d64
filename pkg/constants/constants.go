// Package constants provides shared constants used throughout the sheetsync codebase.
// This includes timeouts, limits, file permissions and the fixed names of the
// persisted mapping table.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the broker API
	DefaultHTTPTimeout = 30 * time.Second

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// MaxPathDepth is the deepest nesting the path extractor walks before failing
	MaxPathDepth = 64

	// DefaultRatePerSecond is the default client-side request rate for the HTTP source
	DefaultRatePerSecond = 1.0
)

// Naming constants for persisted artifacts
const (
	// MappingSheetName is the workbook sheet holding the field mapping table
	MappingSheetName = "_FieldMappings"

	// MappingTableName is the PostgreSQL table holding the field mapping table
	MappingTableName = "field_mappings"

	// ListSeparator joins list-valued leaves into a single cell
	ListSeparator = ", "

	// TimestampLayout is the fixed pattern timestamps are rendered with in cells
	TimestampLayout = "2006-01-02 15:04:05"
)
