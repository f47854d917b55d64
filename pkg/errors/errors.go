// Package errors provides custom error types for the sheetsync system.
// These errors enable programmatic error checking across the mapping engine,
// the entity codecs and the storage collaborators.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Join is an alias for the standard library errors.Join.
var Join = errors.Join

// Is is an alias for the standard library errors.Is.
var Is = errors.Is

// As is an alias for the standard library errors.As.
var As = errors.As

// Common sentinel errors for the sheetsync system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrStructural indicates a malformed path or a record nested beyond the walk bound
	ErrStructural = errors.New("structural error")

	// ErrMappingInitialization indicates that no schema source yielded any field
	ErrMappingInitialization = errors.New("mapping initialization failed")

	// ErrStoreIO indicates that the mapping table could not be read or written
	ErrStoreIO = errors.New("mapping store unavailable")

	// ErrSink indicates that the tabular sink rejected an operation
	ErrSink = errors.New("tabular sink error")

	// ErrSourceUnavailable indicates that the data source could not produce a sample
	ErrSourceUnavailable = errors.New("source unavailable")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents an entity invariant violation
type ValidationError struct {
	Entity  string
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	prefix := "validation failed"
	if e.Entity != "" {
		prefix = fmt.Sprintf("%s validation failed", e.Entity)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s for field %s: %s", prefix, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(entity, field string, value any, message string) *ValidationError {
	return &ValidationError{Entity: entity, Field: field, Value: value, Message: message}
}

// StructuralError reports an unresolvable path or a record that nests past the depth bound
type StructuralError struct {
	Path    string
	Depth   int
	Message string
}

// Error implements the error interface
func (e *StructuralError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("structural error at %q: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("structural error: %s", e.Message)
}

// Is implements errors.Is support
func (e *StructuralError) Is(target error) bool {
	return target == ErrStructural
}

// NewStructuralError creates a new StructuralError
func NewStructuralError(path string, depth int, message string) *StructuralError {
	return &StructuralError{Path: path, Depth: depth, Message: message}
}

// MappingInitializationError is returned when neither a live sample, the store
// nor a fallback declaration yields any field path for a resource.
type MappingInitializationError struct {
	ResourceID string
	Message    string
	Err        error
}

// Error implements the error interface
func (e *MappingInitializationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("initializing mappings for %s: %s: %v", e.ResourceID, e.Message, e.Err)
	}
	return fmt.Sprintf("initializing mappings for %s: %s", e.ResourceID, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *MappingInitializationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *MappingInitializationError) Is(target error) bool {
	return target == ErrMappingInitialization
}

// NewMappingInitializationError creates a new MappingInitializationError
func NewMappingInitializationError(resourceID, message string, err error) *MappingInitializationError {
	return &MappingInitializationError{ResourceID: resourceID, Message: message, Err: err}
}

// StoreIOError represents a failed read or write against the mapping table
type StoreIOError struct {
	Operation string // "read", "write"
	Table     string
	Err       error
}

// Error implements the error interface
func (e *StoreIOError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("mapping store %s of %s failed: %v", e.Operation, e.Table, e.Err)
	}
	return fmt.Sprintf("mapping store %s failed: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *StoreIOError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *StoreIOError) Is(target error) bool {
	return target == ErrStoreIO
}

// SinkError represents a failed operation against the tabular sink
type SinkError struct {
	Operation  string // "declare", "replace", "read"
	ResourceID string
	Err        error
}

// Error implements the error interface
func (e *SinkError) Error() string {
	return fmt.Sprintf("sink %s for %s failed: %v", e.Operation, e.ResourceID, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *SinkError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *SinkError) Is(target error) bool {
	return target == ErrSink
}

// SourceError represents a failed fetch from the data source
type SourceError struct {
	Source     string
	ResourceID string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *SourceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("source %s failed for %s (status %d): %s", e.Source, e.ResourceID, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("source %s failed for %s: %s", e.Source, e.ResourceID, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsStructural checks if an error is a structural error
func IsStructural(err error) bool {
	return errors.Is(err, ErrStructural)
}

// IsMappingInitialization checks if an error is a mapping initialization error
func IsMappingInitialization(err error) bool {
	return errors.Is(err, ErrMappingInitialization)
}

// IsStoreIO checks if an error is a mapping store I/O error
func IsStoreIO(err error) bool {
	return errors.Is(err, ErrStoreIO)
}

// IsSourceUnavailable checks if an error indicates the data source failed
func IsSourceUnavailable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}

// Helper wrapping functions for common patterns

// WrapStoreIO wraps an error as a StoreIOError
func WrapStoreIO(operation, table string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreIOError{Operation: operation, Table: table, Err: err}
}

// WrapSink wraps an error as a SinkError
func WrapSink(operation, resourceID string, err error) error {
	if err == nil {
		return nil
	}
	return &SinkError{Operation: operation, ResourceID: resourceID, Err: err}
}

// WrapSource wraps an error as a SourceError
func WrapSource(source, resourceID string, err error) error {
	if err == nil {
		return nil
	}
	return &SourceError{Source: source, ResourceID: resourceID, Message: err.Error(), Err: err}
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, File: file, Message: err.Error(), Err: err}
}
