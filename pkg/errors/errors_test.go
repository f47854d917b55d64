package errors_test

import (
	"errors"
	"testing"

	pkgerrors "github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{Resource: "mapping", ID: "ticker"}
		assert.Equal(t, "mapping with ID ticker not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		wrapped := errors.Join(errors.New("failed"), pkgerrors.NewNotFoundError("mapping", "x"))
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with entity and field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("order", "filledQuantity", -1.0, "must be positive")
		assert.Equal(t, "order validation failed for field filledQuantity: must be positive", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "empty input"}
		assert.Equal(t, "validation failed: empty input", err.Error())
	})
}

func TestStructuralError(t *testing.T) {
	err := pkgerrors.NewStructuralError("a.b", 65, "nesting exceeds 64 levels")
	assert.Contains(t, err.Error(), `"a.b"`)
	assert.True(t, pkgerrors.IsStructural(err))
	assert.False(t, pkgerrors.IsValidationError(err))
}

func TestMappingInitializationError(t *testing.T) {
	cause := errors.New("no sample")
	err := pkgerrors.NewMappingInitializationError("PIES", "no field paths available", cause)

	assert.True(t, pkgerrors.IsMappingInitialization(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "PIES")
}

func TestWrapHelpers(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"store io", pkgerrors.WrapStoreIO("read", "mappings.yaml", base), pkgerrors.ErrStoreIO},
		{"sink", pkgerrors.WrapSink("replace", "ORDERS", base), pkgerrors.ErrSink},
		{"source", pkgerrors.WrapSource("http", "ORDERS", base), pkgerrors.ErrSourceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.err)
			assert.ErrorIs(t, tt.err, tt.target)
			assert.ErrorIs(t, tt.err, base)
		})
	}

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, pkgerrors.WrapStoreIO("read", "x", nil))
		assert.NoError(t, pkgerrors.WrapSink("read", "x", nil))
		assert.NoError(t, pkgerrors.WrapSource("http", "x", nil))
		assert.NoError(t, pkgerrors.WrapParse("json", "x", nil))
	})

	t.Run("parse", func(t *testing.T) {
		var perr *pkgerrors.ParseError
		err := pkgerrors.WrapParse("yaml", "DIVIDENDS.yaml", base)
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, "yaml", perr.Format)
	})
}
