package sources_test

import (
	"context"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/errors"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/sources"
)

func TestStatic(t *testing.T) {
	ctx := context.Background()
	src := sources.NewStatic().
		Set("DIVIDENDS", []any{map[string]any{"id": "d1"}}).
		Set("ORDERS", nil)

	got, err := src.Fetch(ctx, "DIVIDENDS")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = src.Fetch(ctx, "UNKNOWN")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.Equal(t, []string{"DIVIDENDS", "ORDERS"}, src.IDs())

	src.Fail("ORDERS", errors.New("offline"))
	_, err = src.Fetch(ctx, "ORDERS")
	require.Error(t, err)
	assert.True(t, errors.IsSourceUnavailable(err))

	src.Delete("ORDERS")
	assert.Equal(t, []string{"DIVIDENDS"}, src.IDs())
}

func TestStaticHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := sources.NewStatic().Fetch(ctx, "DIVIDENDS")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFunc(t *testing.T) {
	var src sources.Source = sources.Func(func(_ context.Context, id string) (any, error) {
		return map[string]any{"resource": id}, nil
	})
	got, err := src.Fetch(context.Background(), "PIES")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"resource": "PIES"}, got)
}

func TestUnwrap(t *testing.T) {
	items := []any{map[string]any{"id": 1}}

	assert.Equal(t, items, sources.Unwrap(map[string]any{"items": items, "nextPagePath": nil}))
	assert.Equal(t, items, sources.Unwrap(yaml.MapSlice{
		{Key: "items", Value: items},
		{Key: "nextPagePath", Value: "/next"},
	}))

	single := map[string]any{"free": 10.0}
	assert.Equal(t, single, sources.Unwrap(single))
	assert.Equal(t, "x", sources.Unwrap("x"))
}
