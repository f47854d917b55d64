package yamlfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/store/yamlfile"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/errors"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/mapping"
)

func TestMissingFile(t *testing.T) {
	table := yamlfile.New(filepath.Join(t.TempDir(), "none.yaml"))
	rows, err := table.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "mappings.yaml")
	table := yamlfile.New(path)
	assert.Equal(t, path, table.Name())

	rows := []mapping.Row{
		{"DIVIDENDS", "id", "Id", ""},
		{"DIVIDENDS", "amount.value", "Amount Value", "Paid"},
		{"ORDERS", "ticker", "Ticker", ""},
	}
	require.NoError(t, table.ReplaceAll(ctx, rows))

	got, err := yamlfile.New(path).ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, rows, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "apiFieldPath: amount.value")
}

func TestWithStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mappings.yaml")

	store := mapping.NewStore(yamlfile.New(path))
	_, err := store.Merge(ctx, "PIES", []string{"id", "progress"})
	require.NoError(t, err)
	require.NoError(t, store.SetUserHeader(ctx, "PIES", "progress", "Done"))

	got := mapping.NewStore(yamlfile.New(path)).GetAll(ctx, "PIES")
	require.Len(t, got, 2)
	assert.Equal(t, []string{"Id", "Done"}, mapping.Names(got))
}

func TestMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mappings: {not: [a list"), 0o644))

	_, err := yamlfile.New(path).ReadAll(context.Background())
	require.Error(t, err)
	var parseErr *errors.ParseError
	assert.True(t, errors.As(err, &parseErr))
}
