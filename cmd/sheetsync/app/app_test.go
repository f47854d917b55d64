package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/workbook"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/entities"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/errors"
)

const portfolioFixture = `[
  {"ticker": "AAPL_US_EQ", "quantity": 3, "averagePrice": 150.5},
  {"ticker": "MSFT_US_EQ", "quantity": 1, "averagePrice": 300}
]`

type testPaths struct {
	workbook string
	mappings string
	metrics  string
}

// newTestApp builds an App over a fixture directory, a temporary workbook and
// a YAML mapping file, configured through the environment.
func newTestApp(t *testing.T) (*App, testPaths) {
	t.Helper()
	isolate(t)

	dir := t.TempDir()
	fixtures := filepath.Join(dir, "fixtures")
	require.NoError(t, os.MkdirAll(fixtures, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(fixtures, "portfolio.json"), []byte(portfolioFixture), 0o644))

	p := testPaths{
		workbook: filepath.Join(dir, "portfolio.xlsx"),
		mappings: filepath.Join(dir, "mappings.yaml"),
		metrics:  filepath.Join(dir, "sheetsync.prom"),
	}
	t.Setenv("SHEETSYNC_WORKBOOK", p.workbook)
	t.Setenv("SHEETSYNC_SOURCE", "fixture")
	t.Setenv("SHEETSYNC_FIXTURE_DIR", fixtures)
	t.Setenv("SHEETSYNC_MAPPING_STORE", "yaml")
	t.Setenv("SHEETSYNC_MAPPING_FILE", p.mappings)
	t.Setenv("SHEETSYNC_METRICS_FILE", p.metrics)
	t.Setenv("SHEETSYNC_LOG_OUTPUT", "discard")

	app, err := New("1.2.3", "abc123", "2026-01-01", "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Shutdown(context.Background()) })
	return app, p
}

func run(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := app.createRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAppNew(t *testing.T) {
	app, _ := newTestApp(t)

	assert.Equal(t, "1.2.3", app.Version())
	assert.Equal(t, "abc123", app.Commit())
	assert.Equal(t, "2026-01-01", app.Date())
	assert.Equal(t, "test", app.BuiltBy())
	assert.NotNil(t, app.Logger())
	assert.NotNil(t, app.Config())

	settings, err := app.Settings()
	require.NoError(t, err)
	assert.Equal(t, "fixture", settings.Source)
}

func TestAppPushRenameAndPull(t *testing.T) {
	app, p := newTestApp(t)

	out, err := run(t, app, "push", "portfolio", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"operation": "push"`)
	assert.Contains(t, out, `"resourceId": "PORTFOLIO"`)

	out, err = run(t, app, "mappings", "rename", "portfolio", "averagePrice", "Avg Price", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"userDefinedHeader": "Avg Price"`)

	out, err = run(t, app, "pull", "portfolio", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "MSFT_US_EQ")

	require.NoError(t, app.Shutdown(context.Background()))

	book, err := workbook.Open(p.workbook)
	require.NoError(t, err)
	defer book.Close()

	header, err := book.Header(entities.PortfolioID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ticker", "Quantity", "Avg Price"}, header)

	rows, err := book.ReadAllRows(context.Background(), entities.PortfolioID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "AAPL_US_EQ", rows[0][0])

	mappingFile, err := os.ReadFile(p.mappings)
	require.NoError(t, err)
	assert.Contains(t, string(mappingFile), "Avg Price")

	metricsFile, err := os.ReadFile(p.metrics)
	require.NoError(t, err)
	assert.Contains(t, string(metricsFile), "sheetsync_resource_runs_total")
}

func TestAppPushDryRun(t *testing.T) {
	app, p := newTestApp(t)

	out, err := run(t, app, "push", "portfolio", "--dry-run", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"dryRun": true`)

	require.NoError(t, app.Shutdown(context.Background()))
	book, err := workbook.Open(p.workbook)
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.ReadAllRows(context.Background(), entities.PortfolioID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAppUnknownResource(t *testing.T) {
	app, _ := newTestApp(t)

	_, err := run(t, app, "mappings", "list", "nope")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestAppInvalidSettings(t *testing.T) {
	app, _ := newTestApp(t)
	t.Setenv("SHEETSYNC_MAPPING_STORE", "sqlite")

	_, err := run(t, app, "refresh")
	require.Error(t, err)
	var cfgErr *errors.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "mapping_store", cfgErr.Component)
}

func TestAppResourcesAndVersion(t *testing.T) {
	app, _ := newTestApp(t)

	out, err := run(t, app, "resources", "-o", "yaml")
	require.NoError(t, err)
	for _, id := range entities.IDs() {
		assert.Contains(t, out, id)
	}

	out, err = run(t, app, "version", "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "sheetsync 1.2.3")
	assert.Contains(t, out, "commit:   abc123")
}

func TestAppCompletion(t *testing.T) {
	app, _ := newTestApp(t)

	out, err := run(t, app, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "sheetsync")
}
