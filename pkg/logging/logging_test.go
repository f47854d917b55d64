package logging_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/logging"
)

func TestDefaultLogger(t *testing.T) {
	original := *logging.Default()
	originalLevel := zerolog.GlobalLevel()
	defer func() {
		logging.SetDefault(original)
		zerolog.SetGlobalLevel(originalLevel)
	}()

	buf := &bytes.Buffer{}
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	logging.SetDefault(zerolog.New(buf).Level(zerolog.InfoLevel))

	logging.Debug().Msg("debug message")
	logging.Info().Msg("info message")
	logging.Warn().Msg("warning message")

	output := buf.String()
	if !strings.Contains(output, "info message") {
		t.Errorf("Expected info message in output, got: %s", output)
	}
	if strings.Contains(output, "debug message") {
		t.Errorf("Debug message should be filtered, got: %s", output)
	}
}

func TestContextLogger(t *testing.T) {
	testLogger := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx = logging.WithRunID(ctx, "run-42")
	ctx = logging.WithResource(ctx, "DIVIDENDS")
	ctx = logging.WithOperation(ctx, "merge")

	logging.Ctx(ctx).Info().Msg("mappings merged")

	testLogger.AssertContains(t, `"run_id":"run-42"`)
	testLogger.AssertContains(t, `"resource":"DIVIDENDS"`)
	testLogger.AssertContains(t, `"operation":"merge"`)
	testLogger.AssertContains(t, "mappings merged")
	assert.Equal(t, "run-42", logging.RunID(ctx))
	assert.Len(t, testLogger.Lines(), 1)
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	//nolint:staticcheck // nil context is handled on purpose
	assert.Same(t, logging.Default(), logging.FromContext(nil))
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
	assert.Empty(t, logging.RunID(context.Background()))
}

func TestNewLoggerFromConfig(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(originalLevel)

	t.Run("json to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sheetsync.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{
			Level:  "warn",
			Format: "json",
			Output: path,
		})

		logger.Info().Msg("hidden")
		logger.Warn().Msg("visible")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(content), "hidden")
		assert.Contains(t, string(content), "visible")
	})

	t.Run("console format uses short levels", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "console.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{
			Level:   "info",
			Format:  "console",
			Output:  path,
			NoColor: true,
		})
		logger.Info().Str("resource", "PIES").Msg("console test")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "INF")
		assert.Contains(t, string(content), "console test")
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		cfg := logging.DefaultConfig()
		assert.Equal(t, "info", cfg.Level)
		assert.Equal(t, "auto", cfg.Format)
		assert.NotPanics(t, func() { logging.NewLoggerFromConfig(nil) })
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARNING", zerolog.WarnLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
		{"trace", zerolog.TraceLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, logging.ParseLevel(tt.in))
		})
	}
}

func TestCaptureLoggingForTest(t *testing.T) {
	captured := logging.CaptureLoggingForTest(t)
	logging.Warn().Str("path", "amount.value").Msg("field failed")

	captured.AssertContains(t, "field failed")
	captured.AssertNotContains(t, "something else")
}
