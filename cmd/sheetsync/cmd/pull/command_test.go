package pull

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/appcontext"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/entities"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/logging"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/mapping"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/sink"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/sources"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/sync"
)

func newApp(sk *sink.Memory, format string) *appcontext.Mock {
	table := mapping.NewMemoryTable(
		mapping.NewMapping(entities.PortfolioID, "ticker").Row(),
		mapping.NewMapping(entities.PortfolioID, "quantity").Row(),
	)
	return &appcontext.Mock{
		ServiceFunc: func(_ context.Context, opts ...sync.Option) (*sync.Service, error) {
			opts = append([]sync.Option{sync.WithKinds(entities.PositionKind)}, opts...)
			return sync.New(mapping.NewStore(table), sk, sources.NewStatic(), opts...)
		},
		OutputFormatFunc: func() string { return format },
	}
}

func execute(t *testing.T, app appcontext.Interface, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := &cobra.Command{Use: "sheetsync"}
	root.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})
	root.AddCommand(NewCommand(app))
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"pull"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestPullCommand(t *testing.T) {
	logging.DisableLoggingForTest(t)
	sk := sink.NewMemory()
	sk.SetRows(entities.PortfolioID, [][]any{{"AAPL_US_EQ", "3"}, {"MSFT_US_EQ", 1.5}})

	out, err := execute(t, newApp(sk, "json"), "portfolio")
	require.NoError(t, err)
	assert.Contains(t, out, "AAPL_US_EQ")
	assert.Contains(t, out, "MSFT_US_EQ")

	out, err = execute(t, newApp(sk, "table"), "portfolio")
	require.NoError(t, err)
	assert.Contains(t, out, "MSFT_US_EQ")
	assert.Contains(t, out, "1.5")
}

func TestPullCommandInvalidRow(t *testing.T) {
	logging.DisableLoggingForTest(t)
	sk := sink.NewMemory()
	sk.SetRows(entities.PortfolioID, [][]any{{"AAPL_US_EQ", "3"}, {"", "-2"}})

	_, err := execute(t, newApp(sk, "json"), "portfolio")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
}

func TestPullCommandRequiresResource(t *testing.T) {
	_, err := execute(t, newApp(sink.NewMemory(), "json"))
	assert.Error(t, err)
}
