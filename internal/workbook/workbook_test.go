package workbook_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/workbook"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/mapping"
)

func TestSinkRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "portfolio.xlsx")

	wb, err := workbook.Open(path)
	require.NoError(t, err)

	rows, err := wb.ReadAllRows(ctx, "DIVIDENDS")
	require.NoError(t, err)
	assert.Empty(t, rows)

	require.NoError(t, wb.ReplaceRows(ctx, "DIVIDENDS", [][]any{
		{"d1", 1.5, "USD"},
		{"d2", 2.0, ""},
	}, []string{"Reference", "Amount", "Currency"}))
	require.NoError(t, wb.Close())

	reopened, err := workbook.Open(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	header, err := reopened.Header("DIVIDENDS")
	require.NoError(t, err)
	assert.Equal(t, []string{"Reference", "Amount", "Currency"}, header)

	rows, err = reopened.ReadAllRows(ctx, "DIVIDENDS")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []any{"d1", "1.5", "USD"}, rows[0])
	assert.Equal(t, "d2", rows[1][0])
	assert.Equal(t, "2", rows[1][1])

	assert.Equal(t, []string{"DIVIDENDS"}, reopened.Sheets())
}

func TestReplaceRowsShrinks(t *testing.T) {
	ctx := context.Background()
	wb := workbook.New()

	require.NoError(t, wb.ReplaceRows(ctx, "ORDERS", [][]any{{"o1"}, {"o2"}, {"o3"}}, []string{"Id"}))
	require.NoError(t, wb.ReplaceRows(ctx, "ORDERS", [][]any{{"o4"}}, []string{"Id"}))

	rows, err := wb.ReadAllRows(ctx, "ORDERS")
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"o4"}}, rows)
}

func TestDeclareColumnsKeepsData(t *testing.T) {
	ctx := context.Background()
	wb := workbook.New()

	require.NoError(t, wb.ReplaceRows(ctx, "PIES", [][]any{{"p1", "0.5", "x"}}, []string{"Id", "Progress", "Legacy"}))
	require.NoError(t, wb.DeclareColumns(ctx, "PIES", []string{"Pie", "Progress"}))

	header, err := wb.Header("PIES")
	require.NoError(t, err)
	assert.Equal(t, []string{"Pie", "Progress"}, header)

	rows, err := wb.ReadAllRows(ctx, "PIES")
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"p1", "0.5", "x"}}, rows)

	require.NoError(t, wb.DeclareColumns(ctx, "ACCOUNT", []string{"Id"}))
	header, err = wb.Header("ACCOUNT")
	require.NoError(t, err)
	assert.Equal(t, []string{"Id"}, header)
}

func TestMappingSheet(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "book.xlsx")
	wb, err := workbook.Open(path)
	require.NoError(t, err)

	table := wb.MappingSheet()
	assert.Equal(t, "_FieldMappings", table.Name())

	rows, err := table.ReadAll(ctx)
	require.NoError(t, err)
	assert.Nil(t, rows, "missing sheet reads as missing table")

	store := mapping.NewStore(table)
	_, err = store.Merge(ctx, "DIVIDENDS", []string{"id", "amount.value"})
	require.NoError(t, err)
	require.NoError(t, store.SetUserHeader(ctx, "DIVIDENDS", "id", "Reference"))
	require.NoError(t, wb.Close())

	reopened, err := workbook.Open(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	header, err := reopened.Header("_FieldMappings")
	require.NoError(t, err)
	assert.Equal(t, mapping.Columns, header)

	got := mapping.NewStore(reopened.MappingSheet()).GetAll(ctx, "DIVIDENDS")
	require.Len(t, got, 2)
	assert.Equal(t, "Reference", got[0].EffectiveHeader())
	assert.Equal(t, "Amount Value", got[1].EffectiveHeader())
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	wb := workbook.New()
	assert.Error(t, wb.DeclareColumns(ctx, "X", []string{"a"}))
	assert.Error(t, wb.ReplaceRows(ctx, "X", nil, []string{"a"}))
	_, err := wb.ReadAllRows(ctx, "X")
	assert.Error(t, err)
	_, err = wb.MappingSheet().ReadAll(ctx)
	assert.Error(t, err)
}
