package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/codec"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/entities"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/mapping"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/sync"
)

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"table", "JSON", " yaml ", ""} {
		_, err := ParseFormat(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestFormatters(t *testing.T) {
	data := map[string]any{"resource": "ORDERS", "rows": 2}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatJSON).Format(&buf, data))
	assert.JSONEq(t, `{"resource": "ORDERS", "rows": 2}`, buf.String())

	buf.Reset()
	require.NoError(t, NewFormatter(FormatYAML).Format(&buf, data))
	assert.Contains(t, buf.String(), "resource: ORDERS")

	buf.Reset()
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, Data{
		Headers: []string{"Resource", "Rows"},
		Rows:    [][]string{{"ORDERS", "2"}},
	}))
	assert.Contains(t, buf.String(), "ORDERS")
}

func TestMappings(t *testing.T) {
	m := mapping.NewMapping("DIVIDENDS", "amount.value")
	m.UserDefinedHeader = "Paid"
	data := Mappings([]mapping.FieldMapping{mapping.NewMapping("DIVIDENDS", "id"), m})

	require.Len(t, data.Rows, 2)
	assert.Equal(t, []string{"1", "id", "Id", "", "Id"}, data.Rows[0])
	assert.Equal(t, []string{"2", "amount.value", "Amount Value", "Paid", "Paid"}, data.Rows[1])
}

func TestChanges(t *testing.T) {
	data := Changes(mapping.Changes{Added: []string{"ppl"}, Removed: []string{"fxPpl"}})
	assert.Equal(t, [][]string{{"added", "ppl"}, {"removed", "fxPpl"}}, data.Rows)
}

func TestResult(t *testing.T) {
	data := Result(&sync.Result{Resources: []sync.ResourceResult{
		{ResourceID: "ORDERS", Rows: 3, Columns: 5, Added: []string{"id", "ticker"}},
		{ResourceID: "PIES", Err: errors.New("boom")},
	}})
	require.Len(t, data.Rows, 2)
	assert.Equal(t, []string{"ORDERS", "ok", "3", "5", "0", "id, ticker", "", ""}, data.Rows[0])
	assert.Equal(t, "failed", data.Rows[1][1])
	assert.Equal(t, "boom", data.Rows[1][7])
}

func TestEntities(t *testing.T) {
	e, err := entities.PositionKind.New(map[string]any{"ticker": "AAPL_US_EQ", "quantity": 2.0})
	require.NoError(t, err)

	headers := []mapping.FieldMapping{
		mapping.NewMapping(entities.PortfolioID, "ticker"),
		mapping.NewMapping(entities.PortfolioID, "quantity"),
	}
	data := Entities(headers, codec.Schema{"quantity": codec.KindNumber}, []entities.Entity{e})
	assert.Equal(t, []string{"Ticker", "Quantity"}, data.Headers)
	assert.Equal(t, [][]string{{"AAPL_US_EQ", "2"}}, data.Rows)
}

func TestKinds(t *testing.T) {
	data := Kinds([]entities.Kind{entities.InstrumentKind})
	require.Len(t, data.Rows, 1)
	assert.Equal(t, entities.InstrumentsID, data.Rows[0][0])
}

func TestWrite(t *testing.T) {
	value := map[string]any{"resource": "PIES"}
	view := Data{Headers: []string{"Resource"}, Rows: [][]string{{"PIES-TABLE"}}}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatTable, value, view))
	assert.Contains(t, buf.String(), "PIES-TABLE")

	buf.Reset()
	require.NoError(t, Write(&buf, FormatJSON, value, view))
	assert.JSONEq(t, `{"resource": "PIES"}`, buf.String())
}
