package entities_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/codec"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/entities"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/errors"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/mapping"
)

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"ACCOUNT", "DIVIDENDS", "INSTRUMENTS", "ORDERS", "PIES", "PORTFOLIO", "TRANSACTIONS"}, entities.IDs())

	k, err := entities.Lookup(entities.DividendsID)
	require.NoError(t, err)
	assert.Equal(t, entities.DividendKind, k)

	_, err = entities.Lookup("UNKNOWN")
	assert.True(t, errors.IsNotFound(err))

	assert.Error(t, entities.Register(entities.OrderKind), "duplicates are rejected")
	assert.Error(t, entities.Register(nil))
}

func TestKindsDeclareFallbackPaths(t *testing.T) {
	for _, k := range entities.All() {
		t.Run(k.ResourceID(), func(t *testing.T) {
			defaults := k.DefaultFieldPaths()
			require.NotEmpty(t, defaults)
			for path := range k.Schema() {
				assert.Contains(t, defaults, path)
			}
			defaults[0] = "mutated"
			assert.NotEqual(t, "mutated", k.DefaultFieldPaths()[0])
		})
	}
}

func validDividend() map[string]any {
	return map[string]any{
		"reference": "div-1",
		"ticker":    "AAPL_US_EQ",
		"quantity":  3.0,
		"amount":    1.23,
		"currency":  "usd",
		"paidOn":    "2024-02-15T00:00:00Z",
		"tax":       map[string]any{"amount": 0.18, "currency": "USD"},
		"custom":    map[string]any{"note": "from sheet"},
	}
}

func TestDividend(t *testing.T) {
	e, err := entities.DividendKind.New(validDividend())
	require.NoError(t, err)

	d := e.(*entities.Dividend)
	assert.Equal(t, "div-1", d.Key())
	assert.Equal(t, "USD", d.Currency)
	assert.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), d.PaidOn.Value)
	assert.Equal(t, map[string]any{"custom": map[string]any{"note": "from sheet"}}, d.Extra)

	nested := d.Nested()
	assert.Equal(t, 3.0, nested["quantity"])
	assert.Equal(t, map[string]any{"amount": 0.18, "currency": "USD"}, nested["tax"])
	assert.Equal(t, map[string]any{"note": "from sheet"}, nested["custom"])
	assert.NotContains(t, nested, "type")
}

func TestNestedModeledFieldReplacesExtraScalar(t *testing.T) {
	tax := 0.18
	d := &entities.Dividend{
		Reference:   "div-1",
		TaxAmount:   &tax,
		TaxCurrency: "USD",
		Extra:       map[string]any{"tax": "n/a", "custom": "kept"},
	}

	nested := d.Nested()
	assert.Equal(t, map[string]any{"amount": 0.18, "currency": "USD"}, nested["tax"])
	assert.Equal(t, "kept", nested["custom"])
	assert.Equal(t, "n/a", d.Extra["tax"], "Extra itself is not modified")
}

func TestDividendValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m map[string]any)
		field  string
	}{
		{"missing reference", func(m map[string]any) { m["reference"] = " " }, "reference"},
		{"zero quantity", func(m map[string]any) { m["quantity"] = 0.0 }, "quantity"},
		{"missing quantity", func(m map[string]any) { delete(m, "quantity") }, "quantity"},
		{"bad currency", func(m map[string]any) { m["currency"] = "DOLLAR" }, "currency"},
		{"unparseable date", func(m map[string]any) { m["paidOn"] = "last tuesday" }, "paidOn"},
		{"missing date", func(m map[string]any) { delete(m, "paidOn") }, "paidOn"},
		{"tax without currency", func(m map[string]any) { m["tax"] = map[string]any{"amount": 0.1} }, "tax.currency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validDividend()
			tt.mutate(input)

			e, err := entities.DividendKind.New(input)
			assert.Nil(t, e)
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))

			var verr *errors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestOrderValidation(t *testing.T) {
	base := func() map[string]any {
		return map[string]any{
			"id":              "o-1",
			"ticker":          "MSFT_US_EQ",
			"status":          "FILLED",
			"orderedQuantity": 2.0,
			"filledQuantity":  2.0,
			"fillPrice":       410.5,
			"dateCreated":     "2024-01-02T09:30:00Z",
		}
	}

	_, err := entities.OrderKind.New(base())
	require.NoError(t, err)

	noPrice := base()
	delete(noPrice, "fillPrice")
	_, err = entities.OrderKind.New(noPrice)
	var verr *errors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "fillPrice", verr.Field)

	pending := base()
	delete(pending, "fillPrice")
	pending["filledQuantity"] = 0.0
	_, err = entities.OrderKind.New(pending)
	assert.NoError(t, err)

	negative := base()
	negative["orderedQuantity"] = -1.0
	_, err = entities.OrderKind.New(negative)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "orderedQuantity", verr.Field)
}

func TestOtherKinds(t *testing.T) {
	tests := []struct {
		kind    entities.Kind
		valid   map[string]any
		invalid map[string]any
		key     string
	}{
		{
			kind:    entities.TransactionKind,
			valid:   map[string]any{"reference": "t-1", "type": "DEPOSIT", "amount": -50.0, "currency": "EUR", "dateTime": "2024-01-01T00:00:00Z"},
			invalid: map[string]any{"reference": "t-1", "dateTime": "2024-01-01T00:00:00Z"},
			key:     "t-1",
		},
		{
			kind:    entities.PositionKind,
			valid:   map[string]any{"ticker": "AAPL_US_EQ", "quantity": 1.5, "averagePrice": 180.0},
			invalid: map[string]any{"ticker": "AAPL_US_EQ", "quantity": -1.0},
			key:     "AAPL_US_EQ",
		},
		{
			kind:    entities.PieKind,
			valid:   map[string]any{"id": "12", "progress": 0.155, "result": map[string]any{"priceAvgValue": 100.0}},
			invalid: map[string]any{"status": "AHEAD"},
			key:     "12",
		},
		{
			kind:    entities.InstrumentKind,
			valid:   map[string]any{"ticker": "VUSA_EQ", "currencyCode": "GBP", "addedOn": "2021-03-01T00:00:00Z"},
			invalid: map[string]any{"ticker": "VUSA_EQ", "currencyCode": "GBX1"},
			key:     "VUSA_EQ",
		},
		{
			kind:    entities.AccountSummaryKind,
			valid:   map[string]any{"id": "acc", "currencyCode": "EUR", "cash": map[string]any{"free": 10.0}},
			invalid: map[string]any{"id": "", "currencyCode": "EUR"},
			key:     "acc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.kind.ResourceID(), func(t *testing.T) {
			e, err := tt.kind.New(tt.valid)
			require.NoError(t, err)
			assert.Equal(t, tt.key, e.Key())
			assert.NoError(t, e.Validate())

			_, err = tt.kind.New(tt.invalid)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestEntityCodecRoundTrip(t *testing.T) {
	kind := entities.DividendKind
	var headers []mapping.FieldMapping
	for _, p := range append(kind.DefaultFieldPaths(), "custom.note") {
		headers = append(headers, mapping.NewMapping(kind.ResourceID(), p))
	}

	original, err := kind.New(validDividend())
	require.NoError(t, err)

	row := codec.Encode(original.Nested(), headers, kind.Schema())
	require.Empty(t, row.Failures())

	decoded, _ := codec.Decode(row.Values(), headers, kind.Schema())
	again, err := kind.New(decoded)
	require.NoError(t, err)
	assert.Equal(t, original.Nested(), again.Nested())
}
