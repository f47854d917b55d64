package entities

import "github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/codec"

// AccountSummary is the account's cash and valuation snapshot.
type AccountSummary struct {
	ID           string
	CurrencyCode string
	Free         *float64
	Total        *float64
	Invested     *float64
	PPL          *float64
	Result       *float64
	Blocked      *float64
	Extra        map[string]any
}

var accountPaths = []string{
	"id",
	"currencyCode",
	"cash.free",
	"cash.total",
	"cash.invested",
	"cash.ppl",
	"cash.result",
	"cash.blocked",
}

// AccountSummaryKind is the ACCOUNT resource.
var AccountSummaryKind Kind = &kind{
	id:       AccountID,
	defaults: accountPaths,
	schema: codec.Schema{
		"cash.free":     codec.KindNumber,
		"cash.total":    codec.KindNumber,
		"cash.invested": codec.KindNumber,
		"cash.ppl":      codec.KindNumber,
		"cash.result":   codec.KindNumber,
		"cash.blocked":  codec.KindNumber,
	},
	construct: func(in codec.Input) Entity {
		return &AccountSummary{
			ID:           in.String("id"),
			CurrencyCode: upper(in.String("currencyCode")),
			Free:         optFloat(in, "cash.free"),
			Total:        optFloat(in, "cash.total"),
			Invested:     optFloat(in, "cash.invested"),
			PPL:          optFloat(in, "cash.ppl"),
			Result:       optFloat(in, "cash.result"),
			Blocked:      optFloat(in, "cash.blocked"),
			Extra:        in.Without(accountPaths...),
		}
	},
}

// Key returns the account ID.
func (a *AccountSummary) Key() string { return a.ID }

// Validate implements Entity.
func (a *AccountSummary) Validate() error {
	const name = "account"
	return firstError(
		requireText(name, "id", a.ID),
		currencyCode(name, "currencyCode", a.CurrencyCode),
	)
}

// Nested implements Entity.
func (a *AccountSummary) Nested() map[string]any {
	return newBuilder(a.Extra).
		set("id", a.ID).
		set("currencyCode", a.CurrencyCode).
		set("cash.free", a.Free).
		set("cash.total", a.Total).
		set("cash.invested", a.Invested).
		set("cash.ppl", a.PPL).
		set("cash.result", a.Result).
		set("cash.blocked", a.Blocked).
		build()
}
