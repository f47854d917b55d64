package entities

import "github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/codec"

// Dividend is one paid-out dividend.
type Dividend struct {
	Reference           string
	Ticker              string
	Type                string
	Quantity            *float64
	Amount              *float64
	AmountInEuro        *float64
	GrossAmountPerShare *float64
	Currency            string
	TaxAmount           *float64
	TaxCurrency         string
	PaidOn              timeField
	Extra               map[string]any
}

var dividendPaths = []string{
	"reference",
	"ticker",
	"type",
	"quantity",
	"amount",
	"amountInEuro",
	"grossAmountPerShare",
	"currency",
	"tax.amount",
	"tax.currency",
	"paidOn",
}

// DividendKind is the DIVIDENDS resource.
var DividendKind Kind = &kind{
	id:       DividendsID,
	defaults: dividendPaths,
	schema: codec.Schema{
		"quantity":            codec.KindNumber,
		"amount":              codec.KindNumber,
		"amountInEuro":        codec.KindNumber,
		"grossAmountPerShare": codec.KindNumber,
		"tax.amount":          codec.KindNumber,
		"paidOn":              codec.KindTimestamp,
	},
	construct: func(in codec.Input) Entity {
		return &Dividend{
			Reference:           in.String("reference"),
			Ticker:              in.String("ticker"),
			Type:                in.String("type"),
			Quantity:            optFloat(in, "quantity"),
			Amount:              optFloat(in, "amount"),
			AmountInEuro:        optFloat(in, "amountInEuro"),
			GrossAmountPerShare: optFloat(in, "grossAmountPerShare"),
			Currency:            upper(in.String("currency")),
			TaxAmount:           optFloat(in, "tax.amount"),
			TaxCurrency:         upper(in.String("tax.currency")),
			PaidOn:              readTime(in, "paidOn"),
			Extra:               in.Without(dividendPaths...),
		}
	},
}

// Key returns the dividend reference.
func (d *Dividend) Key() string { return d.Reference }

// Validate implements Entity.
func (d *Dividend) Validate() error {
	const name = "dividend"
	err := firstError(
		requireText(name, "reference", d.Reference),
		requireText(name, "ticker", d.Ticker),
		requirePositive(name, "quantity", d.Quantity),
		currencyIfSet(name, "currency", d.Currency),
		requireTime(name, "paidOn", d.PaidOn),
	)
	if err != nil {
		return err
	}
	if d.TaxAmount != nil {
		if d.TaxCurrency == "" {
			return newRequiredTogether(name, "tax.currency", "tax.amount")
		}
		return currencyCode(name, "tax.currency", d.TaxCurrency)
	}
	return nil
}

// Nested implements Entity.
func (d *Dividend) Nested() map[string]any {
	return newBuilder(d.Extra).
		set("reference", d.Reference).
		set("ticker", d.Ticker).
		set("type", d.Type).
		set("quantity", d.Quantity).
		set("amount", d.Amount).
		set("amountInEuro", d.AmountInEuro).
		set("grossAmountPerShare", d.GrossAmountPerShare).
		set("currency", d.Currency).
		set("tax.amount", d.TaxAmount).
		set("tax.currency", d.TaxCurrency).
		set("paidOn", d.PaidOn.nested()).
		build()
}
