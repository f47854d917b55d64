package entities

import "github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/codec"

// Instrument is a tradable instrument.
type Instrument struct {
	Ticker          string
	Name            string
	ShortName       string
	ISIN            string
	Type            string
	CurrencyCode    string
	MaxOpenQuantity *float64
	AddedOn         timeField
	Extra           map[string]any
}

var instrumentPaths = []string{
	"ticker",
	"name",
	"shortName",
	"isin",
	"type",
	"currencyCode",
	"maxOpenQuantity",
	"addedOn",
}

// InstrumentKind is the INSTRUMENTS resource.
var InstrumentKind Kind = &kind{
	id:       InstrumentsID,
	defaults: instrumentPaths,
	schema: codec.Schema{
		"maxOpenQuantity": codec.KindNumber,
		"addedOn":         codec.KindTimestamp,
	},
	construct: func(in codec.Input) Entity {
		return &Instrument{
			Ticker:          in.String("ticker"),
			Name:            in.String("name"),
			ShortName:       in.String("shortName"),
			ISIN:            in.String("isin"),
			Type:            in.String("type"),
			CurrencyCode:    upper(in.String("currencyCode")),
			MaxOpenQuantity: optFloat(in, "maxOpenQuantity"),
			AddedOn:         readTime(in, "addedOn"),
			Extra:           in.Without(instrumentPaths...),
		}
	},
}

// Key returns the instrument ticker.
func (i *Instrument) Key() string { return i.Ticker }

// Validate implements Entity.
func (i *Instrument) Validate() error {
	const name = "instrument"
	return firstError(
		requireText(name, "ticker", i.Ticker),
		currencyCode(name, "currencyCode", i.CurrencyCode),
		positiveIfSet(name, "maxOpenQuantity", i.MaxOpenQuantity),
		timeIfSet(name, "addedOn", i.AddedOn),
	)
}

// Nested implements Entity.
func (i *Instrument) Nested() map[string]any {
	return newBuilder(i.Extra).
		set("ticker", i.Ticker).
		set("name", i.Name).
		set("shortName", i.ShortName).
		set("isin", i.ISIN).
		set("type", i.Type).
		set("currencyCode", i.CurrencyCode).
		set("maxOpenQuantity", i.MaxOpenQuantity).
		set("addedOn", i.AddedOn.nested()).
		build()
}
