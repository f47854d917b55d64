package entities

import "github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/codec"

// Position is an open portfolio position.
type Position struct {
	Ticker          string
	Quantity        *float64
	AveragePrice    *float64
	CurrentPrice    *float64
	PPL             *float64
	FXPPL           *float64
	PieQuantity     *float64
	MaxBuy          *float64
	MaxSell         *float64
	InitialFillDate timeField
	Extra           map[string]any
}

var positionPaths = []string{
	"ticker",
	"quantity",
	"averagePrice",
	"currentPrice",
	"ppl",
	"fxPpl",
	"pieQuantity",
	"maxBuy",
	"maxSell",
	"initialFillDate",
}

// PositionKind is the PORTFOLIO resource.
var PositionKind Kind = &kind{
	id:       PortfolioID,
	defaults: positionPaths,
	schema: codec.Schema{
		"quantity":        codec.KindNumber,
		"averagePrice":    codec.KindNumber,
		"currentPrice":    codec.KindNumber,
		"ppl":             codec.KindNumber,
		"fxPpl":           codec.KindNumber,
		"pieQuantity":     codec.KindNumber,
		"maxBuy":          codec.KindNumber,
		"maxSell":         codec.KindNumber,
		"initialFillDate": codec.KindTimestamp,
	},
	construct: func(in codec.Input) Entity {
		return &Position{
			Ticker:          in.String("ticker"),
			Quantity:        optFloat(in, "quantity"),
			AveragePrice:    optFloat(in, "averagePrice"),
			CurrentPrice:    optFloat(in, "currentPrice"),
			PPL:             optFloat(in, "ppl"),
			FXPPL:           optFloat(in, "fxPpl"),
			PieQuantity:     optFloat(in, "pieQuantity"),
			MaxBuy:          optFloat(in, "maxBuy"),
			MaxSell:         optFloat(in, "maxSell"),
			InitialFillDate: readTime(in, "initialFillDate"),
			Extra:           in.Without(positionPaths...),
		}
	},
}

// Key returns the position's ticker.
func (p *Position) Key() string { return p.Ticker }

// Validate implements Entity.
func (p *Position) Validate() error {
	const name = "position"
	return firstError(
		requireText(name, "ticker", p.Ticker),
		requirePositive(name, "quantity", p.Quantity),
		timeIfSet(name, "initialFillDate", p.InitialFillDate),
	)
}

// Nested implements Entity.
func (p *Position) Nested() map[string]any {
	return newBuilder(p.Extra).
		set("ticker", p.Ticker).
		set("quantity", p.Quantity).
		set("averagePrice", p.AveragePrice).
		set("currentPrice", p.CurrentPrice).
		set("ppl", p.PPL).
		set("fxPpl", p.FXPPL).
		set("pieQuantity", p.PieQuantity).
		set("maxBuy", p.MaxBuy).
		set("maxSell", p.MaxSell).
		set("initialFillDate", p.InitialFillDate.nested()).
		build()
}
