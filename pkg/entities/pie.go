package entities

import "github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/codec"

// Pie is an investment pie with its aggregated result.
type Pie struct {
	ID                  string
	Status              string
	Cash                *float64
	Progress            *float64
	InvestedValue       *float64
	Value               *float64
	Result              *float64
	ResultCoef          *float64
	DividendsGained     *float64
	DividendsInCash     *float64
	DividendsReinvested *float64
	Extra               map[string]any
}

var piePaths = []string{
	"id",
	"status",
	"cash",
	"progress",
	"result.priceAvgInvestedValue",
	"result.priceAvgValue",
	"result.priceAvgResult",
	"result.priceAvgResultCoef",
	"dividendDetails.gained",
	"dividendDetails.inCash",
	"dividendDetails.reinvested",
}

// PieKind is the PIES resource.
var PieKind Kind = &kind{
	id:       PiesID,
	defaults: piePaths,
	schema: codec.Schema{
		"cash":                         codec.KindNumber,
		"progress":                     codec.KindRatio,
		"result.priceAvgInvestedValue": codec.KindNumber,
		"result.priceAvgValue":         codec.KindNumber,
		"result.priceAvgResult":        codec.KindNumber,
		"result.priceAvgResultCoef":    codec.KindRatio,
		"dividendDetails.gained":       codec.KindNumber,
		"dividendDetails.inCash":       codec.KindNumber,
		"dividendDetails.reinvested":   codec.KindNumber,
	},
	construct: func(in codec.Input) Entity {
		return &Pie{
			ID:                  in.String("id"),
			Status:              in.String("status"),
			Cash:                optFloat(in, "cash"),
			Progress:            optFloat(in, "progress"),
			InvestedValue:       optFloat(in, "result.priceAvgInvestedValue"),
			Value:               optFloat(in, "result.priceAvgValue"),
			Result:              optFloat(in, "result.priceAvgResult"),
			ResultCoef:          optFloat(in, "result.priceAvgResultCoef"),
			DividendsGained:     optFloat(in, "dividendDetails.gained"),
			DividendsInCash:     optFloat(in, "dividendDetails.inCash"),
			DividendsReinvested: optFloat(in, "dividendDetails.reinvested"),
			Extra:               in.Without(piePaths...),
		}
	},
}

// Key returns the pie ID.
func (p *Pie) Key() string { return p.ID }

// Validate implements Entity.
func (p *Pie) Validate() error {
	return requireText("pie", "id", p.ID)
}

// Nested implements Entity.
func (p *Pie) Nested() map[string]any {
	return newBuilder(p.Extra).
		set("id", p.ID).
		set("status", p.Status).
		set("cash", p.Cash).
		set("progress", p.Progress).
		set("result.priceAvgInvestedValue", p.InvestedValue).
		set("result.priceAvgValue", p.Value).
		set("result.priceAvgResult", p.Result).
		set("result.priceAvgResultCoef", p.ResultCoef).
		set("dividendDetails.gained", p.DividendsGained).
		set("dividendDetails.inCash", p.DividendsInCash).
		set("dividendDetails.reinvested", p.DividendsReinvested).
		build()
}
