package entities

import "github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/codec"

// Order is a historical or pending order.
type Order struct {
	ID             string
	Ticker         string
	Type           string
	Status         string
	Quantity       *float64
	FilledQuantity *float64
	FillPrice      *float64
	LimitPrice     *float64
	StopPrice      *float64
	FilledValue    *float64
	Currency       string
	DateCreated    timeField
	DateExecuted   timeField
	Extra          map[string]any
}

var orderPaths = []string{
	"id",
	"ticker",
	"type",
	"status",
	"orderedQuantity",
	"filledQuantity",
	"fillPrice",
	"limitPrice",
	"stopPrice",
	"filledValue",
	"currency",
	"dateCreated",
	"dateExecuted",
}

// OrderKind is the ORDERS resource.
var OrderKind Kind = &kind{
	id:       OrdersID,
	defaults: orderPaths,
	schema: codec.Schema{
		"orderedQuantity": codec.KindNumber,
		"filledQuantity":  codec.KindNumber,
		"fillPrice":       codec.KindNumber,
		"limitPrice":      codec.KindNumber,
		"stopPrice":       codec.KindNumber,
		"filledValue":     codec.KindNumber,
		"dateCreated":     codec.KindTimestamp,
		"dateExecuted":    codec.KindTimestamp,
	},
	construct: func(in codec.Input) Entity {
		return &Order{
			ID:             in.String("id"),
			Ticker:         in.String("ticker"),
			Type:           in.String("type"),
			Status:         in.String("status"),
			Quantity:       optFloat(in, "orderedQuantity"),
			FilledQuantity: optFloat(in, "filledQuantity"),
			FillPrice:      optFloat(in, "fillPrice"),
			LimitPrice:     optFloat(in, "limitPrice"),
			StopPrice:      optFloat(in, "stopPrice"),
			FilledValue:    optFloat(in, "filledValue"),
			Currency:       upper(in.String("currency")),
			DateCreated:    readTime(in, "dateCreated"),
			DateExecuted:   readTime(in, "dateExecuted"),
			Extra:          in.Without(orderPaths...),
		}
	},
}

// Key returns the order ID.
func (o *Order) Key() string { return o.ID }

// Validate implements Entity.
func (o *Order) Validate() error {
	const name = "order"
	err := firstError(
		requireText(name, "id", o.ID),
		requireText(name, "ticker", o.Ticker),
		positiveIfSet(name, "orderedQuantity", o.Quantity),
		currencyIfSet(name, "currency", o.Currency),
		timeIfSet(name, "dateCreated", o.DateCreated),
		timeIfSet(name, "dateExecuted", o.DateExecuted),
	)
	if err != nil {
		return err
	}
	if o.FilledQuantity != nil && *o.FilledQuantity != 0 && o.FillPrice == nil {
		return newRequiredTogether(name, "fillPrice", "filledQuantity")
	}
	return nil
}

// Nested implements Entity.
func (o *Order) Nested() map[string]any {
	return newBuilder(o.Extra).
		set("id", o.ID).
		set("ticker", o.Ticker).
		set("type", o.Type).
		set("status", o.Status).
		set("orderedQuantity", o.Quantity).
		set("filledQuantity", o.FilledQuantity).
		set("fillPrice", o.FillPrice).
		set("limitPrice", o.LimitPrice).
		set("stopPrice", o.StopPrice).
		set("filledValue", o.FilledValue).
		set("currency", o.Currency).
		set("dateCreated", o.DateCreated.nested()).
		set("dateExecuted", o.DateExecuted.nested()).
		build()
}
