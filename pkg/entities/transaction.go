package entities

import "github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/codec"

// Transaction is a cash movement on the account.
type Transaction struct {
	Reference string
	Type      string
	Amount    *float64
	Currency  string
	DateTime  timeField
	Extra     map[string]any
}

var transactionPaths = []string{"reference", "type", "amount", "currency", "dateTime"}

// TransactionKind is the TRANSACTIONS resource.
var TransactionKind Kind = &kind{
	id:       TransactionsID,
	defaults: transactionPaths,
	schema: codec.Schema{
		"amount":   codec.KindNumber,
		"dateTime": codec.KindTimestamp,
	},
	construct: func(in codec.Input) Entity {
		return &Transaction{
			Reference: in.String("reference"),
			Type:      in.String("type"),
			Amount:    optFloat(in, "amount"),
			Currency:  upper(in.String("currency")),
			DateTime:  readTime(in, "dateTime"),
			Extra:     in.Without(transactionPaths...),
		}
	},
}

// Key returns the transaction reference.
func (t *Transaction) Key() string { return t.Reference }

// Validate implements Entity.
func (t *Transaction) Validate() error {
	const name = "transaction"
	if err := requireText(name, "reference", t.Reference); err != nil {
		return err
	}
	return firstError(
		requireNumber(name, "amount", t.Amount),
		currencyIfSet(name, "currency", t.Currency),
		requireTime(name, "dateTime", t.DateTime),
	)
}

// Nested implements Entity.
func (t *Transaction) Nested() map[string]any {
	return newBuilder(t.Extra).
		set("reference", t.Reference).
		set("type", t.Type).
		set("amount", t.Amount).
		set("currency", t.Currency).
		set("dateTime", t.DateTime.nested()).
		build()
}
