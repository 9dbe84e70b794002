package domain

import "github.com/shopspring/decimal"

// PricedLine is a cart entry joined against the live catalog. It exists only
// for entries that resolved to an in-stock item at materialization time; it
// is never persisted.
type PricedLine struct {
	ItemID    string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// Result is the user-facing outcome of a checkout attempt.
type Result struct {
	OrderID  string
	Message  string
	Redirect string
}
