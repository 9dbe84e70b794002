package app

import (
	"context"

	"github.com/dwikikusuma/coffeeshop/internal/checkout/domain"
	"github.com/dwikikusuma/coffeeshop/internal/session"
	"github.com/shopspring/decimal"
)

type CartGateway interface {
	Lines(scope *session.Scope) map[string]int
	TotalQuantity(scope *session.Scope) int
	Clear(scope *session.Scope)
}

type CatalogItem struct {
	ID    string
	Name  string
	Price decimal.Decimal
}

// CatalogReader resolves ids to currently available items in one batched
// lookup. Ids that are unknown or out of stock are absent from the result.
type CatalogReader interface {
	FindAvailable(ctx context.Context, ids []string) ([]CatalogItem, error)
}

type Identity interface {
	Verify(ctx context.Context, userID, secret string) (bool, error)
}

type OrderPlacer interface {
	Place(ctx context.Context, clientID string, lines []domain.PricedLine) (orderID string, err error)
}

// Notifier announces a placed order. Failures are logged, never surfaced: by
// the time it runs the order is already committed.
type Notifier interface {
	OrderPlaced(ctx context.Context, orderID, clientID string, total decimal.Decimal) error
}
