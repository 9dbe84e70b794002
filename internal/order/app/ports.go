package app

import (
	"context"

	"github.com/dwikikusuma/coffeeshop/internal/order/domain"
)

type OrderRepo interface {
	// CreateOrderTx persists the order and all its items in one transaction:
	// all rows or none.
	CreateOrderTx(ctx context.Context, order domain.Order) (domain.Order, error)
	ListByClient(ctx context.Context, clientID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.Status) error
	Cancel(ctx context.Context, orderID string, reason string) error
}
