package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusNew       Status = "new"
	StatusPending   Status = "pending"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusPending, StatusReady, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Order is the durable result of a checkout. Total is a price snapshot taken
// at creation; later catalog changes never touch it. The only amendment after
// creation is cancellation with a reason.
type Order struct {
	ID                 string
	ClientID           string
	CreatedAt          time.Time
	Total              decimal.Decimal
	Status             Status
	CancellationReason string
	Items              []OrderItem
}

// OrderItem carries the unit price copied from the catalog at creation time,
// never a live reference.
type OrderItem struct {
	ID           string
	OrderID      string
	MenuItemID   string
	Name         string
	Quantity     int
	PricePerUnit decimal.Decimal
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.PricePerUnit.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type PlaceRequest struct {
	ClientID string
	Lines    []LineRequest
}

type LineRequest struct {
	MenuItemID   string
	Name         string
	Quantity     int
	PricePerUnit decimal.Decimal
}
