package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dwikikusuma/coffeeshop/internal/order/domain"
	"github.com/shopspring/decimal"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	repo OrderRepo
}

func NewService(repo OrderRepo) *Service {
	return &Service{repo: repo}
}

// Place creates an order with status "new". The total is computed here from
// the request's unit prices, so the persisted rows carry the prices the
// caller saw, not whatever the catalog says later.
func (s *Service) Place(ctx context.Context, req domain.PlaceRequest) (domain.Order, error) {
	if strings.TrimSpace(req.ClientID) == "" {
		return domain.Order{}, fmt.Errorf("%w: missing client id", ErrInvalidInput)
	}

	items := make([]domain.OrderItem, 0, len(req.Lines))
	total := decimal.Zero

	for i, line := range req.Lines {
		if line.Quantity <= 0 {
			return domain.Order{}, fmt.Errorf("%w: line %d: quantity must be positive, got %d", ErrInvalidInput, i, line.Quantity)
		}
		if line.PricePerUnit.IsNegative() {
			return domain.Order{}, fmt.Errorf("%w: line %d: negative unit price", ErrInvalidInput, i)
		}

		item := domain.OrderItem{
			MenuItemID:   line.MenuItemID,
			Name:         line.Name,
			Quantity:     line.Quantity,
			PricePerUnit: line.PricePerUnit,
		}
		items = append(items, item)
		total = total.Add(item.LineTotal())
	}

	order := domain.Order{
		ClientID: req.ClientID,
		Status:   domain.StatusNew,
		Total:    total,
		Items:    items,
	}

	return s.repo.CreateOrderTx(ctx, order)
}

func (s *Service) ListByClient(ctx context.Context, clientID string) ([]domain.Order, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, fmt.Errorf("%w: missing client id", ErrInvalidInput)
	}
	return s.repo.ListByClient(ctx, clientID)
}

// SetStatus moves an order through the staff workflow (new -> pending ->
// ready -> completed). Cancellation goes through Cancel so a reason is
// always recorded.
func (s *Service) SetStatus(ctx context.Context, orderID string, status domain.Status) error {
	if !status.Valid() || status == domain.StatusCancelled {
		return fmt.Errorf("%w: status %q", ErrInvalidInput, status)
	}
	return s.repo.UpdateStatus(ctx, orderID, status)
}

func (s *Service) Cancel(ctx context.Context, orderID string, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: cancellation needs a reason", ErrInvalidInput)
	}
	return s.repo.Cancel(ctx, orderID, reason)
}
