package adapter

import (
	"context"

	checkoutdomain "github.com/dwikikusuma/coffeeshop/internal/checkout/domain"
	orderapp "github.com/dwikikusuma/coffeeshop/internal/order/app"
	orderdomain "github.com/dwikikusuma/coffeeshop/internal/order/domain"
)

type OrderServicePlacer struct {
	svc *orderapp.Service
}

func NewOrderServicePlacer(svc *orderapp.Service) *OrderServicePlacer {
	return &OrderServicePlacer{svc: svc}
}

func (p *OrderServicePlacer) Place(ctx context.Context, clientID string, lines []checkoutdomain.PricedLine) (string, error) {
	req := orderdomain.PlaceRequest{
		ClientID: clientID,
		Lines:    make([]orderdomain.LineRequest, 0, len(lines)),
	}
	for _, line := range lines {
		req.Lines = append(req.Lines, orderdomain.LineRequest{
			MenuItemID:   line.ItemID,
			Name:         line.Name,
			Quantity:     line.Quantity,
			PricePerUnit: line.UnitPrice,
		})
	}

	order, err := p.svc.Place(ctx, req)
	if err != nil {
		return "", err
	}
	return order.ID, nil
}
