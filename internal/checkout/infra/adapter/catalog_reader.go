package adapter

import (
	"context"

	catalogapp "github.com/dwikikusuma/coffeeshop/internal/catalog/app"
	checkoutapp "github.com/dwikikusuma/coffeeshop/internal/checkout/app"
)

type CatalogServiceReader struct {
	svc *catalogapp.Service
}

func NewCatalogServiceReader(svc *catalogapp.Service) *CatalogServiceReader {
	return &CatalogServiceReader{svc: svc}
}

func (r *CatalogServiceReader) FindAvailable(ctx context.Context, ids []string) ([]checkoutapp.CatalogItem, error) {
	items, err := r.svc.FindAvailable(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]checkoutapp.CatalogItem, 0, len(items))
	for _, item := range items {
		out = append(out, checkoutapp.CatalogItem{
			ID:    item.ID,
			Name:  item.Name,
			Price: item.Price,
		})
	}
	return out, nil
}
