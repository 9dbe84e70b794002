package app

import (
	"context"

	"github.com/dwikikusuma/coffeeshop/internal/catalog/domain"
)

type MenuRepo interface {
	Create(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error)
	Get(ctx context.Context, id string) (domain.MenuItem, error)
	List(ctx context.Context) ([]domain.MenuItem, error)
	FindAvailable(ctx context.Context, ids []string) ([]domain.MenuItem, error)
}
