package app

import (
	"context"
	"errors"
	"strings"

	"github.com/dwikikusuma/coffeeshop/internal/catalog/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo MenuRepo
}

func NewService(repo MenuRepo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) CreateItem(ctx context.Context, name, desc string, category domain.Category, price decimal.Decimal) (domain.MenuItem, error) {
	name = strings.TrimSpace(name)

	if name == "" || !category.Valid() || price.LessThanOrEqual(decimal.Zero) {
		return domain.MenuItem{}, ErrInvalidInput
	}

	item := domain.MenuItem{
		Name:        name,
		Category:    category,
		Description: desc,
		Price:       price,
		InStock:     true,
	}

	return s.repo.Create(ctx, item)
}

func (s *Service) GetItem(ctx context.Context, id string) (domain.MenuItem, error) {
	if strings.TrimSpace(id) == "" {
		return domain.MenuItem{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, id)
}

// ListMenu returns the whole menu in catalog order (category, then name).
func (s *Service) ListMenu(ctx context.Context) ([]domain.MenuItem, error) {
	return s.repo.List(ctx)
}

// FindAvailable resolves the given ids against the catalog in one batched
// query, returning only items currently in stock. Unknown or out-of-stock ids
// are simply absent from the result.
func (s *Service) FindAvailable(ctx context.Context, ids []string) ([]domain.MenuItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.repo.FindAvailable(ctx, ids)
}
