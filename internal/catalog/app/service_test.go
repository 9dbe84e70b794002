package app

import (
	"context"
	"testing"

	"github.com/dwikikusuma/coffeeshop/internal/catalog/domain"
	"github.com/shopspring/decimal"
)

type fakeRepo struct {
	available []domain.MenuItem
	gotIDs    []string
}

func (f *fakeRepo) Create(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	return item, nil
}
func (f *fakeRepo) Get(ctx context.Context, id string) (domain.MenuItem, error) {
	return domain.MenuItem{}, nil
}
func (f *fakeRepo) List(ctx context.Context) ([]domain.MenuItem, error) {
	return nil, nil
}
func (f *fakeRepo) FindAvailable(ctx context.Context, ids []string) ([]domain.MenuItem, error) {
	f.gotIDs = ids
	return f.available, nil
}

func TestCreateItemValidation(t *testing.T) {
	svc := NewService(&fakeRepo{})
	price := decimal.RequireFromString("150.00")

	t.Run("empty name -> invalid", func(t *testing.T) {
		_, err := svc.CreateItem(context.Background(), "   ", "x", domain.CategoryDrink, price)
		if err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("unknown category -> invalid", func(t *testing.T) {
		_, err := svc.CreateItem(context.Background(), "Latte", "x", domain.Category("merch"), price)
		if err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("non-positive price -> invalid", func(t *testing.T) {
		_, err := svc.CreateItem(context.Background(), "Latte", "x", domain.CategoryDrink, decimal.Zero)
		if err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("valid item is created in stock", func(t *testing.T) {
		item, err := svc.CreateItem(context.Background(), " Latte ", "with milk", domain.CategoryDrink, price)
		if err != nil {
			t.Fatalf("CreateItem: %v", err)
		}
		if item.Name != "Latte" || !item.InStock {
			t.Fatalf("unexpected item: %+v", item)
		}
	})
}

func TestFindAvailableSkipsEmptyInput(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	items, err := svc.FindAvailable(context.Background(), nil)
	if err != nil {
		t.Fatalf("FindAvailable: %v", err)
	}
	if items != nil {
		t.Fatalf("expected nil result, got %v", items)
	}
	if repo.gotIDs != nil {
		t.Fatal("repo must not be queried for an empty id set")
	}
}
