package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dwikikusuma/coffeeshop/internal/catalog/app"
	"github.com/dwikikusuma/coffeeshop/internal/catalog/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MenuRepo struct {
	pool *pgxpool.Pool
}

func NewMenuRepo(pool *pgxpool.Pool) *MenuRepo {
	return &MenuRepo{pool: pool}
}

func (r *MenuRepo) Create(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO menu_items (id, name, category, description, price, in_stock)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, name, category, description, price, in_stock, created_at, updated_at`,
		uuid.NewString(), item.Name, string(item.Category), item.Description, item.Price, item.InStock)

	return scanMenuItem(row)
}

func (r *MenuRepo) Get(ctx context.Context, id string) (domain.MenuItem, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return domain.MenuItem{}, app.ErrInvalidInput
	}

	row := r.pool.QueryRow(ctx,
		`SELECT id, name, category, description, price, in_stock, created_at, updated_at
		 FROM menu_items WHERE id = $1`, itemID)

	item, err := scanMenuItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.MenuItem{}, app.ErrNotFound
	}
	return item, err
}

func (r *MenuRepo) List(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, category, description, price, in_stock, created_at, updated_at
		 FROM menu_items ORDER BY category, name`)
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	defer rows.Close()

	return collectMenuItems(rows)
}

func (r *MenuRepo) FindAvailable(ctx context.Context, ids []string) ([]domain.MenuItem, error) {
	itemIDs := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		itemID, err := uuid.Parse(id)
		if err != nil {
			// Cart entries for ids that were never catalog ids are stale by
			// definition and get filtered like any other stale reference.
			continue
		}
		itemIDs = append(itemIDs, itemID)
	}
	if len(itemIDs) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, name, category, description, price, in_stock, created_at, updated_at
		 FROM menu_items WHERE id = ANY($1) AND in_stock ORDER BY category, name`, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("find available: %w", err)
	}
	defer rows.Close()

	return collectMenuItems(rows)
}

func scanMenuItem(row pgx.Row) (domain.MenuItem, error) {
	var (
		item     domain.MenuItem
		id       uuid.UUID
		category string
	)
	err := row.Scan(&id, &item.Name, &category, &item.Description,
		&item.Price, &item.InStock, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return domain.MenuItem{}, err
	}
	item.ID = id.String()
	item.Category = domain.Category(category)
	return item, nil
}

func collectMenuItems(rows pgx.Rows) ([]domain.MenuItem, error) {
	var items []domain.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
