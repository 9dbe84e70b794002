package postgres

import (
	"context"
	"fmt"

	"github.com/dwikikusuma/coffeeshop/internal/order/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type OrderRepo struct {
	pool *pgxpool.Pool
}

func NewOrderRepo(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

func (r *OrderRepo) execTX(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx err: %w; rollback err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit(ctx)
}

func (r *OrderRepo) CreateOrderTx(ctx context.Context, order domain.Order) (domain.Order, error) {
	var created domain.Order

	err := r.execTX(ctx, func(tx pgx.Tx) error {
		clientID, err := uuid.Parse(order.ClientID)
		if err != nil {
			return fmt.Errorf("invalid client UUID: %w", err)
		}

		var orderID uuid.UUID
		err = tx.QueryRow(ctx,
			`INSERT INTO orders (id, client_id, total, status)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, created_at`,
			uuid.New(), clientID, order.Total, string(order.Status)).
			Scan(&orderID, &order.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		items := make([]domain.OrderItem, 0, len(order.Items))
		for i, item := range order.Items {
			menuItemID, err := uuid.Parse(item.MenuItemID)
			if err != nil {
				return fmt.Errorf("item %d: invalid menu item UUID: %w", i, err)
			}

			var itemID uuid.UUID
			err = tx.QueryRow(ctx,
				`INSERT INTO order_items (id, order_id, menu_item_id, name, quantity, price_per_unit)
				 VALUES ($1, $2, $3, $4, $5, $6)
				 RETURNING id`,
				uuid.New(), orderID, menuItemID, item.Name, item.Quantity, item.PricePerUnit).
				Scan(&itemID)
			if err != nil {
				return fmt.Errorf("failed to insert item %d: %w", i, err)
			}

			item.ID = itemID.String()
			item.OrderID = orderID.String()
			items = append(items, item)
		}

		created = order
		created.ID = orderID.String()
		created.Items = items
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return created, nil
}

func (r *OrderRepo) ListByClient(ctx context.Context, clientID string) ([]domain.Order, error) {
	clientUUID, err := uuid.Parse(clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid client UUID: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, client_id, created_at, total, status, COALESCE(cancellation_reason, '')
		 FROM orders WHERE client_id = $1 ORDER BY created_at DESC`, clientUUID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var (
			o          domain.Order
			id, client uuid.UUID
			status     string
		)
		if err := rows.Scan(&id, &client, &o.CreatedAt, &o.Total, &status, &o.CancellationReason); err != nil {
			return nil, err
		}
		o.ID = id.String()
		o.ClientID = client.String()
		o.Status = domain.Status(status)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.listItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (r *OrderRepo) listItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, order_id, menu_item_id, name, quantity, price_per_unit
		 FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var (
			item              domain.OrderItem
			id, order, menuID uuid.UUID
			price             decimal.Decimal
		)
		if err := rows.Scan(&id, &order, &menuID, &item.Name, &item.Quantity, &price); err != nil {
			return nil, err
		}
		item.ID = id.String()
		item.OrderID = order.String()
		item.MenuItemID = menuID.String()
		item.PricePerUnit = price
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, orderID string, status domain.Status) error {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return fmt.Errorf("invalid order UUID: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`UPDATE orders SET status = $2 WHERE id = $1`, id, string(status))
	return err
}

func (r *OrderRepo) Cancel(ctx context.Context, orderID string, reason string) error {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return fmt.Errorf("invalid order UUID: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`UPDATE orders SET status = $2, cancellation_reason = $3 WHERE id = $1`,
		id, string(domain.StatusCancelled), reason)
	return err
}
