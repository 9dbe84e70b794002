package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dwikikusuma/coffeeshop/internal/checkout/domain"
	"github.com/dwikikusuma/coffeeshop/internal/session"
	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyCart aborts a checkout with nothing to order; callers redirect
	// back to browsing rather than rendering an error.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInvalidCredential is the retryable identity mismatch of the
	// confirmation step. The cart is untouched.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrCheckoutFailed covers persistence failures: nothing was committed and
	// the cart is untouched, so the user can simply try again.
	ErrCheckoutFailed = errors.New("checkout failed, try again later")
)

type Service struct {
	cart     CartGateway
	catalog  CatalogReader
	identity Identity
	orders   OrderPlacer
	notifier Notifier
	locks    *session.Locks
	log      *slog.Logger
}

func NewService(cart CartGateway, catalog CatalogReader, identity Identity, orders OrderPlacer, notifier Notifier, locks *session.Locks, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		cart:     cart,
		catalog:  catalog,
		identity: identity,
		orders:   orders,
		notifier: notifier,
		locks:    locks,
		log:      log,
	}
}

// View materializes the cart against the live catalog: one batched lookup
// over the cart's key set, stale entries (deleted or out-of-stock items)
// silently skipped. The skipped entries stay in the cart; an item restocked
// tomorrow reappears without the visitor doing anything. Order follows the
// catalog's natural ordering, not cart insertion order.
func (s *Service) View(ctx context.Context, scope *session.Scope) ([]domain.PricedLine, error) {
	stored := s.cart.Lines(scope)
	if len(stored) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(stored))
	for id := range stored {
		ids = append(ids, id)
	}

	items, err := s.catalog.FindAvailable(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("materialize cart: %w", err)
	}

	if len(items) < len(stored) {
		s.log.DebugContext(ctx, "stale cart entries skipped",
			"session_id", scope.ID(),
			"stored", len(stored),
			"resolved", len(items))
	}

	lines := make([]domain.PricedLine, 0, len(items))
	for _, item := range items {
		qty := stored[item.ID]
		if qty <= 0 {
			continue
		}
		lines = append(lines, domain.PricedLine{
			ItemID:    item.ID,
			Name:      item.Name,
			Quantity:  qty,
			UnitPrice: item.Price,
			LineTotal: item.Price.Mul(decimal.NewFromInt(int64(qty))),
		})
	}
	return lines, nil
}

// Total recomputes the priced total from current catalog state on every
// call. Nothing is cached; prices move freely until checkout freezes them.
func (s *Service) Total(ctx context.Context, scope *session.Scope) (decimal.Decimal, error) {
	lines, err := s.View(ctx, scope)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.LineTotal)
	}
	return total, nil
}

// Checkout turns the cart into a durable order:
//
//  1. non-empty raw count, else ErrEmptyCart
//  2. credential re-confirmation, else ErrInvalidCredential
//  3. materialize (stale entries drop out here; if nothing survives the
//     checkout aborts as empty rather than recording a zero-line order)
//  4. persist order + items in one transaction
//  5. clear the cart — only after persistence succeeded
//
// Steps 3-5 hold the session lock so a concurrent add cannot slip between
// materialization and the clear and be silently wiped.
func (s *Service) Checkout(ctx context.Context, scope *session.Scope, userID, secret string) (domain.Result, error) {
	if s.cart.TotalQuantity(scope) == 0 {
		return domain.Result{Redirect: "/menu"}, ErrEmptyCart
	}

	ok, err := s.identity.Verify(ctx, userID, secret)
	if err != nil {
		s.log.ErrorContext(ctx, "credential check failed", "user_id", userID, "err", err)
		return domain.Result{}, ErrCheckoutFailed
	}
	if !ok {
		return domain.Result{}, ErrInvalidCredential
	}

	unlock := s.locks.Lock(scope.ID())
	defer unlock()

	lines, err := s.View(ctx, scope)
	if err != nil {
		s.log.ErrorContext(ctx, "materialization failed", "session_id", scope.ID(), "err", err)
		return domain.Result{}, ErrCheckoutFailed
	}
	if len(lines) == 0 {
		// Everything went stale since the last view.
		return domain.Result{Redirect: "/menu"}, ErrEmptyCart
	}

	orderID, err := s.orders.Place(ctx, userID, lines)
	if err != nil {
		s.log.ErrorContext(ctx, "order persistence failed", "user_id", userID, "err", err)
		return domain.Result{}, ErrCheckoutFailed
	}

	s.cart.Clear(scope)

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.LineTotal)
	}

	if s.notifier != nil {
		if err := s.notifier.OrderPlaced(ctx, orderID, userID, total); err != nil {
			s.log.WarnContext(ctx, "order notification failed", "order_id", orderID, "err", err)
		}
	}

	s.log.InfoContext(ctx, "order placed",
		"order_id", orderID,
		"user_id", userID,
		"lines", len(lines),
		"total", total.String())

	return domain.Result{
		OrderID:  orderID,
		Message:  "Order placed, thank you!",
		Redirect: "/my-orders",
	}, nil
}
