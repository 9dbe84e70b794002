package adapter

import (
	cartapp "github.com/dwikikusuma/coffeeshop/internal/cart/app"
	"github.com/dwikikusuma/coffeeshop/internal/session"
)

type CartStoreGateway struct {
	store *cartapp.Store
}

func NewCartStoreGateway(store *cartapp.Store) *CartStoreGateway {
	return &CartStoreGateway{store: store}
}

func (g *CartStoreGateway) Lines(scope *session.Scope) map[string]int {
	return g.store.Load(scope).Lines
}

func (g *CartStoreGateway) TotalQuantity(scope *session.Scope) int {
	return g.store.TotalQuantity(scope)
}

func (g *CartStoreGateway) Clear(scope *session.Scope) {
	g.store.Clear(scope)
}
