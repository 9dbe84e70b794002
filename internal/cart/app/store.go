package app

import (
	"encoding/json"

	"github.com/dwikikusuma/coffeeshop/internal/cart/domain"
	"github.com/dwikikusuma/coffeeshop/internal/session"
)

// Key is the session slot the cart lives under.
const Key = "cart"

// Store binds domain.Cart to a visitor's session scope. The scope is passed
// into every operation rather than held as ambient state; each mutation
// writes the cart back and marks the scope dirty so it persists.
//
// Store does not serialize access. One request is one logical operation, and
// callers hold the session.Locks entry for the scope's id around each.
type Store struct{}

func NewStore() *Store {
	return &Store{}
}

// Load decodes the cart from the scope. A missing or undecodable slot yields
// an empty cart.
func (s *Store) Load(scope *session.Scope) domain.Cart {
	raw, ok := scope.Get(Key)
	if !ok {
		return domain.New()
	}

	var lines map[string]int
	if err := json.Unmarshal(raw, &lines); err != nil || lines == nil {
		return domain.New()
	}
	return domain.Cart{Lines: lines}
}

func (s *Store) Add(scope *session.Scope, itemID string, qty int) {
	cart := s.Load(scope)
	cart.Add(itemID, qty)
	s.save(scope, cart)
}

func (s *Store) Remove(scope *session.Scope, itemID string) {
	cart := s.Load(scope)
	cart.Remove(itemID)
	s.save(scope, cart)
}

func (s *Store) Increment(scope *session.Scope, itemID string) {
	cart := s.Load(scope)
	cart.Increment(itemID)
	s.save(scope, cart)
}

func (s *Store) Decrement(scope *session.Scope, itemID string) {
	cart := s.Load(scope)
	cart.Decrement(itemID)
	s.save(scope, cart)
}

// Clear removes the cart slot from the scope entirely.
func (s *Store) Clear(scope *session.Scope) {
	scope.Delete(Key)
	scope.MarkDirty()
}

func (s *Store) TotalQuantity(scope *session.Scope) int {
	return s.Load(scope).TotalQuantity()
}

func (s *Store) save(scope *session.Scope, cart domain.Cart) {
	raw, err := json.Marshal(cart.Lines)
	if err != nil {
		// map[string]int cannot fail to marshal
		return
	}
	scope.Set(Key, raw)
	scope.MarkDirty()
}
