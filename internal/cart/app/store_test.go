package app

import (
	"context"
	"testing"

	"github.com/dwikikusuma/coffeeshop/internal/session"
	"golang.org/x/sync/errgroup"
)

func TestAddMarksScopeDirty(t *testing.T) {
	store := NewStore()
	scope := session.NewScope("sid", nil)

	store.Add(scope, "a", 2)

	if !scope.Dirty() {
		t.Fatal("mutation did not mark scope dirty")
	}
	if got := store.Load(scope).Lines["a"]; got != 2 {
		t.Fatalf("quantity = %d, want 2", got)
	}
}

func TestLoadToleratesCorruptSlot(t *testing.T) {
	store := NewStore()
	scope := session.NewScope("sid", nil)
	scope.Set(Key, []byte("not json"))

	cart := store.Load(scope)
	if !cart.Empty() {
		t.Fatalf("corrupt slot produced non-empty cart: %+v", cart.Lines)
	}
}

func TestClearDeletesSlot(t *testing.T) {
	store := NewStore()
	scope := session.NewScope("sid", nil)

	store.Add(scope, "a", 1)
	store.Clear(scope)

	if _, ok := scope.Get(Key); ok {
		t.Fatal("cart slot still present after Clear")
	}
	if got := store.TotalQuantity(scope); got != 0 {
		t.Fatalf("TotalQuantity = %d after Clear", got)
	}
}

func TestMutationsSurviveSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	mgr := session.NewMemoryManager()
	store := NewStore()

	scope, _ := mgr.Load(ctx, "sid")
	store.Add(scope, "a", 2)
	store.Add(scope, "b", 1)
	store.Decrement(scope, "b")
	if err := mgr.Save(ctx, scope); err != nil {
		t.Fatalf("Save: %v", err)
	}

	again, _ := mgr.Load(ctx, "sid")
	cart := store.Load(again)
	if cart.Lines["a"] != 2 || cart.Lines["b"] != 1 {
		t.Fatalf("reloaded cart = %+v", cart.Lines)
	}
}

func TestSerializedConcurrentIncrements(t *testing.T) {
	store := NewStore()
	scope := session.NewScope("sid", nil)
	locks := session.NewLocks()

	store.Add(scope, "a", 1)

	const n = 40
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			unlock := locks.Lock(scope.ID())
			defer unlock()
			store.Increment(scope, "a")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	if got := store.Load(scope).Lines["a"]; got != n+1 {
		t.Fatalf("quantity = %d, want %d", got, n+1)
	}
}
