package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	cartapp "github.com/dwikikusuma/coffeeshop/internal/cart/app"
	catalogapp "github.com/dwikikusuma/coffeeshop/internal/catalog/app"
	catalogdomain "github.com/dwikikusuma/coffeeshop/internal/catalog/domain"
	checkoutapp "github.com/dwikikusuma/coffeeshop/internal/checkout/app"
	"github.com/dwikikusuma/coffeeshop/internal/checkout/infra/adapter"
	"github.com/dwikikusuma/coffeeshop/internal/notify"
	orderapp "github.com/dwikikusuma/coffeeshop/internal/order/app"
	orderdomain "github.com/dwikikusuma/coffeeshop/internal/order/domain"
	"github.com/dwikikusuma/coffeeshop/internal/session"
	"github.com/dwikikusuma/coffeeshop/pkg/idempotency"
	"github.com/shopspring/decimal"
)

type memMenuRepo struct {
	items map[string]catalogdomain.MenuItem
	finds int
}

func (r *memMenuRepo) Create(ctx context.Context, item catalogdomain.MenuItem) (catalogdomain.MenuItem, error) {
	r.items[item.ID] = item
	return item, nil
}
func (r *memMenuRepo) Get(ctx context.Context, id string) (catalogdomain.MenuItem, error) {
	item, ok := r.items[id]
	if !ok {
		return catalogdomain.MenuItem{}, catalogapp.ErrNotFound
	}
	return item, nil
}
func (r *memMenuRepo) List(ctx context.Context) ([]catalogdomain.MenuItem, error) {
	var out []catalogdomain.MenuItem
	for _, item := range r.items {
		out = append(out, item)
	}
	return out, nil
}
func (r *memMenuRepo) FindAvailable(ctx context.Context, ids []string) ([]catalogdomain.MenuItem, error) {
	r.finds++
	var out []catalogdomain.MenuItem
	for _, id := range ids {
		if item, ok := r.items[id]; ok && item.InStock {
			out = append(out, item)
		}
	}
	return out, nil
}

type memOrderRepo struct {
	orders []orderdomain.Order
}

func (r *memOrderRepo) CreateOrderTx(ctx context.Context, order orderdomain.Order) (orderdomain.Order, error) {
	order.ID = "order-1"
	r.orders = append(r.orders, order)
	return order, nil
}
func (r *memOrderRepo) ListByClient(ctx context.Context, clientID string) ([]orderdomain.Order, error) {
	var out []orderdomain.Order
	for _, o := range r.orders {
		if o.ClientID == clientID {
			out = append(out, o)
		}
	}
	return out, nil
}
func (r *memOrderRepo) UpdateStatus(ctx context.Context, orderID string, status orderdomain.Status) error {
	return nil
}
func (r *memOrderRepo) Cancel(ctx context.Context, orderID string, reason string) error {
	return nil
}

type staticIdentity struct{ secret string }

func (s staticIdentity) Verify(ctx context.Context, userID, secret string) (bool, error) {
	return secret == s.secret, nil
}

type testEnv struct {
	handler   http.Handler
	sessions  *session.MemoryManager
	menuRepo  *memMenuRepo
	orderRepo *memOrderRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	menuRepo := &memMenuRepo{items: map[string]catalogdomain.MenuItem{
		"item-a": {ID: "item-a", Name: "Latte", Category: catalogdomain.CategoryDrink, Price: decimal.RequireFromString("150.00"), InStock: true},
		"item-b": {ID: "item-b", Name: "Cheesecake", Category: catalogdomain.CategoryDessert, Price: decimal.RequireFromString("90.00"), InStock: true},
	}}
	orderRepo := &memOrderRepo{}
	sessions := session.NewMemoryManager()
	locks := session.NewLocks()

	cartStore := cartapp.NewStore()
	catalogSvc := catalogapp.NewService(menuRepo)
	orderSvc := orderapp.NewService(orderRepo)

	checkoutSvc := checkoutapp.NewService(
		adapter.NewCartStoreGateway(cartStore),
		adapter.NewCatalogServiceReader(catalogSvc),
		staticIdentity{secret: "espresso"},
		adapter.NewOrderServicePlacer(orderSvc),
		notify.Noop{},
		locks,
		slog.Default(),
	)

	h := NewHandler(cartStore, checkoutSvc, catalogSvc, orderSvc, sessions, locks, nil, slog.Default())
	return &testEnv{handler: h.Routes(), sessions: sessions, menuRepo: menuRepo, orderRepo: orderRepo}
}

func (e *testEnv) do(t *testing.T, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("{}")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "sid-1"})
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) signIn(t *testing.T, userID string) {
	t.Helper()
	scope, err := e.sessions.Load(context.Background(), "sid-1")
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := json.Marshal(userID)
	scope.Set(userKey, raw)
	scope.MarkDirty()
	if err := e.sessions.Save(context.Background(), scope); err != nil {
		t.Fatal(err)
	}
}

func TestCartRoundTripOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/cart/items", `{"item_id":"item-a","quantity":2}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("add status = %d: %s", rec.Code, rec.Body)
	}

	rec = env.do(t, "GET", "/cart", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("view status = %d: %s", rec.Code, rec.Body)
	}

	var view struct {
		Lines []struct {
			ItemID    string `json:"item_id"`
			Quantity  int    `json:"quantity"`
			LineTotal string `json:"line_total"`
		} `json:"lines"`
		Total string `json:"total"`
		Count int    `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if len(view.Lines) != 1 || view.Lines[0].ItemID != "item-a" || view.Lines[0].Quantity != 2 {
		t.Fatalf("unexpected lines: %+v", view.Lines)
	}
	if view.Lines[0].LineTotal != "300.00" || view.Total != "300.00" || view.Count != 2 {
		t.Fatalf("unexpected totals: %+v", view)
	}
}

func TestIncrementDecrementRemoveOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, "POST", "/cart/items", `{"item_id":"item-a"}`, nil)
	env.do(t, "POST", "/cart/items/item-a/increment", "", nil)
	env.do(t, "POST", "/cart/items/item-a/decrement", "", nil)
	env.do(t, "POST", "/cart/items/item-a/decrement", "", nil) // floors at 1

	rec := env.do(t, "GET", "/cart", "", nil)
	var view struct {
		Count int `json:"count"`
	}
	json.Unmarshal(rec.Body.Bytes(), &view)
	if view.Count != 1 {
		t.Fatalf("count = %d, want 1", view.Count)
	}

	rec = env.do(t, "DELETE", "/cart/items/item-a", "", nil)
	var after struct {
		Count int `json:"count"`
	}
	json.Unmarshal(rec.Body.Bytes(), &after)
	if after.Count != 0 {
		t.Fatalf("count after remove = %d, want 0", after.Count)
	}
}

func TestCheckoutRequiresAuthentication(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, "POST", "/cart/items", `{"item_id":"item-a"}`, nil)

	rec := env.do(t, "POST", "/checkout", `{"password":"espresso"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestCheckoutOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, "client-1")

	env.do(t, "POST", "/cart/items", `{"item_id":"item-a","quantity":2}`, nil)
	env.do(t, "POST", "/cart/items", `{"item_id":"item-b","quantity":1}`, nil)

	rec := env.do(t, "POST", "/checkout", `{"password":"espresso"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	if len(env.orderRepo.orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(env.orderRepo.orders))
	}
	order := env.orderRepo.orders[0]
	if !order.Total.Equal(decimal.RequireFromString("390.00")) {
		t.Fatalf("order total = %s, want 390.00", order.Total)
	}

	rec = env.do(t, "GET", "/cart", "", nil)
	var view struct {
		Count int `json:"count"`
	}
	json.Unmarshal(rec.Body.Bytes(), &view)
	if view.Count != 0 {
		t.Fatalf("cart count after checkout = %d, want 0", view.Count)
	}

	rec = env.do(t, "GET", "/my-orders", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "order-1") {
		t.Fatalf("my-orders = %d: %s", rec.Code, rec.Body)
	}
}

func TestCheckoutWrongPasswordOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, "client-1")
	env.do(t, "POST", "/cart/items", `{"item_id":"item-a"}`, nil)

	rec := env.do(t, "POST", "/checkout", `{"password":"americano"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if len(env.orderRepo.orders) != 0 {
		t.Fatal("order created despite wrong password")
	}

	rec = env.do(t, "GET", "/cart", "", nil)
	var view struct {
		Count int `json:"count"`
	}
	json.Unmarshal(rec.Body.Bytes(), &view)
	if view.Count != 1 {
		t.Fatalf("cart count = %d, want 1 (unchanged)", view.Count)
	}
}

func TestCheckoutEmptyCartRedirects(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, "client-1")

	rec := env.do(t, "POST", "/checkout", `{"password":"espresso"}`, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/menu" {
		t.Fatalf("redirect = %q, want /menu", loc)
	}
}

func TestCheckoutDuplicateSubmission(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, "client-1")
	env.do(t, "POST", "/cart/items", `{"item_id":"item-a"}`, nil)

	key := map[string]string{idempotency.Header: "attempt-1"}
	rec := env.do(t, "POST", "/checkout", `{"password":"espresso"}`, key)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first submit = %d: %s", rec.Code, rec.Body)
	}

	rec = env.do(t, "POST", "/checkout", `{"password":"espresso"}`, key)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate submit = %d, want 409", rec.Code)
	}
	if len(env.orderRepo.orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(env.orderRepo.orders))
	}
}

func TestCheckoutFailedAttemptKeepsKeyUsable(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, "client-1")
	env.do(t, "POST", "/cart/items", `{"item_id":"item-a"}`, nil)

	key := map[string]string{idempotency.Header: "attempt-1"}

	rec := env.do(t, "POST", "/checkout", `{"password":"americano"}`, key)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("failed attempt = %d, want 401", rec.Code)
	}
	if len(env.orderRepo.orders) != 0 {
		t.Fatal("order created despite wrong password")
	}

	// A failed attempt must not burn the key; the corrected retry goes
	// through.
	rec = env.do(t, "POST", "/checkout", `{"password":"espresso"}`, key)
	if rec.Code != http.StatusCreated {
		t.Fatalf("retry with same key = %d: %s", rec.Code, rec.Body)
	}
	if len(env.orderRepo.orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(env.orderRepo.orders))
	}

	rec = env.do(t, "POST", "/checkout", `{"password":"espresso"}`, key)
	if rec.Code != http.StatusConflict {
		t.Fatalf("replay after success = %d, want 409", rec.Code)
	}
	if len(env.orderRepo.orders) != 1 {
		t.Fatalf("orders after replay = %d, want 1", len(env.orderRepo.orders))
	}
}

func TestViewCartMaterializesOnce(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, "POST", "/cart/items", `{"item_id":"item-a","quantity":2}`, nil)

	env.menuRepo.finds = 0
	rec := env.do(t, "GET", "/cart", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.menuRepo.finds != 1 {
		t.Fatalf("catalog lookups per render = %d, want 1", env.menuRepo.finds)
	}
}

func TestMenuListing(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/menu", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Latte") || !strings.Contains(body, "150.00") {
		t.Fatalf("menu body = %s", body)
	}
}
