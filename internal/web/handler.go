package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	cartapp "github.com/dwikikusuma/coffeeshop/internal/cart/app"
	catalogapp "github.com/dwikikusuma/coffeeshop/internal/catalog/app"
	checkoutapp "github.com/dwikikusuma/coffeeshop/internal/checkout/app"
	orderapp "github.com/dwikikusuma/coffeeshop/internal/order/app"
	"github.com/dwikikusuma/coffeeshop/internal/session"
	"github.com/dwikikusuma/coffeeshop/pkg/idempotency"
	"github.com/dwikikusuma/coffeeshop/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	sessionCookie = "sid"
	userKey       = "user_id"
)

type Handler struct {
	cart     *cartapp.Store
	checkout *checkoutapp.Service
	catalog  *catalogapp.Service
	orders   *orderapp.Service
	sessions session.Manager
	locks    *session.Locks
	idem     *idempotency.Cache
	metrics  *metrics.Metrics
	log      *slog.Logger
}

func NewHandler(
	cart *cartapp.Store,
	checkout *checkoutapp.Service,
	catalog *catalogapp.Service,
	orders *orderapp.Service,
	sessions session.Manager,
	locks *session.Locks,
	m *metrics.Metrics,
	log *slog.Logger,
) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		cart:     cart,
		checkout: checkout,
		catalog:  catalog,
		orders:   orders,
		sessions: sessions,
		locks:    locks,
		idem:     idempotency.NewCache(10 * time.Minute),
		metrics:  m,
		log:      log,
	}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /menu", h.instrument("menu", h.listMenu))
	mux.HandleFunc("GET /cart", h.instrument("cart_view", h.withSession(h.viewCart)))
	mux.HandleFunc("POST /cart/items", h.instrument("cart_add", h.withSession(h.addToCart)))
	mux.HandleFunc("POST /cart/items/{id}/increment", h.instrument("cart_increment", h.withSession(h.incrementItem)))
	mux.HandleFunc("POST /cart/items/{id}/decrement", h.instrument("cart_decrement", h.withSession(h.decrementItem)))
	mux.HandleFunc("DELETE /cart/items/{id}", h.instrument("cart_remove", h.withSession(h.removeFromCart)))
	mux.HandleFunc("DELETE /cart", h.instrument("cart_clear", h.withSession(h.clearCart)))
	mux.HandleFunc("POST /checkout", h.instrument("checkout", h.withSession(h.placeOrder)))
	mux.HandleFunc("GET /my-orders", h.instrument("my_orders", h.withSession(h.listMyOrders)))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics.Handler())
	}

	return mux
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, scope *session.Scope)

// withSession resolves the visitor's session cookie (minting one when
// absent), loads the scope and flushes it back after the handler ran.
func (h *Handler) withSession(fn sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := ""
		if c, err := r.Cookie(sessionCookie); err == nil {
			sid = c.Value
		}
		if sid == "" {
			sid = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		scope, err := h.sessions.Load(r.Context(), sid)
		if err != nil {
			h.log.ErrorContext(r.Context(), "session load failed", "session_id", sid, "err", err)
			writeError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "try again later")
			return
		}

		fn(w, r, scope)

		if err := h.sessions.Save(r.Context(), scope); err != nil {
			// The response is already written; losing one session write is
			// recoverable, the visitor's next mutation persists again.
			h.log.ErrorContext(r.Context(), "session save failed", "session_id", sid, "err", err)
		}
	}
}

func (h *Handler) instrument(name string, fn http.HandlerFunc) http.HandlerFunc {
	if h.metrics == nil {
		return fn
	}
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		fn(rec, r)
		h.metrics.Requests.WithLabelValues(name, strconv.Itoa(rec.status)).Inc()
		h.metrics.LatencyMS.WithLabelValues(name).Observe(float64(time.Since(start).Milliseconds()))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.ListMenu(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}

	type menuItem struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Category    string `json:"category"`
		Description string `json:"description"`
		Price       string `json:"price"`
		InStock     bool   `json:"in_stock"`
	}
	out := make([]menuItem, 0, len(items))
	for _, item := range items {
		out = append(out, menuItem{
			ID:          item.ID,
			Name:        item.Name,
			Category:    string(item.Category),
			Description: item.Description,
			Price:       item.Price.StringFixed(2),
			InStock:     item.InStock,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

type addRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request, scope *session.Scope) {
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid request body")
		return
	}
	if req.ItemID == "" {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "item_id is required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "quantity must be positive")
		return
	}

	unlock := h.locks.Lock(scope.ID())
	h.cart.Add(scope, req.ItemID, req.Quantity)
	unlock()

	h.countCartOp("add")
	h.writeCartCount(w, scope)
}

func (h *Handler) incrementItem(w http.ResponseWriter, r *http.Request, scope *session.Scope) {
	unlock := h.locks.Lock(scope.ID())
	h.cart.Increment(scope, r.PathValue("id"))
	unlock()

	h.countCartOp("increment")
	h.writeCartCount(w, scope)
}

func (h *Handler) decrementItem(w http.ResponseWriter, r *http.Request, scope *session.Scope) {
	unlock := h.locks.Lock(scope.ID())
	h.cart.Decrement(scope, r.PathValue("id"))
	unlock()

	h.countCartOp("decrement")
	h.writeCartCount(w, scope)
}

func (h *Handler) removeFromCart(w http.ResponseWriter, r *http.Request, scope *session.Scope) {
	unlock := h.locks.Lock(scope.ID())
	h.cart.Remove(scope, r.PathValue("id"))
	unlock()

	h.countCartOp("remove")
	h.writeCartCount(w, scope)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request, scope *session.Scope) {
	unlock := h.locks.Lock(scope.ID())
	h.cart.Clear(scope)
	unlock()

	h.countCartOp("clear")
	h.writeCartCount(w, scope)
}

func (h *Handler) viewCart(w http.ResponseWriter, r *http.Request, scope *session.Scope) {
	lines, err := h.checkout.View(r.Context(), scope)
	if err != nil {
		writeAppError(w, err)
		return
	}

	type cartLine struct {
		ItemID    string `json:"item_id"`
		Name      string `json:"name"`
		Quantity  int    `json:"quantity"`
		UnitPrice string `json:"unit_price"`
		LineTotal string `json:"line_total"`
	}
	// One materialization serves both the lines and the total, so the
	// rendered sum always matches the rendered lines.
	out := make([]cartLine, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		out = append(out, cartLine{
			ItemID:    line.ItemID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.StringFixed(2),
			LineTotal: line.LineTotal.StringFixed(2),
		})
		total = total.Add(line.LineTotal)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"lines": out,
		"total": total.StringFixed(2),
		"count": h.cart.TotalQuantity(scope),
	})
}

type checkoutRequest struct {
	Password string `json:"password"`
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request, scope *session.Scope) {
	userID := currentUser(scope)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "sign in to place an order")
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid request body")
		return
	}

	key := idempotency.Key(r)
	if h.idem.Seen(key) {
		h.countCheckout("duplicate")
		writeError(w, http.StatusConflict, "DUPLICATE_REQUEST", "this checkout was already submitted")
		return
	}

	res, err := h.checkout.Checkout(r.Context(), scope, userID, req.Password)
	switch {
	case errors.Is(err, checkoutapp.ErrEmptyCart):
		h.countCheckout("empty_cart")
		http.Redirect(w, r, res.Redirect, http.StatusSeeOther)
	case errors.Is(err, checkoutapp.ErrInvalidCredential):
		h.countCheckout("invalid_credential")
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIAL", "invalid credential")
	case err != nil:
		h.countCheckout("failed")
		writeError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "try again later")
	default:
		// Consume the key only now: a failed attempt (wrong password,
		// persistence error) stays retryable under the same key.
		h.idem.Mark(key)
		h.countCheckout("placed")
		writeJSON(w, http.StatusCreated, map[string]any{
			"order_id": res.OrderID,
			"message":  res.Message,
			"redirect": res.Redirect,
		})
	}
}

func (h *Handler) listMyOrders(w http.ResponseWriter, r *http.Request, scope *session.Scope) {
	userID := currentUser(scope)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "sign in to see your orders")
		return
	}

	orders, err := h.orders.ListByClient(r.Context(), userID)
	if err != nil {
		writeAppError(w, err)
		return
	}

	type orderView struct {
		ID        string `json:"id"`
		CreatedAt string `json:"created_at"`
		Total     string `json:"total"`
		Status    string `json:"status"`
	}
	out := make([]orderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderView{
			ID:        o.ID,
			CreatedAt: o.CreatedAt.UTC().Format(time.RFC3339),
			Total:     o.Total.StringFixed(2),
			Status:    string(o.Status),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": out})
}

func (h *Handler) writeCartCount(w http.ResponseWriter, scope *session.Scope) {
	writeJSON(w, http.StatusOK, map[string]any{"count": h.cart.TotalQuantity(scope)})
}

func (h *Handler) countCartOp(op string) {
	if h.metrics != nil {
		h.metrics.CartOps.WithLabelValues(op).Inc()
	}
}

func (h *Handler) countCheckout(outcome string) {
	if h.metrics != nil {
		h.metrics.Checkouts.WithLabelValues(outcome).Inc()
	}
}

// currentUser reads the authenticated user id the sign-in flow left in the
// session. Authentication itself lives outside this service.
func currentUser(scope *session.Scope) string {
	raw, ok := scope.Get(userKey)
	if !ok {
		return ""
	}
	var id string
	if err := json.Unmarshal(raw, &id); err != nil {
		return ""
	}
	return id
}
