// Package httpx exposes the storefront core over a JSON HTTP API: catalog
// lookups, the per-session cart with its four mutations, the pricing
// summary, checkout submission, and a WebSocket feed of cart changes.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/candlegrove/storefront/internal/catalog"
	"github.com/candlegrove/storefront/internal/checkout"
	"github.com/candlegrove/storefront/internal/pricing"
)

// Handler handles incoming HTTP requests for the storefront.
type Handler struct {
	catalog       *catalog.Catalog
	sessions      *SessionManager
	pricing       pricing.Config
	hub           *Hub
	defaultLocale string
}

// NewHandler initializes the handler with its collaborators. hub may be nil;
// the WebSocket endpoint then responds 404.
func NewHandler(cat *catalog.Catalog, sessions *SessionManager, cfg pricing.Config, hub *Hub, defaultLocale string) *Handler {
	if defaultLocale != catalog.LocaleAr {
		defaultLocale = catalog.LocaleEn
	}
	return &Handler{
		catalog:       cat,
		sessions:      sessions,
		pricing:       cfg,
		hub:           hub,
		defaultLocale: defaultLocale,
	}
}

// ListProducts returns catalog entries, optionally narrowed by free-text
// search, category, price range and stock status. Filters combine.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	locale := h.locale(q.Get("locale"))

	products := h.catalog.All()
	if term := q.Get("q"); term != "" {
		products = h.catalog.Search(term, locale)
	}

	if cat := q.Get("category"); cat != "" {
		products = filterProducts(products, func(p catalog.Product) bool {
			return strings.EqualFold(p.Category, cat)
		})
	}

	if minS, maxS := q.Get("min_price"), q.Get("max_price"); minS != "" || maxS != "" {
		min, max, err := parsePriceRange(minS, maxS)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_price_range", err.Error())
			return
		}
		products = filterProducts(products, func(p catalog.Product) bool {
			return p.Price >= min && p.Price <= max
		})
	}

	if q.Get("in_stock") == "true" {
		products = filterProducts(products, func(p catalog.Product) bool { return p.InStock })
	}

	if products == nil {
		products = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProduct returns a single product by id.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, ok := h.catalog.ByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "product_not_found", "")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ListCategories returns the distinct product categories for the locale.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	locale := h.locale(r.URL.Query().Get("locale"))
	writeJSON(w, http.StatusOK, h.catalog.Categories(locale))
}

// GetCart returns the session's current cart.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.store.Current())
}

// AddItem adds a catalog product to the cart, merging into an existing line
// item for the same product.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "productId is required")
		return
	}

	product, ok := h.catalog.ByID(req.ProductID)
	if !ok {
		writeError(w, http.StatusNotFound, "product_not_found", "")
		return
	}

	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.store.Add(r.Context(), product, req.Quantity)
	writeJSON(w, http.StatusOK, sess.store.Current())
}

// UpdateItem sets the absolute quantity of a line item. A quantity of zero
// or less removes it.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.store.SetQuantity(r.Context(), chi.URLParam(r, "productID"), req.Quantity)
	writeJSON(w, http.StatusOK, sess.store.Current())
}

// RemoveItem deletes a line item. Removing an absent product is a no-op.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.store.Remove(r.Context(), chi.URLParam(r, "productID"))
	writeJSON(w, http.StatusOK, sess.store.Current())
}

// ClearCart resets the session's cart to empty.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.store.Clear(r.Context())
	writeJSON(w, http.StatusOK, sess.store.Current())
}

// GetSummary returns the pricing breakdown for the current cart.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, pricing.Summarize(sess.store.Current(), h.pricing))
}

// Checkout validates the customer data and submits the order. The cart is
// cleared only when the notification boundary reports success.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	locale := h.locale(req.Locale)
	order, err := sess.submitter.Submit(r.Context(), req.Customer, locale)
	if err != nil {
		var verr *checkout.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
				Error:  "validation_failed",
				Fields: verr.Fields,
			})
		case errors.Is(err, checkout.ErrEmptyCart):
			writeError(w, http.StatusConflict, "empty_cart", "")
		case errors.Is(err, checkout.ErrSubmissionInFlight):
			writeError(w, http.StatusConflict, "submission_in_progress", "")
		default:
			// Dispatch failure: surfaced so the shopper can retry; the cart
			// is untouched.
			writeJSON(w, http.StatusBadGateway, CheckoutResponse{
				Success: false,
				Message: err.Error(),
			})
		}
		return
	}

	writeJSON(w, http.StatusOK, CheckoutResponse{
		Success: true,
		OrderID: order.ID,
		Message: "order placed",
	})
}

// CartFeed upgrades to a WebSocket and streams the session's cart state on
// every change.
func (h *Handler) CartFeed(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		http.NotFound(w, r)
		return
	}
	sid := shopperID(w, r)
	sess, err := h.sessions.Session(r.Context(), sid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "session_unavailable", err.Error())
		return
	}
	h.hub.Serve(w, r, sid, sess.store.Current())
}

// session resolves the shopper's session, writing the error response itself
// on failure.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session, bool) {
	sid := shopperID(w, r)
	sess, err := h.sessions.Session(r.Context(), sid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "session_unavailable", err.Error())
		return nil, false
	}
	return sess, true
}

func (h *Handler) locale(requested string) string {
	switch requested {
	case catalog.LocaleEn, catalog.LocaleAr:
		return requested
	default:
		return h.defaultLocale
	}
}

func filterProducts(in []catalog.Product, keep func(catalog.Product) bool) []catalog.Product {
	var out []catalog.Product
	for _, p := range in {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func parsePriceRange(minS, maxS string) (min, max float64, err error) {
	min, max = 0, maxPrice
	if minS != "" {
		if min, err = strconv.ParseFloat(minS, 64); err != nil {
			return 0, 0, errors.New("min_price must be a number")
		}
	}
	if maxS != "" {
		if max, err = strconv.ParseFloat(maxS, 64); err != nil {
			return 0, 0, errors.New("max_price must be a number")
		}
	}
	return min, max, nil
}

// maxPrice is the open upper bound when only min_price is given.
const maxPrice = 1e12
