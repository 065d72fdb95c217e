package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the storefront routes with the standard middleware stack.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/products", handler.ListProducts)
	r.Get("/products/{id}", handler.GetProduct)
	r.Get("/categories", handler.ListCategories)

	r.Get("/cart", handler.GetCart)
	r.Post("/cart/items", handler.AddItem)
	r.Put("/cart/items/{productID}", handler.UpdateItem)
	r.Delete("/cart/items/{productID}", handler.RemoveItem)
	r.Delete("/cart", handler.ClearCart)
	r.Get("/cart/summary", handler.GetSummary)

	r.Post("/checkout", handler.Checkout)

	r.Get("/ws/cart", handler.CartFeed)

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
