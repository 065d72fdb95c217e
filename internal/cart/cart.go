// Package cart implements the shopping cart: the line-item model, the pure
// totals derivation, and the session-scoped state store with durable
// persistence and cross-session change adoption.
//
// The derived fields (Total, ItemCount) are never mutated independently;
// every code path that touches the item list goes through Derive.
package cart

import (
	"encoding/json"
	"fmt"

	"github.com/candlegrove/storefront/internal/catalog"
)

// Item pairs a product with a positive quantity. An item with quantity <= 0
// must not exist in a cart; the store removes it instead of keeping a zero.
type Item struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Subtotal is the line total for this item.
func (i Item) Subtotal() float64 {
	return i.Product.Price * float64(i.Quantity)
}

// Cart is an insertion-ordered list of items plus the two derived aggregates.
type Cart struct {
	Items     []Item  `json:"items"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"itemCount"`
}

// Empty returns a cart with no items and zero totals.
func Empty() Cart {
	return Cart{Items: []Item{}}
}

// Derive recomputes the aggregates from the item list. It is pure and
// idempotent: Derive(Derive(l).Items) == Derive(l).
func Derive(items []Item) Cart {
	c := Cart{Items: items}
	if c.Items == nil {
		c.Items = []Item{}
	}
	for _, it := range c.Items {
		c.Total += it.Subtotal()
		c.ItemCount += it.Quantity
	}
	return c
}

// Encode serialises the cart to its persisted JSON form.
func Encode(c Cart) (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("cart: encode: %w", err)
	}
	return string(b), nil
}

// Decode parses a persisted payload and re-derives the totals, so a stored
// value with stale or tampered aggregates is corrected on the way in.
func Decode(payload string) (Cart, error) {
	var c Cart
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return Cart{}, fmt.Errorf("cart: decode: %w", err)
	}
	return Derive(c.Items), nil
}
