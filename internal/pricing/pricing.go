// Package pricing derives the order-ready monetary figures from a cart.
//
// Everything here is a pure function of the cart and the configured business
// parameters; summaries are recomputed per request, never cached, because
// they depend on the live cart.
package pricing

import "github.com/candlegrove/storefront/internal/cart"

// Config holds the pricing business rules. The threshold and fee are
// expressed in the catalog currency.
type Config struct {
	// FreeShippingThreshold is the subtotal at or above which shipping is
	// waived.
	FreeShippingThreshold float64

	// ShippingFee is the flat fee charged below the threshold.
	ShippingFee float64

	// TaxRate is applied to the subtotal, e.g. 0.10 for 10%.
	TaxRate float64
}

// DefaultConfig returns the canonical storefront rules: free shipping from
// 500, flat 50 fee below it, 10% tax.
func DefaultConfig() Config {
	return Config{
		FreeShippingThreshold: 500,
		ShippingFee:           50,
		TaxRate:               0.10,
	}
}

// Summary is the presentation- and order-ready breakdown.
type Summary struct {
	Subtotal     float64 `json:"subtotal"`
	Shipping     float64 `json:"shipping"`
	Tax          float64 `json:"tax"`
	GrandTotal   float64 `json:"grandTotal"`
	ItemCount    int     `json:"itemCount"`
	Currency     string  `json:"currency"`
	FreeShipping bool    `json:"freeShipping"`
}

// Summarize derives the summary for the given cart. Tax applies to the
// subtotal regardless of shipping. The currency is taken from the first
// line item; an empty cart reports the default catalog currency.
func Summarize(c cart.Cart, cfg Config) Summary {
	s := Summary{
		Subtotal:  c.Total,
		ItemCount: c.ItemCount,
		Currency:  "EGP",
	}
	if len(c.Items) > 0 {
		s.Currency = c.Items[0].Product.Currency
	}

	if c.Total >= cfg.FreeShippingThreshold {
		s.FreeShipping = true
	} else {
		s.Shipping = cfg.ShippingFee
	}

	s.Tax = c.Total * cfg.TaxRate
	s.GrandTotal = c.Total + s.Shipping + s.Tax
	return s
}
