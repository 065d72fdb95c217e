package httpx

import "github.com/candlegrove/storefront/internal/checkout"

type AddItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CheckoutRequest struct {
	Customer checkout.FormData `json:"customer"`
	Locale   string            `json:"locale,omitempty"`
}

type CheckoutResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId,omitempty"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}
