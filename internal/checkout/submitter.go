package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/candlegrove/storefront/internal/cart"
	"github.com/candlegrove/storefront/internal/catalog"
	"github.com/candlegrove/storefront/internal/pricing"
)

// Order is the finalized payload handed to the notification boundary: a cart
// snapshot, the customer data, and the pricing breakdown computed at
// submission time.
type Order struct {
	ID        string          `json:"id"`
	Cart      cart.Cart       `json:"cart"`
	Customer  FormData        `json:"customer"`
	Summary   pricing.Summary `json:"summary"`
	Locale    string          `json:"locale"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Notifier is the port to the outbound order notification service. An error
// means the order was not delivered; the caller keeps the cart so the
// shopper can retry.
type Notifier interface {
	SendOrder(ctx context.Context, order Order) error
}

var (
	// ErrSubmissionInFlight is returned when a submission is attempted while
	// another one is still running. Submissions never overlap.
	ErrSubmissionInFlight = errors.New("checkout: submission already in progress")

	// ErrEmptyCart is returned when there is nothing to order.
	ErrEmptyCart = errors.New("checkout: cart is empty")
)

// ValidationError carries the per-field messages from FormData.Validate.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("checkout: invalid form data (%d fields)", len(e.Fields))
}

// Submitter runs the checkout flow: Idle -> Submitting -> {Success, Failed}.
// The in-flight flag guarantees at most one submission at a time; both
// terminal states return to Idle, with the cart cleared only on success.
type Submitter struct {
	store      *cart.Store
	notifier   Notifier
	cfg        pricing.Config
	submitting atomic.Bool
}

// NewSubmitter wires the checkout flow to its cart store and notifier.
func NewSubmitter(store *cart.Store, notifier Notifier, cfg pricing.Config) *Submitter {
	return &Submitter{store: store, notifier: notifier, cfg: cfg}
}

// Submit validates the form, assembles the order and dispatches it.
//
// On success the cart is cleared and the order returned. On any failure the
// cart is left untouched: a *ValidationError for bad input, ErrEmptyCart,
// ErrSubmissionInFlight, or the notifier's error when dispatch fails.
func (s *Submitter) Submit(ctx context.Context, form FormData, locale string) (*Order, error) {
	if !s.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer s.submitting.Store(false)

	ctx, span := otel.Tracer("checkout").Start(ctx, "checkout.Submit")
	defer span.End()

	if errs := form.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	snapshot := s.store.Current()
	if len(snapshot.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if locale != catalog.LocaleAr {
		locale = catalog.LocaleEn
	}

	order := Order{
		ID:        uuid.NewString(),
		Cart:      snapshot,
		Customer:  form,
		Summary:   pricing.Summarize(snapshot, s.cfg),
		Locale:    locale,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.notifier.SendOrder(ctx, order); err != nil {
		slog.WarnContext(ctx, "checkout: order dispatch failed, cart retained",
			"order_id", order.ID, "error", err)
		return nil, fmt.Errorf("checkout: dispatch order %s: %w", order.ID, err)
	}

	s.store.Clear(ctx)
	slog.InfoContext(ctx, "checkout: order placed",
		"order_id", order.ID, "items", order.Cart.ItemCount, "total", order.Summary.GrandTotal)
	return &order, nil
}
