package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/candlegrove/storefront/internal/catalog"
)

// Store is the single source of truth for one shopper's cart.
//
// Invariants maintained by every mutation:
//   - at most one item per product id (merge, never append-duplicate)
//   - quantities are >= 1; a non-positive quantity removes the item
//   - Total and ItemCount always equal the values derived from Items
//
// Items are held as an ordered slice with a product-id index alongside, so
// the uniqueness invariant is enforced mechanically while the public shape
// stays an insertion-ordered list.
//
// Persistence and external-change failures are absorbed here: mutation
// callers never see a storage error, they are logged and the in-memory state
// stays authoritative (last-known-good).
type Store struct {
	mu      sync.Mutex
	storage Storage
	cart    Cart
	index   map[string]int // product id -> position in cart.Items

	observers []func(Cart)
	stopWatch func()
}

// NewStore restores the cart from storage and begins watching for writes
// made by other sessions of the same key.
//
// A missing or unparseable persisted cart degrades silently to the empty
// cart; corruption is a recoverable condition, not an error.
func NewStore(ctx context.Context, storage Storage) *Store {
	s := &Store{
		storage: storage,
		cart:    Empty(),
		index:   make(map[string]int),
	}

	payload, ok, err := storage.Load(ctx)
	if err != nil {
		slog.WarnContext(ctx, "cart: load failed, starting empty", "error", err)
	} else if ok {
		if c, decErr := Decode(payload); decErr != nil {
			slog.WarnContext(ctx, "cart: persisted cart unparseable, starting empty", "error", decErr)
		} else {
			s.replaceLocked(c)
		}
	}

	stop, err := storage.Watch(ctx, s.adoptExternal)
	if err != nil {
		slog.WarnContext(ctx, "cart: change notifications unavailable", "error", err)
	} else {
		s.stopWatch = stop
	}

	return s
}

// Close cancels the external-change subscription.
func (s *Store) Close() {
	if s.stopWatch != nil {
		s.stopWatch()
	}
}

// Current returns a snapshot of the cart. The item slice is copied so
// callers cannot alias internal state.
func (s *Store) Current() Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// OnChange registers an observer called with a snapshot after every state
// change, including adopted external writes. Observers run on the mutating
// goroutine and must not call back into the store.
func (s *Store) OnChange(fn func(Cart)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Add merges quantity into an existing line item for the product, or appends
// a new one. Quantities below 1 are treated as 1.
func (s *Store) Add(ctx context.Context, p catalog.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.itemsCopyLocked()
	if pos, ok := s.index[p.ID]; ok {
		items[pos].Quantity += quantity
	} else {
		items = append(items, Item{Product: p, Quantity: quantity})
	}
	s.commitLocked(ctx, items)
}

// Remove deletes the line item for the product id. Removing an absent id is
// a no-op, not an error.
func (s *Store) Remove(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[productID]
	if !ok {
		return
	}
	items := s.itemsCopyLocked()
	items = append(items[:pos], items[pos+1:]...)
	s.commitLocked(ctx, items)
}

// SetQuantity sets the absolute quantity for the product id. A quantity of
// zero or less removes the item. Unknown ids are ignored.
func (s *Store) SetQuantity(ctx context.Context, productID string, quantity int) {
	if quantity <= 0 {
		s.Remove(ctx, productID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[productID]
	if !ok {
		return
	}
	items := s.itemsCopyLocked()
	items[pos].Quantity = quantity
	s.commitLocked(ctx, items)
}

// Clear resets to the empty cart.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitLocked(ctx, nil)
}

// commitLocked derives, persists and publishes the new state. Must be called
// with the mutex held.
func (s *Store) commitLocked(ctx context.Context, items []Item) {
	s.replaceLocked(Derive(items))

	payload, err := Encode(s.cart)
	if err != nil {
		slog.ErrorContext(ctx, "cart: encode for persistence failed", "error", err)
	} else if err := s.storage.Save(ctx, payload); err != nil {
		slog.WarnContext(ctx, "cart: persist failed, keeping in-memory state", "error", err)
	}

	s.notifyLocked()
}

// adoptExternal replaces local state with a cart written by another session.
// The payload goes through Decode so stale or tampered totals are recomputed.
// Malformed payloads are dropped and the last-known-good state retained.
// Adopted state is not re-persisted; that would echo writes between sessions.
func (s *Store) adoptExternal(payload string) {
	c, err := Decode(payload)
	if err != nil {
		slog.Warn("cart: ignoring malformed external update", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceLocked(c)
	s.notifyLocked()
}

func (s *Store) replaceLocked(c Cart) {
	s.cart = c
	s.index = make(map[string]int, len(c.Items))
	for i, it := range c.Items {
		s.index[it.Product.ID] = i
	}
}

func (s *Store) notifyLocked() {
	snap := s.snapshotLocked()
	for _, fn := range s.observers {
		fn(snap)
	}
}

func (s *Store) snapshotLocked() Cart {
	out := s.cart
	out.Items = make([]Item, len(s.cart.Items))
	copy(out.Items, s.cart.Items)
	return out
}

func (s *Store) itemsCopyLocked() []Item {
	items := make([]Item, len(s.cart.Items))
	copy(items, s.cart.Items)
	return items
}
