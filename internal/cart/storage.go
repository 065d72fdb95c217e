package cart

import "context"

// Storage is the port for durable cart persistence. The store depends on
// this abstraction, not on Redis or SQLite directly, so the backend can be
// swapped for an in-memory implementation in tests.
//
// A Storage handle is bound to a single key: one serialised cart shared by
// every session of the same shopper. Writes follow last-write-wins; there is
// no locking across sessions.
type Storage interface {
	// Load returns the last persisted payload. ok is false when nothing has
	// been stored under the key yet.
	Load(ctx context.Context) (payload string, ok bool, err error)

	// Save replaces the persisted payload.
	Save(ctx context.Context, payload string) error

	// Watch registers fn to be called with payloads written by *other*
	// handles of the same key. A handle never observes its own writes,
	// mirroring how browser storage events fire only in other tabs.
	// The returned stop function cancels the subscription.
	Watch(ctx context.Context, fn func(payload string)) (stop func(), err error)
}
