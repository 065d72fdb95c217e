// Package memstore provides an in-process cart.Storage backend.
//
// A Backend holds the payload for one key; each session opens its own handle
// with Open. A handle's Save is visible to the watchers of every other
// handle, but never to its own. It is the same contract the browser storage event
// gives tabs. Used by tests and as the zero-config default backend.
package memstore

import (
	"context"
	"sync"
)

// Backend is the shared state behind every handle of one key.
type Backend struct {
	mu      sync.Mutex
	payload string
	ok      bool
	handles map[*Handle]struct{}
}

// NewBackend creates an empty backend.
func NewBackend() *Backend {
	return &Backend{handles: make(map[*Handle]struct{})}
}

// Open creates a new handle representing one session.
func (b *Backend) Open() *Handle {
	h := &Handle{backend: b}
	b.mu.Lock()
	b.handles[h] = struct{}{}
	b.mu.Unlock()
	return h
}

// Handle implements cart.Storage against the shared backend.
type Handle struct {
	mu       sync.Mutex
	backend  *Backend
	watchers []func(string)
}

// Load returns the current shared payload.
func (h *Handle) Load(ctx context.Context) (string, bool, error) {
	h.backend.mu.Lock()
	defer h.backend.mu.Unlock()
	return h.backend.payload, h.backend.ok, nil
}

// Save replaces the shared payload and notifies the watchers of every other
// handle synchronously.
func (h *Handle) Save(ctx context.Context, payload string) error {
	h.backend.mu.Lock()
	h.backend.payload = payload
	h.backend.ok = true
	others := make([]*Handle, 0, len(h.backend.handles))
	for other := range h.backend.handles {
		if other != h {
			others = append(others, other)
		}
	}
	h.backend.mu.Unlock()

	for _, other := range others {
		other.notify(payload)
	}
	return nil
}

// Watch registers fn for writes made through other handles.
func (h *Handle) Watch(ctx context.Context, fn func(payload string)) (func(), error) {
	h.mu.Lock()
	h.watchers = append(h.watchers, fn)
	pos := len(h.watchers) - 1
	h.mu.Unlock()

	stop := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.watchers[pos] = nil
	}
	return stop, nil
}

func (h *Handle) notify(payload string) {
	h.mu.Lock()
	watchers := make([]func(string), len(h.watchers))
	copy(watchers, h.watchers)
	h.mu.Unlock()

	for _, fn := range watchers {
		if fn != nil {
			fn(payload)
		}
	}
}
