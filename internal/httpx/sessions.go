package httpx

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/candlegrove/storefront/internal/cart"
	"github.com/candlegrove/storefront/internal/checkout"
	"github.com/candlegrove/storefront/internal/pricing"
)

// sessionCookie identifies a shopper across requests. Every tab of the same
// browser shares it, so they all resolve to the same cart storage key.
const sessionCookie = "storefront_session"

// StorageFactory opens a cart storage handle for the given key. Each session
// gets its own handle so backends can distinguish writers.
type StorageFactory func(key string) (cart.Storage, error)

// session bundles the per-shopper state: the cart store and its checkout
// submitter.
type session struct {
	store     *cart.Store
	submitter *checkout.Submitter
}

// SessionManager lazily constructs one session per shopper id and keeps it
// for the lifetime of the process. Stores are wired to the WebSocket hub so
// every state change is pushed to that shopper's connected tabs.
type SessionManager struct {
	open     StorageFactory
	notifier checkout.Notifier
	pricing  pricing.Config
	hub      *Hub

	mu       sync.Mutex
	sessions map[string]*session
}

// NewSessionManager wires the session factory. hub may be nil when no push
// surface is needed (tests).
func NewSessionManager(open StorageFactory, notifier checkout.Notifier, cfg pricing.Config, hub *Hub) *SessionManager {
	return &SessionManager{
		open:     open,
		notifier: notifier,
		pricing:  cfg,
		hub:      hub,
		sessions: make(map[string]*session),
	}
}

// Session returns the session for the shopper id, creating it on first use.
func (m *SessionManager) Session(ctx context.Context, sid string) (*session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[sid]; ok {
		return s, nil
	}

	storage, err := m.open("cart:" + sid)
	if err != nil {
		return nil, fmt.Errorf("httpx: open cart storage for session %s: %w", sid, err)
	}

	store := cart.NewStore(ctx, storage)
	if m.hub != nil {
		store.OnChange(func(c cart.Cart) { m.hub.Broadcast(sid, c) })
	}

	s := &session{
		store:     store,
		submitter: checkout.NewSubmitter(store, m.notifier, m.pricing),
	}
	m.sessions[sid] = s
	return s, nil
}

// Close shuts down every session's storage watch.
func (m *SessionManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		s.store.Close()
	}
}

// shopperID reads the session cookie, minting and setting a fresh id when
// the request carries none.
func shopperID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}

	sid := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sid
}
