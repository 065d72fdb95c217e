package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/candlegrove/storefront/internal/cart"
)

// wsClient is one WebSocket connection. Writes go through the send channel
// so a single goroutine owns the connection's write side.
type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans cart snapshots out to the WebSocket connections of each shopper
// session. This is the cross-tab sync surface: a tab that mutates the cart
// causes every other connected tab of the same shopper to receive the new
// state.
type Hub struct {
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	sessions map[string]map[*wsClient]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			// The cart feed is read-only and session-scoped; cross-origin
			// pages gain nothing beyond what the JSON API already exposes.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		sessions: make(map[string]map[*wsClient]struct{}),
	}
}

// Broadcast pushes a cart snapshot to every connection of the session.
// Slow clients are dropped rather than allowed to block the mutating
// goroutine.
func (h *Hub) Broadcast(sid string, c cart.Cart) {
	msg, err := json.Marshal(c)
	if err != nil {
		slog.Error("httpx: marshal cart for websocket push", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.sessions[sid] {
		select {
		case client.send <- msg:
		default:
			// Buffer full: close the channel and let the write pump clean up.
			close(client.send)
			delete(h.sessions[sid], client)
		}
	}
}

// Serve upgrades the request and streams cart state until the client
// disconnects. The current cart is pushed immediately on connect.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, sid string, current cart.Cart) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		slog.WarnContext(r.Context(), "httpx: websocket upgrade failed", "error", err)
		return
	}

	client := &wsClient{conn: conn, send: make(chan []byte, 8)}

	h.mu.Lock()
	if h.sessions[sid] == nil {
		h.sessions[sid] = make(map[*wsClient]struct{})
	}
	h.sessions[sid][client] = struct{}{}
	h.mu.Unlock()

	if msg, err := json.Marshal(current); err == nil {
		client.send <- msg
	}

	go client.writePump()
	client.readPump(func() { h.remove(sid, client) })
}

func (h *Hub) remove(sid string, client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.sessions[sid]; ok {
		if _, present := clients[client]; present {
			delete(clients, client)
			close(client.send)
		}
		if len(clients) == 0 {
			delete(h.sessions, sid)
		}
	}
}

// writePump owns the connection's write side: it drains the send channel
// until it is closed, then closes the connection.
func (c *wsClient) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// readPump discards inbound frames; its job is detecting disconnects.
func (c *wsClient) readPump(onClose func()) {
	defer onClose()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
