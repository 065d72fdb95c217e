// Package redisstore provides a Redis-backed implementation of cart.Storage.
//
// The serialised cart lives under a single Redis key; change notification
// rides a Pub/Sub channel derived from that key. Every handle tags its
// publishes with an origin id and drops its own messages on the subscribe
// side, so a session never observes its own writes. Concurrent sessions
// follow last-write-wins, matching the storage contract.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
)

// Handle implements cart.Storage for one (client, key) pair.
type Handle struct {
	client *redis.Client
	key    string
	origin string
}

// envelope is the Pub/Sub message format.
type envelope struct {
	Origin  string `json:"origin"`
	Payload string `json:"payload"`
}

// New returns a handle bound to the given key. The client is shared; each
// session gets its own handle (and therefore its own origin id).
func New(client *redis.Client, key string) *Handle {
	return &Handle{
		client: client,
		key:    key,
		origin: uuid.NewString(),
	}
}

// NewClient builds a Redis client for the given address.
func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

// Load fetches the persisted payload. A missing key is not an error.
func (h *Handle) Load(ctx context.Context) (string, bool, error) {
	val, err := h.client.Get(ctx, h.key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redisstore: get %q: %w", h.key, err)
	}
	return val, true, nil
}

// Save replaces the payload and publishes the change for other sessions.
// The SET is the source of truth; a failed publish only delays other
// sessions until their next load.
func (h *Handle) Save(ctx context.Context, payload string) error {
	ctx, span := otel.Tracer("cartstorage").Start(ctx, "redisstore.Save")
	defer span.End()

	if err := h.client.Set(ctx, h.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("redisstore: set %q: %w", h.key, err)
	}

	msg, err := json.Marshal(envelope{Origin: h.origin, Payload: payload})
	if err != nil {
		return fmt.Errorf("redisstore: marshal change envelope: %w", err)
	}
	if err := h.client.Publish(ctx, h.channel(), msg).Err(); err != nil {
		return fmt.Errorf("redisstore: publish change for %q: %w", h.key, err)
	}
	return nil
}

// Watch subscribes to the key's change channel and calls fn for payloads
// written by other handles. Messages from this handle's own origin are
// skipped. The subscription runs until the stop function is called or ctx
// is cancelled.
func (h *Handle) Watch(ctx context.Context, fn func(payload string)) (func(), error) {
	sub := h.client.Subscribe(ctx, h.channel())

	// Confirm the subscription before returning so no write is missed
	// between NewStore's initial load and the watch becoming active.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("redisstore: subscribe %q: %w", h.channel(), err)
	}

	go func() {
		for msg := range sub.Channel() {
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				continue
			}
			if env.Origin == h.origin {
				continue
			}
			fn(env.Payload)
		}
	}()

	stop := func() { _ = sub.Close() }
	return stop, nil
}

func (h *Handle) channel() string {
	return h.key + ":changes"
}
