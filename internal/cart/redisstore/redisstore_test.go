package redisstore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candlegrove/storefront/internal/cart/redisstore"
)

// Requires a running Redis; set REDIS_TEST_ADDR to enable.
func testClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client := redisstore.NewClient(addr)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func testKey() string {
	return "cart:test:" + uuid.NewString()
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := testClient(t)
	key := testKey()

	h := redisstore.New(client, key)

	_, ok, err := h.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, h.Save(ctx, `{"items":[]}`))

	payload, ok, err := h.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"items":[]}`, payload)
}

func TestWatch(t *testing.T) {
	ctx := context.Background()
	client := testClient(t)
	key := testKey()

	watcher := redisstore.New(client, key)
	writer := redisstore.New(client, key)

	got := make(chan string, 1)
	stop, err := watcher.Watch(ctx, func(payload string) {
		select {
		case got <- payload:
		default:
		}
	})
	require.NoError(t, err)
	defer stop()

	t.Run("ReportsOtherHandlesWrites", func(t *testing.T) {
		require.NoError(t, writer.Save(ctx, "from-writer"))

		select {
		case payload := <-got:
			assert.Equal(t, "from-writer", payload)
		case <-time.After(2 * time.Second):
			t.Fatal("watcher never observed the external write")
		}
	})

	t.Run("SkipsOwnWrites", func(t *testing.T) {
		require.NoError(t, watcher.Save(ctx, "own-write"))

		select {
		case payload := <-got:
			t.Fatalf("own write echoed back: %q", payload)
		case <-time.After(300 * time.Millisecond):
		}
	})
}
