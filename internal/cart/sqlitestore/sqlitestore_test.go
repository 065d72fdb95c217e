package sqlitestore_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candlegrove/storefront/internal/cart/sqlitestore"
)

func openTestDB(t *testing.T) *sqlitestore.DB {
	t.Helper()
	db, err := sqlitestore.Open(filepath.Join(t.TempDir(), "carts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestLoadSave(t *testing.T) {
	ctx := context.Background()

	t.Run("MissingKeyReportsNotFound", func(t *testing.T) {
		db := openTestDB(t)
		h := db.Handle("cart:s1", time.Second)

		_, ok, err := h.Load(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		db := openTestDB(t)
		h := db.Handle("cart:s1", time.Second)

		require.NoError(t, h.Save(ctx, `{"items":[]}`))

		payload, ok, err := h.Load(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `{"items":[]}`, payload)
	})

	t.Run("SaveOverwrites", func(t *testing.T) {
		db := openTestDB(t)
		h := db.Handle("cart:s1", time.Second)

		require.NoError(t, h.Save(ctx, "first"))
		require.NoError(t, h.Save(ctx, "second"))

		payload, ok, err := h.Load(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "second", payload)
	})

	t.Run("KeysAreIsolated", func(t *testing.T) {
		db := openTestDB(t)
		a := db.Handle("cart:a", time.Second)
		b := db.Handle("cart:b", time.Second)

		require.NoError(t, a.Save(ctx, "cart-a"))

		_, ok, err := b.Load(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestWatch(t *testing.T) {
	ctx := context.Background()

	t.Run("ReportsOtherHandlesWrites", func(t *testing.T) {
		db := openTestDB(t)
		watcher := db.Handle("cart:s1", 10*time.Millisecond)
		writer := db.Handle("cart:s1", 10*time.Millisecond)

		got := make(chan string, 1)
		stop, err := watcher.Watch(ctx, func(payload string) {
			select {
			case got <- payload:
			default:
			}
		})
		require.NoError(t, err)
		defer stop()

		require.NoError(t, writer.Save(ctx, "from-writer"))

		select {
		case payload := <-got:
			assert.Equal(t, "from-writer", payload)
		case <-time.After(2 * time.Second):
			t.Fatal("watcher never observed the external write")
		}
	})

	t.Run("SkipsOwnWrites", func(t *testing.T) {
		db := openTestDB(t)
		h := db.Handle("cart:s1", 10*time.Millisecond)

		got := make(chan string, 1)
		stop, err := h.Watch(ctx, func(payload string) { got <- payload })
		require.NoError(t, err)
		defer stop()

		require.NoError(t, h.Save(ctx, "own-write"))

		select {
		case payload := <-got:
			t.Fatalf("own write echoed back: %q", payload)
		case <-time.After(100 * time.Millisecond):
		}
	})

	t.Run("StopEndsPolling", func(t *testing.T) {
		db := openTestDB(t)
		watcher := db.Handle("cart:s1", 10*time.Millisecond)
		writer := db.Handle("cart:s1", 10*time.Millisecond)

		got := make(chan string, 8)
		stop, err := watcher.Watch(ctx, func(payload string) { got <- payload })
		require.NoError(t, err)
		stop()

		require.NoError(t, writer.Save(ctx, "after-stop"))

		select {
		case payload := <-got:
			t.Fatalf("stopped watcher still fired: %q", payload)
		case <-time.After(100 * time.Millisecond):
		}
	})
}
