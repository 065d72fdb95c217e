// Package sqlitestore provides a SQLite-backed implementation of cart.Storage.
//
// WAL mode is enabled on Open so that readers never block writers and vice
// versa; the watch poller reads while HTTP handlers write.
//
// SQLite has no change-notification primitive, so Watch polls the revision
// column. Each Save bumps the revision and remembers the value it wrote; the
// poller skips revisions this handle produced, so a session only observes
// writes made by other processes sharing the database file.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"

	// Register the pure-Go SQLite driver.
	// modernc.org/sqlite avoids CGO, keeping the build portable.
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup. One row per cart key; the
// revision counter is the change-detection mechanism.
const schema = `
CREATE TABLE IF NOT EXISTS carts (
    -- Storage key, one serialised cart per shopper session group.
    key        TEXT PRIMARY KEY,

    -- Serialised cart JSON.
    payload    TEXT    NOT NULL,

    -- Monotonic per-key write counter. Watch compares against it.
    revision   INTEGER NOT NULL,

    -- Wall-clock timestamp of the last write (RFC3339 TEXT, SQLite idiom).
    updated_at TEXT    NOT NULL
);
`

// DB wraps the shared database connection. Open it once in main and hand
// out per-session handles with Handle.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the database at the given path and applies the
// schema.
func Open(path string) (*DB, error) {
	// WAL enables concurrent readers. busy_timeout waits for locks instead
	// of failing immediately.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	// Use "sqlite", not "sqlite3", for the modernc driver.
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlitestore: apply schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close releases the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Handle returns a cart.Storage bound to the given key with the given watch
// poll interval.
func (d *DB) Handle(key string, pollEvery time.Duration) *Handle {
	return &Handle{db: d.db, key: key, pollEvery: pollEvery}
}

// Handle implements cart.Storage for one key.
type Handle struct {
	db        *sql.DB
	key       string
	pollEvery time.Duration

	mu       sync.Mutex
	lastSeen int64 // highest revision this handle has written or observed
}

// Load returns the persisted payload for the key.
func (h *Handle) Load(ctx context.Context) (string, bool, error) {
	const q = `SELECT payload, revision FROM carts WHERE key = ?`

	var payload string
	var revision int64
	err := h.db.QueryRowContext(ctx, q, h.key).Scan(&payload, &revision)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("sqlitestore: load %q: %w", h.key, err)
	}

	h.mu.Lock()
	if revision > h.lastSeen {
		h.lastSeen = revision
	}
	h.mu.Unlock()

	return payload, true, nil
}

// Save upserts the payload, bumping the revision. The written revision is
// recorded so the poller does not report this handle's own write.
func (h *Handle) Save(ctx context.Context, payload string) error {
	ctx, span := otel.Tracer("cartstorage").Start(ctx, "sqlitestore.Save")
	defer span.End()

	const q = `
		INSERT INTO carts (key, payload, revision, updated_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload    = excluded.payload,
			revision   = carts.revision + 1,
			updated_at = excluded.updated_at
		RETURNING revision`

	now := time.Now().UTC().Format(time.RFC3339Nano)

	var revision int64
	if err := h.db.QueryRowContext(ctx, q, h.key, payload, now).Scan(&revision); err != nil {
		return fmt.Errorf("sqlitestore: save %q: %w", h.key, err)
	}

	h.mu.Lock()
	if revision > h.lastSeen {
		h.lastSeen = revision
	}
	h.mu.Unlock()

	return nil
}

// Watch polls the revision column and calls fn when another writer has
// advanced it. Polling stops when the stop function is called or ctx is
// cancelled.
func (h *Handle) Watch(ctx context.Context, fn func(payload string)) (func(), error) {
	interval := h.pollEvery
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}

	watchCtx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-watchCtx.Done():
				return
			case <-ticker.C:
				h.poll(watchCtx, fn)
			}
		}
	}()

	return cancel, nil
}

func (h *Handle) poll(ctx context.Context, fn func(payload string)) {
	const q = `SELECT payload, revision FROM carts WHERE key = ?`

	var payload string
	var revision int64
	err := h.db.QueryRowContext(ctx, q, h.key).Scan(&payload, &revision)
	if err != nil {
		// Missing row or transient read failure: nothing to report.
		return
	}

	h.mu.Lock()
	changed := revision > h.lastSeen
	if changed {
		h.lastSeen = revision
	}
	h.mu.Unlock()

	if changed {
		fn(payload)
	}
}
