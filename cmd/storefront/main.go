package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/candlegrove/storefront/internal/cart"
	"github.com/candlegrove/storefront/internal/cart/memstore"
	"github.com/candlegrove/storefront/internal/cart/redisstore"
	"github.com/candlegrove/storefront/internal/cart/sqlitestore"
	"github.com/candlegrove/storefront/internal/catalog"
	"github.com/candlegrove/storefront/internal/config"
	"github.com/candlegrove/storefront/internal/httpx"
	"github.com/candlegrove/storefront/internal/notify"
	"github.com/candlegrove/storefront/internal/pkg/telemetry"
	"github.com/candlegrove/storefront/internal/pricing"
)

func main() {
	// A missing .env file is fine; the system environment still applies.
	_ = godotenv.Load()

	cfg := config.Load()
	telemetry.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.EnableTracing {
		shutdown, err := telemetry.SetupTracer(ctx, "storefront", cfg.Environment)
		if err != nil {
			slog.Error("tracing setup failed, continuing without it", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }()
		}
	}

	cat, err := catalog.Load()
	if err != nil {
		slog.Error("catalog load failed", "error", err)
		os.Exit(1)
	}

	openStorage, closeStorage, err := buildStorageFactory(cfg)
	if err != nil {
		slog.Error("cart storage setup failed", "error", err)
		os.Exit(1)
	}
	defer closeStorage()

	pricingCfg := pricing.Config{
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		ShippingFee:           cfg.ShippingFee,
		TaxRate:               cfg.TaxRate,
	}

	mailer := notify.NewMailer(notify.SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		Recipient: cfg.OrderRecipient,
	})

	hub := httpx.NewHub()
	sessions := httpx.NewSessionManager(openStorage, mailer, pricingCfg, hub)
	defer sessions.Close()

	handler := httpx.NewHandler(cat, sessions, pricingCfg, hub, cfg.DefaultLocale)
	router := httpx.NewRouter(handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("storefront listening", "addr", srv.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	slog.Info("storefront stopped")
}

// buildStorageFactory picks the cart storage backend: Redis when configured,
// a SQLite file when a path is given, otherwise an in-process store that
// lives and dies with the process.
func buildStorageFactory(cfg *config.Config) (httpx.StorageFactory, func(), error) {
	switch {
	case cfg.RedisAddr != "":
		client := redisstore.NewClient(cfg.RedisAddr)
		factory := func(key string) (cart.Storage, error) {
			return redisstore.New(client, key), nil
		}
		slog.Info("cart storage: redis", "addr", cfg.RedisAddr)
		return factory, func() { _ = client.Close() }, nil

	case cfg.CartDBPath != "":
		db, err := sqlitestore.Open(cfg.CartDBPath)
		if err != nil {
			return nil, nil, err
		}
		factory := func(key string) (cart.Storage, error) {
			return db.Handle(key, 500*time.Millisecond), nil
		}
		slog.Info("cart storage: sqlite", "path", cfg.CartDBPath)
		return factory, func() { _ = db.Close() }, nil

	default:
		backends := newBackendSet()
		factory := func(key string) (cart.Storage, error) {
			return backends.open(key), nil
		}
		slog.Warn("cart storage: in-process only, carts will not survive restarts")
		return factory, func() {}, nil
	}
}

// backendSet keys in-process memstore backends so every session of the same
// shopper shares one.
type backendSet struct {
	mu       sync.Mutex
	backends map[string]*memstore.Backend
}

func newBackendSet() *backendSet {
	return &backendSet{backends: make(map[string]*memstore.Backend)}
}

func (s *backendSet) open(key string) cart.Storage {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.backends[key]
	if !ok {
		b = memstore.NewBackend()
		s.backends[key] = b
	}
	return b.Open()
}
