package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg := Load()

		assert.Equal(t, "development", cfg.Environment)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, 500.0, cfg.FreeShippingThreshold)
		assert.Equal(t, 50.0, cfg.ShippingFee)
		assert.Equal(t, 0.10, cfg.TaxRate)
		assert.Equal(t, "587", cfg.SMTPPort)
		assert.Equal(t, "en", cfg.DefaultLocale)
		assert.False(t, cfg.EnableTracing)
	})

	t.Run("EnvironmentOverrides", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("FREE_SHIPPING_THRESHOLD", "750")
		t.Setenv("TAX_RATE", "0.14")
		t.Setenv("REDIS_ADDR", "localhost:6379")
		t.Setenv("DEFAULT_LOCALE", "ar")
		t.Setenv("ENABLE_TRACING", "true")

		cfg := Load()

		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, 750.0, cfg.FreeShippingThreshold)
		assert.Equal(t, 0.14, cfg.TaxRate)
		assert.Equal(t, "localhost:6379", cfg.RedisAddr)
		assert.Equal(t, "ar", cfg.DefaultLocale)
		assert.True(t, cfg.EnableTracing)
	})

	t.Run("MalformedNumbersFallBack", func(t *testing.T) {
		t.Setenv("SHIPPING_FEE", "free")
		t.Setenv("ENABLE_TRACING", "maybe")

		cfg := Load()

		assert.Equal(t, 50.0, cfg.ShippingFee)
		assert.False(t, cfg.EnableTracing)
	})
}
