// Package config loads the storefront configuration from the environment.
package config

import (
	"os"
	"strconv"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string
	Port        string

	// Cart storage. Redis is used when RedisAddr is set; otherwise the
	// SQLite file at CartDBPath; an in-process store when both are empty.
	RedisAddr  string
	CartDBPath string

	// Pricing business rules.
	FreeShippingThreshold float64
	ShippingFee           float64
	TaxRate               float64

	// Order notification email.
	SMTPHost       string
	SMTPPort       string
	SMTPUsername   string
	SMTPPassword   string
	OrderRecipient string

	// Localization.
	DefaultLocale string

	// Tracing.
	EnableTracing bool
}

// Load reads configuration from environment variables, applying defaults
// suitable for local development.
func Load() *Config {
	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8080"),

		RedisAddr:  getEnv("REDIS_ADDR", ""),
		CartDBPath: getEnv("CART_DB_PATH", ""),

		FreeShippingThreshold: getEnvAsFloat("FREE_SHIPPING_THRESHOLD", 500),
		ShippingFee:           getEnvAsFloat("SHIPPING_FEE", 50),
		TaxRate:               getEnvAsFloat("TAX_RATE", 0.10),

		SMTPHost:       getEnv("SMTP_HOST", ""),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SMTPUsername:   getEnv("SMTP_USERNAME", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		OrderRecipient: getEnv("ORDER_RECIPIENT", ""),

		DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),

		EnableTracing: getEnvAsBool("ENABLE_TRACING", false),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
