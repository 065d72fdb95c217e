package notify

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candlegrove/storefront/internal/catalog"
)

func fullSMTPConfig() SMTPConfig {
	return SMTPConfig{
		Host:      "smtp.example.com",
		Port:      "587",
		Username:  "orders@example.com",
		Password:  "secret",
		Recipient: "owner@example.com",
	}
}

func TestSendOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("SendsRenderedMessage", func(t *testing.T) {
		var gotAddr, gotFrom string
		var gotTo []string
		var gotMsg []byte

		m := NewMailer(fullSMTPConfig())
		m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
			return nil
		}

		require.NoError(t, m.SendOrder(ctx, sampleOrder(catalog.LocaleEn)))

		assert.Equal(t, "smtp.example.com:587", gotAddr)
		assert.Equal(t, "orders@example.com", gotFrom)
		assert.Equal(t, []string{"owner@example.com"}, gotTo)
		assert.Contains(t, string(gotMsg), "To: owner@example.com")
		assert.Contains(t, string(gotMsg), "Subject: New Order - 2 Items - Mona Hassan")
		assert.Contains(t, string(gotMsg), "Content-Type: text/html; charset=UTF-8")
		assert.Contains(t, string(gotMsg), "Vanilla Dream Candle")
	})

	t.Run("TransportFailureIsReturned", func(t *testing.T) {
		m := NewMailer(fullSMTPConfig())
		m.send = func(string, smtp.Auth, string, []string, []byte) error {
			return errors.New("connection refused")
		}

		err := m.SendOrder(ctx, sampleOrder(catalog.LocaleEn))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ord-123")
	})

	t.Run("DevModeSkipsTransport", func(t *testing.T) {
		m := NewMailer(SMTPConfig{})
		m.send = func(string, smtp.Auth, string, []string, []byte) error {
			t.Fatal("transport must not be used without SMTP settings")
			return nil
		}

		assert.NoError(t, m.SendOrder(ctx, sampleOrder(catalog.LocaleEn)))
	})
}
