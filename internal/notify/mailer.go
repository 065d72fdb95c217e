// Package notify dispatches order notifications to the shop owner over SMTP.
//
// The mailer is the concrete side of the checkout.Notifier boundary: it
// receives a fully-formed order, renders a localized HTML summary, and sends
// it to a fixed recipient address.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/candlegrove/storefront/internal/checkout"
)

// SMTPConfig carries the mail transport settings.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string

	// Recipient is the fixed address every order notification goes to.
	Recipient string
}

// configured reports whether the transport settings are complete.
func (c SMTPConfig) configured() bool {
	return c.Host != "" && c.Port != "" && c.Username != "" && c.Password != "" && c.Recipient != ""
}

// Mailer implements checkout.Notifier over SMTP.
type Mailer struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewMailer creates a mailer. With incomplete SMTP settings the mailer runs
// in dev mode: orders are logged instead of sent, and reported as delivered.
func NewMailer(cfg SMTPConfig) *Mailer {
	if !cfg.configured() {
		slog.Warn("notify: SMTP not fully configured, orders will be logged instead of emailed")
	}
	return &Mailer{cfg: cfg, send: smtp.SendMail}
}

// SendOrder renders and dispatches the order notification email.
func (m *Mailer) SendOrder(ctx context.Context, order checkout.Order) error {
	subject, body, err := renderOrderEmail(order)
	if err != nil {
		return err
	}

	if !m.cfg.configured() {
		slog.InfoContext(ctx, "notify: dev mode, order logged instead of emailed",
			"order_id", order.ID, "subject", subject, "total", order.Summary.GrandTotal)
		return nil
	}

	msg := fmt.Sprintf("To: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		m.cfg.Recipient, subject, body)

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port

	if err := m.send(addr, auth, m.cfg.Username, []string{m.cfg.Recipient}, []byte(msg)); err != nil {
		return fmt.Errorf("notify: send order %s via %s: %w", order.ID, addr, err)
	}

	slog.InfoContext(ctx, "notify: order email sent", "order_id", order.ID, "to", m.cfg.Recipient)
	return nil
}
