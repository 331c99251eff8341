// Package mailer implements outbound transactional email. The Mailer
// interface is the single collaborator the services depend on; delivery is
// best-effort and callers log failures without failing the primary operation.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/adilnd/portfolio-api/internal/config"
)

// Email is one outbound message.
type Email struct {
	To      string
	Subject string
	HTML    string
}

// Mailer sends a single email.
type Mailer interface {
	Send(ctx context.Context, e Email) error
}

// SMTPMailer delivers mail through a plain SMTP relay.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// NewSMTP constructs an SMTPMailer.
func NewSMTP(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers the email via smtp.SendMail. The context is accepted for
// interface symmetry; net/smtp does not support cancellation mid-send.
func (m *SMTPMailer) Send(_ context.Context, e Email) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", e.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", e.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(e.HTML)

	addr := m.cfg.Host + ":" + m.cfg.Port
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{e.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogMailer logs messages instead of sending them. Used when SMTP is not
// configured, and in tests.
type LogMailer struct {
	logger *slog.Logger
}

// NewLog constructs a LogMailer.
func NewLog(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the email and reports success.
func (m *LogMailer) Send(_ context.Context, e Email) error {
	m.logger.Info("mail (not sent, smtp disabled)",
		slog.String("to", e.To),
		slog.String("subject", e.Subject),
	)
	return nil
}

// New returns an SMTPMailer when a host is configured, otherwise a LogMailer.
func New(cfg config.SMTPConfig, logger *slog.Logger) Mailer {
	if cfg.Host == "" {
		return NewLog(logger)
	}
	return NewSMTP(cfg)
}
