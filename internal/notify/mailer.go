// Package notify delivers best-effort account emails. Delivery failures are
// the caller's to log; they never roll back the operation that triggered
// the notification.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
)

// Mailer sends account-related mail.
type Mailer interface {
	// SendVerification delivers the verification token to the address.
	SendVerification(ctx context.Context, toEmail, token string) error
}

// SMTPConfig holds connection settings for the SMTP mailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	BaseURL  string // public base URL used to build the verification link
}

// Configured reports whether enough settings are present to send real mail.
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

// SMTPMailer sends verification mail over plain SMTP with auth.
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer creates a mailer for the given SMTP settings.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// SendVerification sends the verification code and link to the address.
func (m *SMTPMailer) SendVerification(ctx context.Context, toEmail, token string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	body := fmt.Sprintf("Your verification code: %s\r\n\r\nOr click: %s/verify?token=%s\r\n",
		token, m.cfg.BaseURL, token)
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Your verification code\r\n\r\n%s",
		m.cfg.From, toEmail, body))

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{toEmail}, msg); err != nil {
		return fmt.Errorf("failed to send verification mail: %w", err)
	}
	return nil
}

// LogMailer logs the verification token instead of sending mail. Used when
// SMTP is not configured, mirroring a development setup where the token is
// read off the server logs.
type LogMailer struct{}

// SendVerification logs the token.
func (LogMailer) SendVerification(ctx context.Context, toEmail, token string) error {
	slog.Info("SMTP not configured, verification token logged",
		"email", toEmail,
		"token", token,
	)
	return nil
}
