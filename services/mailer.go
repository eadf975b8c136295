package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"tennis-tournament-api/config"
)

// Mailer delivers verification codes. Usernames double as email addresses.
type Mailer interface {
	SendVerificationCode(ctx context.Context, to, code string) error
}

// SMTPMailer sends plain text mail through an SMTP relay.
type SMTPMailer struct {
	cfg  config.SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail}
}

func (m *SMTPMailer) SendVerificationCode(ctx context.Context, to, code string) error {
	if !m.cfg.Configured() {
		return errors.New("EMAIL_NOT_CONFIGURED")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: Your verification code",
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		fmt.Sprintf("Your verification code is %s.\r\n\r\nIf you did not try to log in, you can ignore this email.", code),
	}, "\r\n")

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	if err := m.send(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send verification email to %s: %w", to, err)
	}
	return nil
}

// LogMailer writes codes to the log instead of sending them. Used when SMTP
// is not configured (local development).
type LogMailer struct{}

func (LogMailer) SendVerificationCode(_ context.Context, to, code string) error {
	log.Printf("📧 [Mailer] SMTP not configured; verification code for %s is %s", to, code)
	return nil
}
