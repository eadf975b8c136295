package services

import (
	"context"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tennis-tournament-api/config"
)

func TestSMTPMailer_NotConfigured(t *testing.T) {
	m := NewSMTPMailer(config.SMTPConfig{})
	err := m.SendVerificationCode(context.Background(), "a@example.com", "123456")
	assert.EqualError(t, err, "EMAIL_NOT_CONFIGURED")
}

func TestSMTPMailer_Send(t *testing.T) {
	var (
		gotAddr string
		gotFrom string
		gotTo   []string
		gotMsg  string
		gotAuth smtp.Auth
	)
	m := NewSMTPMailer(config.SMTPConfig{Host: "smtp.example.com", Port: 587, User: "u", Pass: "p", From: "noreply@example.com"})
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotAuth, gotFrom, gotTo, gotMsg = addr, a, from, to, string(msg)
		return nil
	}

	require.NoError(t, m.SendVerificationCode(context.Background(), "a@example.com", "654321"))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.NotNil(t, gotAuth)
	assert.Equal(t, "noreply@example.com", gotFrom)
	assert.Equal(t, []string{"a@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "To: a@example.com\r\n")
	assert.Contains(t, gotMsg, "654321")
}

func TestSMTPMailer_SendError(t *testing.T) {
	m := NewSMTPMailer(config.SMTPConfig{Host: "smtp.example.com", Port: 25, From: "noreply@example.com"})
	m.send = func(string, smtp.Auth, string, []string, []byte) error { return errBoom }

	err := m.SendVerificationCode(context.Background(), "a@example.com", "654321")
	assert.ErrorIs(t, err, errBoom)
}
