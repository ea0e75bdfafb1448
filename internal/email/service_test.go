package email

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/hospital-api/internal/config"
	"github.com/jwalitptl/hospital-api/pkg/logger"
)

func newCapturing(t *testing.T) (*smtpService, *[]*gomail.Message) {
	t.Helper()
	var sent []*gomail.Message
	svc := NewService(config.SMTPConfig{From: "no-reply@hospital.test"}, "https://hms.example",
		logger.NewLogger(&logger.Config{Output: io.Discard})).(*smtpService)
	svc.send = func(m *gomail.Message) error {
		sent = append(sent, m)
		return nil
	}
	return svc, &sent
}

func TestSendVerification(t *testing.T) {
	svc, sent := newCapturing(t)

	require.NoError(t, svc.SendVerification(context.Background(), "nurse@hospital.test", "tok en"))

	require.Len(t, *sent, 1)
	m := (*sent)[0]
	assert.Equal(t, []string{"nurse@hospital.test"}, m.GetHeader("To"))
	assert.Equal(t, []string{"no-reply@hospital.test"}, m.GetHeader("From"))

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Subject: Verify your email address")
	assert.Contains(t, buf.String(), "text/html")
}

func TestVerificationLinkEscapesToken(t *testing.T) {
	svc, _ := newCapturing(t)
	assert.Equal(t, "https://hms.example/api/auth/verify-email?token=a%2Fb+c", svc.verificationLink("a/b c"))
}

func TestSendFailureIsWrapped(t *testing.T) {
	svc, _ := newCapturing(t)
	svc.send = func(*gomail.Message) error { return errors.New("connection refused") }

	err := svc.SendWelcome(context.Background(), "a@b.test", "Ada")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send email")
}

func TestDisabledSMTPDoesNotFail(t *testing.T) {
	svc := NewService(config.SMTPConfig{}, "http://localhost", logger.NewLogger(&logger.Config{Output: io.Discard}))
	assert.NoError(t, svc.SendWelcome(context.Background(), "a@b.test", "Ada"))
}
