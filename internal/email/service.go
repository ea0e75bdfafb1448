package email

import (
	"context"
	"fmt"
	"net/url"

	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/hospital-api/internal/config"
	"github.com/jwalitptl/hospital-api/pkg/logger"
)

type Service interface {
	SendVerification(ctx context.Context, email string, token string) error
	SendWelcome(ctx context.Context, email string, name string) error
}

type smtpService struct {
	from      string
	publicURL string
	send      func(m *gomail.Message) error
	logger    *logger.Logger
}

// NewService returns an SMTP sender when cfg has a host and a service that
// only logs outgoing mail otherwise.
func NewService(cfg config.SMTPConfig, publicURL string, log *logger.Logger) Service {
	s := &smtpService{from: cfg.From, publicURL: publicURL, logger: log}
	if cfg.Enabled() {
		dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
		s.send = func(m *gomail.Message) error { return dialer.DialAndSend(m) }
	} else {
		s.send = func(m *gomail.Message) error {
			log.Info("smtp disabled, email not sent",
				"to", m.GetHeader("To"),
				"subject", m.GetHeader("Subject"))
			return nil
		}
	}
	return s
}

func (s *smtpService) verificationLink(token string) string {
	return fmt.Sprintf("%s/api/auth/verify-email?token=%s", s.publicURL, url.QueryEscape(token))
}

func (s *smtpService) SendVerification(ctx context.Context, email string, token string) error {
	link := s.verificationLink(token)

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Verify your email address")
	m.SetBody("text/plain", "Confirm your hospital account by opening "+link+
		"\n\nOr submit this verification token: "+token)
	m.AddAlternative("text/html", `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
	<h1>Verify your email address</h1>
	<p>Confirm your hospital account by following the link below.</p>
	<p><a href="`+link+`">Verify email</a></p>
	<p>If you did not create an account, please ignore this email.</p>
</body>
</html>`)

	return s.deliver(ctx, m)
}

func (s *smtpService) SendWelcome(ctx context.Context, email string, name string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Welcome")
	m.SetBody("text/plain", fmt.Sprintf("Hello %s,\n\nYour email is verified and your account is ready.", name))

	return s.deliver(ctx, m)
}

func (s *smtpService) deliver(ctx context.Context, m *gomail.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.send(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
