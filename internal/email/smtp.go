package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	ResetURL string
}

type smtpService struct {
	dialer *gomail.Dialer
	cfg    SMTPConfig
}

// NewSMTPService sends mail through a plain SMTP relay
func NewSMTPService(cfg SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		cfg:    cfg,
	}
}

func (s *smtpService) SendPasswordReset(_ context.Context, to string, token string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Password recovery")
	m.SetBody("text/html", fmt.Sprintf(
		`<p>A password reset was requested for your account.</p>
<p><a href="%s?token=%s">Reset your password</a></p>
<p>The link expires in two hours. If you did not request this, ignore this message.</p>`,
		s.cfg.ResetURL, token,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}

func (s *smtpService) SendWelcome(_ context.Context, to string, name string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Welcome to GoBarber")
	m.SetBody("text/html", fmt.Sprintf("<p>Hi %s, your account is ready.</p>", name))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}
