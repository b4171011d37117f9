package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPProvider sends mail through an SMTP relay with gomail.
type SMTPProvider struct {
	dialer    *gomail.Dialer
	host      string
	port      int
	fromEmail string
	fromName  string
}

func NewSMTPProvider(cfg Config) *SMTPProvider {
	return &SMTPProvider{
		dialer:    gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

func (p *SMTPProvider) Send(ctx context.Context, email *Email) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.fromEmail, p.fromName)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)
	if email.HTMLBody != "" {
		m.SetBody("text/html", email.HTMLBody)
		if email.Body != "" {
			m.AddAlternative("text/plain", email.Body)
		}
	} else {
		m.SetBody("text/plain", email.Body)
	}

	if err := p.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via smtp: %w", err)
	}
	return nil
}

func (p *SMTPProvider) Validate() error {
	if p.host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if p.port <= 0 || p.port > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", p.port)
	}
	if p.fromEmail == "" {
		return fmt.Errorf("sender address is required")
	}
	return nil
}
