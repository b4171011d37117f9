package email

import (
	"context"
	"fmt"
)

// Provider delivers a rendered message.
type Provider interface {
	Send(ctx context.Context, email *Email) error

	// Validate checks the provider configuration
	Validate() error
}

// TemplateRenderer renders named templates.
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
}

// Config selects and configures a provider.
type Config struct {
	Provider     string // smtp, zeptomail, log
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
	ZeptoURL     string
	ZeptoToken   string
}

// NewProvider builds the provider named in cfg.
func NewProvider(cfg Config) (Provider, error) {
	var p Provider
	switch cfg.Provider {
	case "smtp":
		p = NewSMTPProvider(cfg)
	case "zeptomail":
		p = NewZeptoProvider(cfg)
	case "log", "":
		p = NewLogProvider()
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.Provider)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
