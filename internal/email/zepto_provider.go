package email

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ZeptoProvider posts messages to the ZeptoMail transactional email API.
type ZeptoProvider struct {
	client    *resty.Client
	url       string
	token     string
	fromEmail string
	fromName  string
}

type zeptoAddress struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

type zeptoRecipient struct {
	EmailAddress zeptoAddress `json:"email_address"`
}

type zeptoRequest struct {
	From     zeptoAddress     `json:"from"`
	To       []zeptoRecipient `json:"to"`
	Subject  string           `json:"subject"`
	HTMLBody string           `json:"htmlbody,omitempty"`
	TextBody string           `json:"textbody,omitempty"`
}

func NewZeptoProvider(cfg Config) *ZeptoProvider {
	client := resty.New().
		SetTimeout(15*time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	return &ZeptoProvider{
		client:    client,
		url:       cfg.ZeptoURL,
		token:     cfg.ZeptoToken,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

func (p *ZeptoProvider) Send(ctx context.Context, email *Email) error {
	body := zeptoRequest{
		From:     zeptoAddress{Address: p.fromEmail, Name: p.fromName},
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.Body,
	}
	for _, to := range email.To {
		body.To = append(body.To, zeptoRecipient{EmailAddress: zeptoAddress{Address: to}})
	}

	// the token already carries its "Zoho-enczapikey" scheme
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Authorization", p.token).
		SetBody(body).
		Post(p.url)
	if err != nil {
		return fmt.Errorf("zeptomail request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("zeptomail returned %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

func (p *ZeptoProvider) Validate() error {
	if p.url == "" || p.token == "" {
		return fmt.Errorf("ZeptoMail url and token are required")
	}
	if p.fromEmail == "" {
		return fmt.Errorf("sender address is required")
	}
	return nil
}
