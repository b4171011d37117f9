package email

import (
	"context"
	"sync"

	"tdc_backend/internal/logger"
)

// LogProvider writes messages to the log instead of delivering them. It keeps
// the sent messages so local runs and tests can inspect them.
type LogProvider struct {
	mu   sync.Mutex
	sent []Email
}

func NewLogProvider() *LogProvider {
	return &LogProvider{}
}

func (p *LogProvider) Send(ctx context.Context, email *Email) error {
	p.mu.Lock()
	p.sent = append(p.sent, *email)
	p.mu.Unlock()

	logger.CtxInfo(ctx, "email (not delivered)", "to", email.To, "subject", email.Subject)
	return nil
}

func (p *LogProvider) Validate() error {
	return nil
}

// Sent returns a copy of the messages recorded so far.
func (p *LogProvider) Sent() []Email {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Email(nil), p.sent...)
}
