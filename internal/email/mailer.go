package email

import (
	"context"
	"fmt"
)

// Mailer renders the portal's transactional messages and hands them to a Provider.
type Mailer struct {
	provider Provider
	renderer TemplateRenderer
}

func NewMailer(provider Provider, renderer TemplateRenderer) *Mailer {
	return &Mailer{provider: provider, renderer: renderer}
}

func (m *Mailer) SendWelcome(ctx context.Context, to, fullName, mobile string) error {
	return m.send(ctx, to, "Telangana Dental Council - Registration Successful", TemplateWelcome, TemplateData{
		"FullName":     fullName,
		"Email":        to,
		"MobileNumber": mobile,
	})
}

func (m *Mailer) SendPasswordReset(ctx context.Context, to, fullName, resetURL string, validMinutes int) error {
	return m.send(ctx, to, "TDC Password Reset Request", TemplatePasswordReset, TemplateData{
		"FullName":     fullName,
		"ResetURL":     resetURL,
		"ValidMinutes": validMinutes,
	})
}

func (m *Mailer) SendPasswordChanged(ctx context.Context, to, fullName string) error {
	return m.send(ctx, to, "TDC Password Reset Successful", TemplatePasswordChanged, TemplateData{
		"FullName": fullName,
	})
}

func (m *Mailer) send(ctx context.Context, to, subject, templateName string, data TemplateData) error {
	body, err := m.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", templateName, err)
	}
	return m.provider.Send(ctx, &Email{
		To:       []string{to},
		Subject:  subject,
		HTMLBody: body,
	})
}
