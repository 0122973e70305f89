// utils/email.go
package utils

import (
	"context"
	"fmt"
	"html"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer delivers transactional email.
type Mailer interface {
	SendEmail(ctx context.Context, toEmail, subject, htmlContent string) error
}

// SendGridMailer sends email through the SendGrid v3 API.
type SendGridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

// NewSendGridMailer returns a SendGrid-backed mailer. sender is the From address.
func NewSendGridMailer(apiKey, sender string) *SendGridMailer {
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("go-shop", sender),
	}
}

// SendEmail sends a basic email to the specified recipient
func (m *SendGridMailer) SendEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := mail.NewSingleEmail(m.from, subject, mail.NewEmail("", toEmail), htmlContent, htmlContent)
	resp, err := m.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("failed to send email: sendgrid status %d", resp.StatusCode)
	}
	return nil
}

// NoopMailer drops every message. Used when no mail provider is configured.
type NoopMailer struct{}

func (NoopMailer) SendEmail(context.Context, string, string, string) error { return nil }

// NewMailer picks SendGrid when an API key is configured.
func NewMailer(apiKey, sender string) Mailer {
	if apiKey == "" {
		return NoopMailer{}
	}
	return NewSendGridMailer(apiKey, sender)
}

// WelcomeEmail renders the registration greeting.
func WelcomeEmail(firstName string) (subject, body string) {
	subject = "Welcome to go-shop"
	body = fmt.Sprintf(
		"<strong>Hi %s,</strong><br><br>Your account has been created. Happy shopping!",
		html.EscapeString(firstName),
	)
	return subject, body
}
