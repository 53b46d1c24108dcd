package sendgridadapter

import (
	"context"
	"fmt"

	"bookstack/contexts/community-experience/notification-service/ports"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer implements the Mailer port on the sendgrid API.
type Mailer struct {
	client      *sendgrid.Client
	fromName    string
	fromAddress string
}

func NewMailer(apiKey, fromName, fromAddress string) *Mailer {
	return &Mailer{
		client:      sendgrid.NewSendClient(apiKey),
		fromName:    fromName,
		fromAddress: fromAddress,
	}
}

func (m *Mailer) Send(ctx context.Context, email ports.Email) error {
	message := mail.NewSingleEmail(
		mail.NewEmail(m.fromName, m.fromAddress),
		email.Subject,
		mail.NewEmail(email.ToName, email.ToAddress),
		email.PlainBody,
		"",
	)
	if email.ReplyTo != "" {
		message.SetReplyTo(mail.NewEmail("", email.ReplyTo))
	}

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send: status %d", response.StatusCode)
	}
	return nil
}
