package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	domainerrors "bookstack/contexts/community-experience/notification-service/domain/errors"
	"bookstack/contexts/community-experience/notification-service/ports"
)

const subjectPrefix = "[Digital Library] "

type Service struct {
	Mailer ports.Mailer
	Logger *slog.Logger
}

type ContactInput struct {
	BookTitle string

	SubmitterID       uint
	SubmitterUsername string
	SubmitterEmail    string

	SenderID       uint
	SenderUsername string
	SenderEmail    string

	Subject string
	Body    string
}

// ContactSubmitter composes and hands off the message. The sender must not be
// the book's submitter, and subject and body must be non-empty; both checks
// happen before anything leaves the system.
func (s Service) ContactSubmitter(ctx context.Context, input ContactInput) error {
	if input.SenderID == input.SubmitterID {
		return domainerrors.ErrSelfContact
	}
	subject := strings.TrimSpace(input.Subject)
	body := strings.TrimSpace(input.Body)
	if subject == "" || body == "" {
		return domainerrors.ErrEmptyMessage
	}

	email := ports.Email{
		ToName:    input.SubmitterUsername,
		ToAddress: input.SubmitterEmail,
		ReplyTo:   input.SenderEmail,
		Subject:   subjectPrefix + subject,
		PlainBody: composeBody(input, body),
	}
	if err := s.Mailer.Send(ctx, email); err != nil {
		s.logger().Error("contact message delivery failed",
			"event", "notification_send_failed",
			"module", "community-experience/notification-service",
			"book_title", input.BookTitle,
			"error", err.Error(),
		)
		return domainerrors.ErrSendFailed
	}

	s.logger().Info("contact message sent",
		"event", "notification_sent",
		"module", "community-experience/notification-service",
		"book_title", input.BookTitle,
	)
	return nil
}

func composeBody(input ContactInput, body string) string {
	return fmt.Sprintf(`Hello %s,

You have received a message from %s regarding your book "%s":

---
%s
---

You can reply directly to this email to respond to %s at: %s

Best regards,
Digital Library Team
`,
		input.SubmitterUsername,
		input.SenderUsername,
		input.BookTitle,
		body,
		input.SenderUsername,
		input.SenderEmail,
	)
}

func (s Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
