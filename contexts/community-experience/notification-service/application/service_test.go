package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"bookstack/contexts/community-experience/notification-service/adapters/memory"
	domainerrors "bookstack/contexts/community-experience/notification-service/domain/errors"
)

func contactInput() ContactInput {
	return ContactInput{
		BookTitle:         "The Go Programming Language",
		SubmitterID:       1,
		SubmitterUsername: "alice",
		SubmitterEmail:    "alice@example.com",
		SenderID:          2,
		SenderUsername:    "bob",
		SenderEmail:       "bob@example.com",
		Subject:           "Question about the book",
		Body:              "Is the second edition out?",
	}
}

func TestContactSubmitterSendsWithReplyTo(t *testing.T) {
	mailer := memory.NewMailer()
	service := Service{Mailer: mailer}

	if err := service.ContactSubmitter(context.Background(), contactInput()); err != nil {
		t.Fatal(err)
	}

	sent := mailer.Sent()
	if len(sent) != 1 {
		t.Fatalf("expected 1 sent email, got %d", len(sent))
	}
	email := sent[0]
	if email.ToAddress != "alice@example.com" {
		t.Fatalf("recipient = %q", email.ToAddress)
	}
	if email.ReplyTo != "bob@example.com" {
		t.Fatalf("reply-to = %q, want the sender's address", email.ReplyTo)
	}
	if email.Subject != "[Digital Library] Question about the book" {
		t.Fatalf("subject = %q", email.Subject)
	}
	for _, fragment := range []string{"Hello alice", "message from bob", `"The Go Programming Language"`, "Is the second edition out?"} {
		if !strings.Contains(email.PlainBody, fragment) {
			t.Fatalf("body missing %q:\n%s", fragment, email.PlainBody)
		}
	}
}

func TestContactSubmitterRejectsSelfContact(t *testing.T) {
	mailer := memory.NewMailer()
	service := Service{Mailer: mailer}

	input := contactInput()
	input.SenderID = input.SubmitterID
	err := service.ContactSubmitter(context.Background(), input)
	if !errors.Is(err, domainerrors.ErrSelfContact) {
		t.Fatalf("expected ErrSelfContact, got %v", err)
	}
	if len(mailer.Sent()) != 0 {
		t.Fatal("self-contact must not send anything")
	}
}

func TestContactSubmitterRequiresSubjectAndBody(t *testing.T) {
	mailer := memory.NewMailer()
	service := Service{Mailer: mailer}
	ctx := context.Background()

	for _, mutate := range []func(*ContactInput){
		func(i *ContactInput) { i.Subject = "  " },
		func(i *ContactInput) { i.Body = "" },
	} {
		input := contactInput()
		mutate(&input)
		if err := service.ContactSubmitter(ctx, input); !errors.Is(err, domainerrors.ErrEmptyMessage) {
			t.Fatalf("expected ErrEmptyMessage, got %v", err)
		}
	}
	if len(mailer.Sent()) != 0 {
		t.Fatal("invalid messages must not send anything")
	}
}

func TestContactSubmitterSurfacesDeliveryFailure(t *testing.T) {
	mailer := memory.NewMailer()
	service := Service{Mailer: mailer}

	mailer.FailNext(errors.New("smtp unreachable"))
	err := service.ContactSubmitter(context.Background(), contactInput())
	if !errors.Is(err, domainerrors.ErrSendFailed) {
		t.Fatalf("expected ErrSendFailed, got %v", err)
	}

	// the failure is not retried
	if len(mailer.Sent()) != 0 {
		t.Fatal("failed send must not be retried")
	}
}
