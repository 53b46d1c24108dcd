package ports

import "context"

type Email struct {
	ToName    string
	ToAddress string
	ReplyTo   string
	Subject   string
	PlainBody string
}

// Mailer is the opaque outbound-send capability.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}
