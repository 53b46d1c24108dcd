package memory

import (
	"context"
	"sync"

	"bookstack/contexts/community-experience/notification-service/ports"
)

// Mailer records sends instead of delivering them. FailNext makes the next
// Send fail once, for exercising the delivery-failure path.
type Mailer struct {
	mu       sync.Mutex
	sent     []ports.Email
	failNext error
}

func NewMailer() *Mailer {
	return &Mailer{}
}

func (m *Mailer) Send(ctx context.Context, email ports.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	m.sent = append(m.sent, email)
	return nil
}

func (m *Mailer) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

func (m *Mailer) Sent() []ports.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.Email(nil), m.sent...)
}
