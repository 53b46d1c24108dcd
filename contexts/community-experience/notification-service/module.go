package notificationservice

import (
	"log/slog"

	"bookstack/contexts/community-experience/notification-service/adapters/memory"
	"bookstack/contexts/community-experience/notification-service/application"
	"bookstack/contexts/community-experience/notification-service/ports"
)

// Module is the notification-service composition root.
type Module struct {
	Service application.Service
	Mailer  *memory.Mailer
}

type Dependencies struct {
	Mailer ports.Mailer
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Service: application.Service{
			Mailer: deps.Mailer,
			Logger: deps.Logger,
		},
	}
}

// NewInMemoryModule builds a module whose mailer records sends instead of
// delivering them.
func NewInMemoryModule(logger *slog.Logger) Module {
	mailer := memory.NewMailer()
	module := NewModule(Dependencies{
		Mailer: mailer,
		Logger: logger,
	})
	module.Mailer = mailer
	return module
}
