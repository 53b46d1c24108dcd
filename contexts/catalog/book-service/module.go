package bookservice

import (
	"log/slog"

	"bookstack/contexts/catalog/book-service/adapters/memory"
	"bookstack/contexts/catalog/book-service/application"
	"bookstack/contexts/catalog/book-service/ports"
)

// Module is the book-service composition root exposed to runtime wiring.
type Module struct {
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Service: application.Service{
			Repo:   deps.Repository,
			Clock:  deps.Clock,
			Logger: deps.Logger,
		},
	}
}

// NewInMemoryModule builds a development/testing module with the in-memory
// store as both repository and clock.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Clock:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
