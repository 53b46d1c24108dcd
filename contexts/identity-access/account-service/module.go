package accountservice

import (
	"log/slog"

	bcryptadapter "bookstack/contexts/identity-access/account-service/adapters/bcrypt"
	"bookstack/contexts/identity-access/account-service/adapters/memory"
	"bookstack/contexts/identity-access/account-service/application"
	"bookstack/contexts/identity-access/account-service/ports"

	"golang.org/x/crypto/bcrypt"
)

// Module is the account-service composition root exposed to runtime wiring.
type Module struct {
	Service application.Service
	Store   *memory.Store
}

// Dependencies captures all runtime ports required by NewModule.
type Dependencies struct {
	Repository ports.Repository
	Sessions   ports.SessionStore
	Hasher     ports.PasswordHasher
	Activity   ports.ActivityReader
	Clock      ports.Clock
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Service: application.Service{
			Repo:     deps.Repository,
			Sessions: deps.Sessions,
			Hasher:   deps.Hasher,
			Activity: deps.Activity,
			Clock:    deps.Clock,
			Logger:   deps.Logger,
		},
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters. Activity reads still come from the catalog, so the reader is
// passed in by the caller.
func NewInMemoryModule(activity ports.ActivityReader, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Sessions:   store,
		Hasher:     bcryptadapter.Hasher{Cost: bcrypt.MinCost},
		Activity:   activity,
		Clock:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
