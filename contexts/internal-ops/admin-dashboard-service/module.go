package admindashboardservice

import (
	"log/slog"

	"bookstack/contexts/internal-ops/admin-dashboard-service/application"
	"bookstack/contexts/internal-ops/admin-dashboard-service/ports"
)

// Module is the admin-dashboard-service composition root. Unlike the other
// services it has no in-memory constructor of its own: the repository reads
// across the catalog and identity stores, so bootstrap assembles it from
// whichever adapters the rest of the app runs on.
type Module struct {
	Service application.Service
}

type Dependencies struct {
	Repo    ports.Repository
	Reviews ports.ReviewRemover
	Clock   ports.Clock
	Logger  *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Service: application.Service{
			Repo:    deps.Repo,
			Reviews: deps.Reviews,
			Clock:   deps.Clock,
			Logger:  deps.Logger,
		},
	}
}
