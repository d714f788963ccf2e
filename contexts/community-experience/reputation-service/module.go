package reputationservice

import (
	"log/slog"

	httpadapter "quad/contexts/community-experience/reputation-service/adapters/http"
	"quad/contexts/community-experience/reputation-service/adapters/memory"
	"quad/contexts/community-experience/reputation-service/application"
	"quad/contexts/community-experience/reputation-service/ports"
)

// Module exposes the ledger twice: Handler for the HTTP surface and Service
// for in-process penalty delivery from the moderation worker.
type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	ledger := application.Service{
		Repo:   deps.Repository,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: ledger, Logger: deps.Logger},
		Service: ledger,
	}
}

// NewInMemoryModule keeps scores in process memory only; they reset on restart.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{Repository: store, Logger: logger})
	module.Store = store
	return module
}
