package leaderboard

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"

	leaderboardservice "github.com/Monthly-Cup-Club/cup-scorer/app/modules/leaderboard/application"
	leaderboardhandlers "github.com/Monthly-Cup-Club/cup-scorer/app/modules/leaderboard/infrastructure/handlers"
	leaderboarddb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Monthly-Cup-Club/cup-scorer/app/shared/observability"
	"github.com/Monthly-Cup-Club/cup-scorer/app/shared/observability/metrics"
)

// Module represents the leaderboard module.
type Module struct {
	service leaderboardservice.Service
	logger  *slog.Logger
}

// NewModule creates the leaderboard module and mounts its HTTP routes.
func NewModule(
	ctx context.Context,
	obs observability.Observability,
	metricSet *metrics.Set,
	httpRouter chi.Router,
	db *bun.DB,
) *Module {
	logger := obs.Logger.With("module", "leaderboard")
	logger.InfoContext(ctx, "Initializing leaderboard module")

	repo := leaderboarddb.NewRepository()
	service := leaderboardservice.NewLeaderboardService(repo, logger, metricSet.Operations("leaderboard"), obs.Tracer, db)

	if httpRouter != nil {
		leaderboardhandlers.NewLeaderboardHandlers(service, logger).Routes(httpRouter)
	}

	return &Module{service: service, logger: logger}
}

// GetService returns the leaderboard service for use by other modules.
func (m *Module) GetService() leaderboardservice.Service {
	return m.service
}
