package score

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"

	scoreservice "github.com/Monthly-Cup-Club/cup-scorer/app/modules/score/application"
	scorehandlers "github.com/Monthly-Cup-Club/cup-scorer/app/modules/score/infrastructure/handlers"
	scoredb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/score/infrastructure/repositories"
	"github.com/Monthly-Cup-Club/cup-scorer/app/shared/observability"
	"github.com/Monthly-Cup-Club/cup-scorer/app/shared/observability/metrics"
)

// Module represents the score module.
type Module struct {
	service scoreservice.Service
	logger  *slog.Logger
}

// NewModule creates the score module. events guards writes against
// finalized events and must share the event module's storage.
func NewModule(
	ctx context.Context,
	obs observability.Observability,
	metricSet *metrics.Set,
	events scoreservice.EventLookup,
	httpRouter chi.Router,
	db *bun.DB,
) *Module {
	logger := obs.Logger.With("module", "score")
	logger.InfoContext(ctx, "Initializing score module")

	service := scoreservice.NewScoreService(
		scoredb.NewRepository(),
		events,
		logger,
		metricSet.Operations("score"),
		obs.Tracer,
		db,
	)

	if httpRouter != nil {
		scorehandlers.NewScoreHandlers(service, logger).Routes(httpRouter)
	}

	return &Module{service: service, logger: logger}
}

// GetService returns the score service for use by other modules.
func (m *Module) GetService() scoreservice.Service {
	return m.service
}
