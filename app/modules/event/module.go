package event

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/nats-io/nats.go"
	"github.com/uptrace/bun"
	"golang.org/x/time/rate"

	eventservice "github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/application"
	"github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/infrastructure/adapters"
	eventhandlers "github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/infrastructure/handlers"
	eventqueue "github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/infrastructure/queue"
	eventdb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/infrastructure/repositories"
	eventrouter "github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/infrastructure/router"
	leaderboarddb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/leaderboard/infrastructure/repositories"
	scoreservice "github.com/Monthly-Cup-Club/cup-scorer/app/modules/score/application"
	scoredb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/score/infrastructure/repositories"
	"github.com/Monthly-Cup-Club/cup-scorer/app/shared/httpx"
	"github.com/Monthly-Cup-Club/cup-scorer/app/shared/observability"
	"github.com/Monthly-Cup-Club/cup-scorer/app/shared/observability/metrics"
	"github.com/Monthly-Cup-Club/cup-scorer/config"
)

// Module represents the event module: finalize over HTTP, NATS and the
// auto-finalize queue.
type Module struct {
	config     *config.Config
	repo       eventdb.Repository
	service    eventservice.Service
	handlers   eventhandlers.Handlers
	router     *eventrouter.Router
	queue      *eventqueue.Service
	cancelFunc context.CancelFunc
	logger     *slog.Logger
}

// NewModule creates the event module. nc may be nil, in which case the NATS
// command subject is not served. The River queue is created only when
// auto-finalize is enabled.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	metricSet *metrics.Set,
	nc *nats.Conn,
	httpRouter chi.Router,
	db *bun.DB,
) (*Module, error) {
	logger := obs.Logger.With("module", "event")
	logger.InfoContext(ctx, "Initializing event module")

	repo := eventdb.NewRepository()
	service := eventservice.NewEventService(
		repo,
		adapters.NewScoreReader(scoredb.NewRepository()),
		adapters.NewSeasonStore(leaderboarddb.NewRepository()),
		logger,
		metricSet.Finalize(),
		obs.Tracer,
		db,
	)

	handlers := eventhandlers.NewEventHandlers(service, logger, obs.Tracer)

	if httpRouter != nil {
		limiter := httpx.NewIPRateLimiter(rate.Limit(cfg.HTTP.FinalizeRate), cfg.HTTP.FinalizeBurst)
		handlers.Routes(httpRouter, httpx.RateLimitMiddleware(limiter))
	}

	module := &Module{
		config:   cfg,
		repo:     repo,
		service:  service,
		handlers: handlers,
		logger:   logger,
	}

	if nc != nil {
		module.router = eventrouter.NewRouter(handlers, nc)
	}

	if cfg.AutoFinalize.Enabled {
		queue, err := eventqueue.NewService(ctx, cfg.Postgres.DSN, cfg.AutoFinalize, service, logger, metricSet.Operations("event_queue"))
		if err != nil {
			return nil, fmt.Errorf("failed to create event queue: %w", err)
		}
		module.queue = queue
	}

	return module, nil
}

// Run starts the NATS subscriptions and the queue, then blocks until ctx is done.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting event module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if m.router != nil {
		if err := m.router.Start(); err != nil {
			m.logger.ErrorContext(ctx, "Failed to start event router", "error", err)
			return
		}
	}

	if m.queue != nil {
		if err := m.queue.Start(ctx); err != nil {
			m.logger.ErrorContext(ctx, "Failed to start event queue", "error", err)
			return
		}
	}

	m.logger.InfoContext(ctx, "Event module started",
		"finalize_subject", eventrouter.FinalizeRequestSubject,
		"nats_enabled", m.router != nil,
		"auto_finalize_enabled", m.queue != nil,
	)

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Event module goroutine stopped")
}

// Close stops the event module.
func (m *Module) Close(ctx context.Context) error {
	m.logger.Info("Stopping event module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	var firstErr error
	if m.router != nil {
		if err := m.router.Stop(); err != nil {
			m.logger.Error("Error stopping event router", "error", err)
			firstErr = fmt.Errorf("error stopping router: %w", err)
		}
	}

	if m.queue != nil {
		if err := m.queue.Stop(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("error stopping queue: %w", err)
		}
	}

	m.logger.Info("Event module stopped")
	return firstErr
}

// GetService returns the event service for use by other modules.
func (m *Module) GetService() eventservice.Service {
	return m.service
}

// ScoreEventLookup returns the guard the score module uses to reject writes
// to finalized events.
func (m *Module) ScoreEventLookup() scoreservice.EventLookup {
	return adapters.NewScoreEventLookup(m.repo)
}
