package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nats-io/nats.go"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/Monthly-Cup-Club/cup-scorer/app/modules/event"
	"github.com/Monthly-Cup-Club/cup-scorer/app/modules/leaderboard"
	"github.com/Monthly-Cup-Club/cup-scorer/app/modules/score"
	"github.com/Monthly-Cup-Club/cup-scorer/app/shared/observability"
	"github.com/Monthly-Cup-Club/cup-scorer/app/shared/observability/metrics"
	"github.com/Monthly-Cup-Club/cup-scorer/config"
)

// App holds the process-wide dependencies and the modules built on them.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	Metrics       *metrics.Set
	DB            *bun.DB
	NATS          *nats.Conn
	Router        chi.Router

	LeaderboardModule *leaderboard.Module
	ScoreModule       *score.Module
	EventModule       *event.Module

	logger *slog.Logger
}

// NewApp connects to Postgres (and NATS when configured) and builds the modules.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	obs := observability.New(cfg.Observability)
	logger := obs.Logger

	db, err := openDB(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, err
	}

	var nc *nats.Conn
	if cfg.NATS.URL != "" {
		nc, err = nats.Connect(cfg.NATS.URL,
			nats.Name("cup-scorer"),
			nats.MaxReconnects(-1),
			nats.ReconnectWait(2*time.Second),
		)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		logger.InfoContext(ctx, "Connected to NATS", "url", nc.ConnectedUrl())
	}

	app := &App{
		Config:        cfg,
		Observability: obs,
		Metrics:       metrics.NewSet(obs.Registry),
		DB:            db,
		NATS:          nc,
		Router:        newHTTPRouter(cfg.HTTP.AllowedOrigins),
		logger:        logger,
	}

	if err := app.initializeModules(ctx); err != nil {
		app.closeConnections()
		return nil, err
	}

	return app, nil
}

func (app *App) initializeModules(ctx context.Context) error {
	app.LeaderboardModule = leaderboard.NewModule(ctx, app.Observability, app.Metrics, app.Router, app.DB)

	eventModule, err := event.NewModule(ctx, app.Config, app.Observability, app.Metrics, app.NATS, app.Router, app.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize event module: %w", err)
	}
	app.EventModule = eventModule

	app.ScoreModule = score.NewModule(ctx, app.Observability, app.Metrics, eventModule.ScoreEventLookup(), app.Router, app.DB)

	app.logger.InfoContext(ctx, "All modules initialized")
	return nil
}

func openDB(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func (app *App) closeConnections() {
	if app.NATS != nil {
		if err := app.NATS.Drain(); err != nil {
			app.logger.Error("Error draining NATS connection", "error", err)
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.logger.Error("Error closing database", "error", err)
		}
	}
}
