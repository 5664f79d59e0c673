package eventqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"

	eventservice "github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/application"
	"github.com/Monthly-Cup-Club/cup-scorer/app/shared/observability/attr"
	"github.com/Monthly-Cup-Club/cup-scorer/app/shared/observability/metrics"
	"github.com/Monthly-Cup-Club/cup-scorer/config"
)

// Service runs the auto-finalize jobs on River.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	metrics metrics.OperationMetrics
}

// NewService creates the River client for the event module. The sweeper is
// registered as a periodic job only when auto-finalize is enabled.
func NewService(
	ctx context.Context,
	dsn string,
	cfg config.AutoFinalizeConfig,
	events eventservice.Service,
	logger *slog.Logger,
	m metrics.OperationMetrics,
) (*Service, error) {
	ctxLogger := logger.With(
		attr.String("component", "river_queue"),
		attr.String("queue", QueueName),
	)

	start := time.Now()
	m.RecordOperationAttempt(ctx, "initialize_queue")

	// River requires pgx, not database/sql
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		m.RecordOperationFailure(ctx, "initialize_queue")
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		m.RecordOperationFailure(ctx, "initialize_queue")
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		m.RecordOperationFailure(ctx, "initialize_queue")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Service{pool: pool, logger: ctxLogger, metrics: m}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewFinalizeWorker(events, ctxLogger))
	river.AddWorker(workers, NewSweepWorker(events, s.EnqueueFinalize, cfg.Grace, ctxLogger))

	var periodic []*river.PeriodicJob
	if cfg.Enabled {
		periodic = append(periodic, river.NewPeriodicJob(
			river.PeriodicInterval(cfg.Interval),
			func() (river.JobArgs, *river.InsertOpts) {
				return SweepDueEventsJob{}, nil
			},
			&river.PeriodicJobOpts{RunOnStart: true},
		))
	}

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			QueueName: {MaxWorkers: 5},
		},
		Workers:      workers,
		PeriodicJobs: periodic,
		Logger:       ctxLogger,
	})
	if err != nil {
		pool.Close()
		m.RecordOperationFailure(ctx, "initialize_queue")
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}
	s.client = client

	m.RecordOperationSuccess(ctx, "initialize_queue")
	m.RecordOperationDuration(ctx, "initialize_queue", time.Since(start))

	ctxLogger.Info("Event queue service initialized",
		attr.Bool("auto_finalize", cfg.Enabled),
		attr.Duration("interval", cfg.Interval),
		attr.Duration("grace", cfg.Grace),
	)
	return s, nil
}

// Start starts the River client.
func (s *Service) Start(ctx context.Context) error {
	if err := s.client.Start(ctx); err != nil {
		s.logger.Error("Failed to start River client", attr.Error(err))
		return fmt.Errorf("failed to start River client: %w", err)
	}
	s.logger.Info("Event queue service started")
	return nil
}

// Stop waits for running jobs and closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	defer s.pool.Close()
	if err := s.client.Stop(ctx); err != nil {
		s.logger.Error("Failed to stop River client", attr.Error(err))
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.logger.Info("Event queue service stopped")
	return nil
}

// EnqueueFinalize schedules a finalize job. A job already pending for the
// event is not duplicated.
func (s *Service) EnqueueFinalize(ctx context.Context, eventID uuid.UUID) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "enqueue_finalize")

	res, err := s.client.Insert(ctx, FinalizeEventJob{EventID: eventID}, nil)
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, "enqueue_finalize")
		return fmt.Errorf("failed to enqueue finalize job: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "enqueue_finalize")
	s.metrics.RecordOperationDuration(ctx, "enqueue_finalize", time.Since(start))

	s.logger.InfoContext(ctx, "Finalize job enqueued",
		attr.EventID(eventID.String()),
		attr.Int64("job_id", res.Job.ID),
		attr.Bool("duplicate", res.UniqueSkippedAsDuplicate),
	)
	return nil
}
