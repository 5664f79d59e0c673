package eventservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	eventdb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/infrastructure/repositories"
	"github.com/Monthly-Cup-Club/cup-scorer/app/shared/observability/attr"
	"github.com/Monthly-Cup-Club/cup-scorer/app/shared/observability/metrics"
)

// EventService implements the Service interface.
type EventService struct {
	repo    eventdb.Repository
	scores  ScoreReader
	seasons SeasonStore
	logger  *slog.Logger
	metrics metrics.FinalizeMetrics
	tracer  trace.Tracer
	db      *bun.DB
	locks   *eventLocks
	now     func() time.Time
}

// NewEventService creates a new EventService.
func NewEventService(
	repo eventdb.Repository,
	scores ScoreReader,
	seasons SeasonStore,
	logger *slog.Logger,
	metrics metrics.FinalizeMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *EventService {
	return &EventService{
		repo:    repo,
		scores:  scores,
		seasons: seasons,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		db:      db,
		locks:   newEventLocks(),
		now:     time.Now,
	}
}

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[T any](
	s *EventService,
	ctx context.Context,
	operationName string,
	eventID string,
	op func(ctx context.Context) (T, error),
) (result T, err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("event_id", eventID),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, operationName+" triggered",
		attr.String("operation", operationName),
		attr.EventID(eventID),
		attr.ExtractCorrelationID(ctx),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.EventID(eventID),
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName)
			span.RecordError(err)
			var zero T
			result = zero
		}
	}()

	result, err = op(ctx)
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.EventID(eventID),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	s.metrics.RecordOperationSuccess(ctx, operationName)
	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[T any](
	s *EventService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (T, error),
) (T, error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result T
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})
	return result, err
}

func (s *EventService) idb() bun.IDB {
	if s.db == nil {
		return nil
	}
	return s.db
}

func toEventView(e eventdb.Event) EventView {
	return EventView{
		ID:                e.ID,
		Name:              e.Name,
		EventDate:         e.EventDate,
		CourseID:          e.CourseID,
		EventType:         e.EventType,
		Year:              e.Year,
		Status:            e.Status,
		ScoreEditDeadline: e.ScoreEditDeadline,
		IsFinalized:       e.IsFinalized,
		FinalizedAt:       e.FinalizedAt,
		FinalizedBy:       e.FinalizedBy,
	}
}
