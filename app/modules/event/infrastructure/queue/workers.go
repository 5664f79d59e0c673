package eventqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/riverqueue/river"

	eventservice "github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/application"
	"github.com/Monthly-Cup-Club/cup-scorer/app/shared/observability/attr"
)

// AutoFinalizeActor is recorded as finalized_by for sweeper finalizes.
const AutoFinalizeActor = "auto_finalize"

// sweepBatchSize bounds how many due events one sweep enqueues.
const sweepBatchSize = 100

// FinalizeWorker runs FinalizeEventJob.
type FinalizeWorker struct {
	river.WorkerDefaults[FinalizeEventJob]
	service eventservice.Service
	logger  *slog.Logger
}

// NewFinalizeWorker creates a FinalizeWorker.
func NewFinalizeWorker(service eventservice.Service, logger *slog.Logger) *FinalizeWorker {
	return &FinalizeWorker{service: service, logger: logger}
}

// Work finalizes the event. An event finalized by someone else first is a
// success. Data problems cancel the job since retrying cannot fix them.
func (w *FinalizeWorker) Work(ctx context.Context, job *river.Job[FinalizeEventJob]) error {
	eventID := job.Args.EventID
	logger := w.logger.With(attr.EventID(eventID.String()), attr.String("job_kind", job.Args.Kind()))

	result, err := w.service.FinalizeEvent(ctx, eventID, AutoFinalizeActor)
	switch {
	case err == nil:
		logger.InfoContext(ctx, "Event auto-finalized", attr.Int("participants", len(result.Results)))
		return nil
	case errors.Is(err, eventservice.ErrAlreadyFinalized):
		logger.InfoContext(ctx, "Event already finalized, skipping")
		return nil
	case errors.Is(err, eventservice.ErrEventNotFound),
		errors.Is(err, eventservice.ErrDataIntegrity),
		errors.Is(err, eventservice.ErrInvalidRequest):
		logger.WarnContext(ctx, "Auto-finalize cancelled", attr.Error(err))
		return river.JobCancel(err)
	default:
		logger.ErrorContext(ctx, "Auto-finalize failed", attr.Error(err))
		return fmt.Errorf("finalize event %s: %w", eventID, err)
	}
}

// EnqueueFunc schedules a finalize job for one event.
type EnqueueFunc func(ctx context.Context, eventID uuid.UUID) error

// SweepWorker runs SweepDueEventsJob.
type SweepWorker struct {
	river.WorkerDefaults[SweepDueEventsJob]
	service eventservice.Service
	enqueue EnqueueFunc
	grace   time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// NewSweepWorker creates a SweepWorker. Events become due grace after their
// score edit deadline.
func NewSweepWorker(service eventservice.Service, enqueue EnqueueFunc, grace time.Duration, logger *slog.Logger) *SweepWorker {
	return &SweepWorker{
		service: service,
		enqueue: enqueue,
		grace:   grace,
		logger:  logger,
		now:     time.Now,
	}
}

// Work enqueues a finalize job for every due event. A failed enqueue fails
// the sweep so the next run picks the event up again.
func (w *SweepWorker) Work(ctx context.Context, job *river.Job[SweepDueEventsJob]) error {
	cutoff := w.now().Add(-w.grace)

	due, err := w.service.ListDueEvents(ctx, cutoff, sweepBatchSize)
	if err != nil {
		return fmt.Errorf("list due events: %w", err)
	}
	if len(due) == 0 {
		w.logger.DebugContext(ctx, "No events due for auto-finalize", attr.Time("cutoff", cutoff))
		return nil
	}

	var errs []error
	for _, ev := range due {
		if err := w.enqueue(ctx, ev.ID); err != nil {
			w.logger.ErrorContext(ctx, "Failed to enqueue finalize job",
				attr.EventID(ev.ID.String()),
				attr.Error(err),
			)
			errs = append(errs, err)
		}
	}

	w.logger.InfoContext(ctx, "Auto-finalize sweep completed",
		attr.Int("due", len(due)),
		attr.Int("failed", len(errs)),
	)
	return errors.Join(errs...)
}
