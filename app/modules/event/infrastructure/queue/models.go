package eventqueue

import (
	"github.com/google/uuid"
	"github.com/riverqueue/river"
)

// QueueName is the river queue serving event jobs.
const QueueName = "event"

// FinalizeEventJob finalizes one event on behalf of the auto-finalize sweeper.
type FinalizeEventJob struct {
	EventID uuid.UUID `json:"event_id"`
}

// Kind returns the job type identifier for River
func (FinalizeEventJob) Kind() string { return "finalize_event" }

// InsertOpts keeps at most one pending finalize job per event.
func (FinalizeEventJob) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		Queue:      QueueName,
		UniqueOpts: river.UniqueOpts{ByArgs: true},
	}
}

// SweepDueEventsJob looks for open events past their score edit deadline.
type SweepDueEventsJob struct{}

// Kind returns the job type identifier for River
func (SweepDueEventsJob) Kind() string { return "sweep_due_events" }

func (SweepDueEventsJob) InsertOpts() river.InsertOpts {
	return river.InsertOpts{Queue: QueueName}
}
