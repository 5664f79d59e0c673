package eventdb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for event persistence.
// Every method takes the bun.IDB to run on so callers control transactions.
//
// Error semantics:
//   - ErrNotFound: the event does not exist (GetEvent, GetEventForUpdate, GetEventForShare)
//   - ErrNoRowsAffected: MarkFinalized found the event already finalized
//   - Other errors: infrastructure failures
type Repository interface {
	// LockEvent takes a transaction-scoped advisory lock keyed by event id.
	LockEvent(ctx context.Context, db bun.IDB, eventID uuid.UUID) error
	GetEvent(ctx context.Context, db bun.IDB, eventID uuid.UUID) (*Event, error)
	GetEventForUpdate(ctx context.Context, db bun.IDB, eventID uuid.UUID) (*Event, error)
	GetEventForShare(ctx context.Context, db bun.IDB, eventID uuid.UUID) (*Event, error)
	ListCourseHoles(ctx context.Context, db bun.IDB, courseID uuid.UUID) ([]CourseHole, error)
	ListParticipants(ctx context.Context, db bun.IDB, eventID uuid.UUID) ([]Participant, error)
	UpsertResults(ctx context.Context, db bun.IDB, results []EventResult) error
	MarkFinalized(ctx context.Context, db bun.IDB, eventID uuid.UUID, at time.Time, by string) error
	ListResults(ctx context.Context, db bun.IDB, eventID uuid.UUID) ([]ResultRow, error)
	ListEvents(ctx context.Context, db bun.IDB, filter ListFilter) ([]Event, error)
	// ListDueEvents returns open events whose score edit deadline is at or before cutoff.
	ListDueEvents(ctx context.Context, db bun.IDB, cutoff time.Time, limit int) ([]Event, error)
}
