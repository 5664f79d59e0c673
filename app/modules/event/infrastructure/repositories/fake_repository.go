package eventdb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FakeRepository is a Repository whose behaviour is set per test through the
// Fn fields. Unset methods succeed with zero values.
type FakeRepository struct {
	LockEventFn         func(ctx context.Context, db bun.IDB, eventID uuid.UUID) error
	GetEventFn          func(ctx context.Context, db bun.IDB, eventID uuid.UUID) (*Event, error)
	GetEventForUpdateFn func(ctx context.Context, db bun.IDB, eventID uuid.UUID) (*Event, error)
	GetEventForShareFn  func(ctx context.Context, db bun.IDB, eventID uuid.UUID) (*Event, error)
	ListCourseHolesFn   func(ctx context.Context, db bun.IDB, courseID uuid.UUID) ([]CourseHole, error)
	ListParticipantsFn  func(ctx context.Context, db bun.IDB, eventID uuid.UUID) ([]Participant, error)
	UpsertResultsFn     func(ctx context.Context, db bun.IDB, results []EventResult) error
	MarkFinalizedFn     func(ctx context.Context, db bun.IDB, eventID uuid.UUID, at time.Time, by string) error
	ListResultsFn       func(ctx context.Context, db bun.IDB, eventID uuid.UUID) ([]ResultRow, error)
	ListEventsFn        func(ctx context.Context, db bun.IDB, filter ListFilter) ([]Event, error)
	ListDueEventsFn     func(ctx context.Context, db bun.IDB, cutoff time.Time, limit int) ([]Event, error)
}

func (f *FakeRepository) LockEvent(ctx context.Context, db bun.IDB, eventID uuid.UUID) error {
	if f.LockEventFn != nil {
		return f.LockEventFn(ctx, db, eventID)
	}
	return nil
}

func (f *FakeRepository) GetEvent(ctx context.Context, db bun.IDB, eventID uuid.UUID) (*Event, error) {
	if f.GetEventFn != nil {
		return f.GetEventFn(ctx, db, eventID)
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) GetEventForUpdate(ctx context.Context, db bun.IDB, eventID uuid.UUID) (*Event, error) {
	if f.GetEventForUpdateFn != nil {
		return f.GetEventForUpdateFn(ctx, db, eventID)
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) GetEventForShare(ctx context.Context, db bun.IDB, eventID uuid.UUID) (*Event, error) {
	if f.GetEventForShareFn != nil {
		return f.GetEventForShareFn(ctx, db, eventID)
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) ListCourseHoles(ctx context.Context, db bun.IDB, courseID uuid.UUID) ([]CourseHole, error) {
	if f.ListCourseHolesFn != nil {
		return f.ListCourseHolesFn(ctx, db, courseID)
	}
	return nil, nil
}

func (f *FakeRepository) ListParticipants(ctx context.Context, db bun.IDB, eventID uuid.UUID) ([]Participant, error) {
	if f.ListParticipantsFn != nil {
		return f.ListParticipantsFn(ctx, db, eventID)
	}
	return nil, nil
}

func (f *FakeRepository) UpsertResults(ctx context.Context, db bun.IDB, results []EventResult) error {
	if f.UpsertResultsFn != nil {
		return f.UpsertResultsFn(ctx, db, results)
	}
	return nil
}

func (f *FakeRepository) MarkFinalized(ctx context.Context, db bun.IDB, eventID uuid.UUID, at time.Time, by string) error {
	if f.MarkFinalizedFn != nil {
		return f.MarkFinalizedFn(ctx, db, eventID, at, by)
	}
	return nil
}

func (f *FakeRepository) ListResults(ctx context.Context, db bun.IDB, eventID uuid.UUID) ([]ResultRow, error) {
	if f.ListResultsFn != nil {
		return f.ListResultsFn(ctx, db, eventID)
	}
	return nil, nil
}

func (f *FakeRepository) ListEvents(ctx context.Context, db bun.IDB, filter ListFilter) ([]Event, error) {
	if f.ListEventsFn != nil {
		return f.ListEventsFn(ctx, db, filter)
	}
	return nil, nil
}

func (f *FakeRepository) ListDueEvents(ctx context.Context, db bun.IDB, cutoff time.Time, limit int) ([]Event, error) {
	if f.ListDueEventsFn != nil {
		return f.ListDueEventsFn(ctx, db, cutoff, limit)
	}
	return nil, nil
}

var _ Repository = (*FakeRepository)(nil)
