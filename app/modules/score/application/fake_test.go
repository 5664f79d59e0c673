package scoreservice

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	scoredb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/score/infrastructure/repositories"
)

// ------------------------
// Fake Score Repo
// ------------------------

type FakeScoreRepo struct {
	mu    sync.Mutex
	trace []string

	UpsertScoresFunc         func(ctx context.Context, db bun.IDB, scores []scoredb.Score) error
	ListScoresFunc           func(ctx context.Context, db bun.IDB, eventID uuid.UUID, playerID *uuid.UUID) ([]scoredb.Score, error)
	ListScoresForPlayersFunc func(ctx context.Context, db bun.IDB, eventID uuid.UUID, playerIDs []uuid.UUID) ([]scoredb.Score, error)
	ListExportRowsFunc       func(ctx context.Context, db bun.IDB, filter scoredb.ExportFilter) ([]scoredb.ExportRow, error)

	// Upserted accumulates every row passed to UpsertScores.
	Upserted []scoredb.Score
}

func NewFakeScoreRepo() *FakeScoreRepo {
	return &FakeScoreRepo{trace: []string{}}
}

func (f *FakeScoreRepo) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakeScoreRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeScoreRepo) UpsertScores(ctx context.Context, db bun.IDB, scores []scoredb.Score) error {
	f.record("UpsertScores")
	if f.UpsertScoresFunc != nil {
		return f.UpsertScoresFunc(ctx, db, scores)
	}
	f.mu.Lock()
	f.Upserted = append(f.Upserted, scores...)
	f.mu.Unlock()
	return nil
}

func (f *FakeScoreRepo) ListScores(ctx context.Context, db bun.IDB, eventID uuid.UUID, playerID *uuid.UUID) ([]scoredb.Score, error) {
	f.record("ListScores")
	if f.ListScoresFunc != nil {
		return f.ListScoresFunc(ctx, db, eventID, playerID)
	}
	return nil, nil
}

func (f *FakeScoreRepo) ListScoresForPlayers(ctx context.Context, db bun.IDB, eventID uuid.UUID, playerIDs []uuid.UUID) ([]scoredb.Score, error) {
	f.record("ListScoresForPlayers")
	if f.ListScoresForPlayersFunc != nil {
		return f.ListScoresForPlayersFunc(ctx, db, eventID, playerIDs)
	}
	return nil, nil
}

func (f *FakeScoreRepo) ListExportRows(ctx context.Context, db bun.IDB, filter scoredb.ExportFilter) ([]scoredb.ExportRow, error) {
	f.record("ListExportRows")
	if f.ListExportRowsFunc != nil {
		return f.ListExportRowsFunc(ctx, db, filter)
	}
	return nil, nil
}

var _ scoredb.Repository = (*FakeScoreRepo)(nil)

// ------------------------
// Fake Event Lookup
// ------------------------

type FakeEventLookup struct {
	Events map[uuid.UUID]*EventState
	Calls  []uuid.UUID
}

func (f *FakeEventLookup) GetEventForScoreWrite(ctx context.Context, db bun.IDB, eventID uuid.UUID) (*EventState, error) {
	f.Calls = append(f.Calls, eventID)
	if st, ok := f.Events[eventID]; ok {
		return st, nil
	}
	return nil, ErrEventNotFound
}
