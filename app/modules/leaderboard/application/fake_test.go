package leaderboardservice

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	leaderboarddb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/leaderboard/infrastructure/repositories"
)

// ------------------------
// Fake Season Repo
// ------------------------

type FakeSeasonRepo struct {
	trace []string

	GetPlayerFunc             func(ctx context.Context, db bun.IDB, playerID uuid.UUID) (*leaderboarddb.Player, error)
	GetSeasonStatsFunc        func(ctx context.Context, db bun.IDB, year int, playerIDs []uuid.UUID) (map[uuid.UUID]*leaderboarddb.SeasonStats, error)
	CreateSeasonStatsFunc     func(ctx context.Context, db bun.IDB, stats *leaderboarddb.SeasonStats) error
	ApplySeasonDeltasFunc     func(ctx context.Context, db bun.IDB, deltas []leaderboarddb.SeasonDelta) error
	InsertHandicapHistoryFunc func(ctx context.Context, db bun.IDB, entries []*leaderboarddb.HandicapHistory) error
	ListHandicapHistoryFunc   func(ctx context.Context, db bun.IDB, playerID uuid.UUID, year int) ([]leaderboarddb.HandicapHistory, error)
	ListAnnualStandingsFunc   func(ctx context.Context, db bun.IDB, year int) ([]leaderboarddb.AnnualStanding, error)
}

func NewFakeSeasonRepo() *FakeSeasonRepo {
	return &FakeSeasonRepo{trace: []string{}}
}

func (f *FakeSeasonRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeSeasonRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeSeasonRepo) GetPlayer(ctx context.Context, db bun.IDB, playerID uuid.UUID) (*leaderboarddb.Player, error) {
	f.record("GetPlayer")
	if f.GetPlayerFunc != nil {
		return f.GetPlayerFunc(ctx, db, playerID)
	}
	return &leaderboarddb.Player{ID: playerID, Name: "Player"}, nil
}

func (f *FakeSeasonRepo) GetSeasonStats(ctx context.Context, db bun.IDB, year int, playerIDs []uuid.UUID) (map[uuid.UUID]*leaderboarddb.SeasonStats, error) {
	f.record("GetSeasonStats")
	if f.GetSeasonStatsFunc != nil {
		return f.GetSeasonStatsFunc(ctx, db, year, playerIDs)
	}
	return map[uuid.UUID]*leaderboarddb.SeasonStats{}, nil
}

func (f *FakeSeasonRepo) CreateSeasonStats(ctx context.Context, db bun.IDB, stats *leaderboarddb.SeasonStats) error {
	f.record("CreateSeasonStats")
	if f.CreateSeasonStatsFunc != nil {
		return f.CreateSeasonStatsFunc(ctx, db, stats)
	}
	return nil
}

func (f *FakeSeasonRepo) ApplySeasonDeltas(ctx context.Context, db bun.IDB, deltas []leaderboarddb.SeasonDelta) error {
	f.record("ApplySeasonDeltas")
	if f.ApplySeasonDeltasFunc != nil {
		return f.ApplySeasonDeltasFunc(ctx, db, deltas)
	}
	return nil
}

func (f *FakeSeasonRepo) InsertHandicapHistory(ctx context.Context, db bun.IDB, entries []*leaderboarddb.HandicapHistory) error {
	f.record("InsertHandicapHistory")
	if f.InsertHandicapHistoryFunc != nil {
		return f.InsertHandicapHistoryFunc(ctx, db, entries)
	}
	return nil
}

func (f *FakeSeasonRepo) ListHandicapHistory(ctx context.Context, db bun.IDB, playerID uuid.UUID, year int) ([]leaderboarddb.HandicapHistory, error) {
	f.record("ListHandicapHistory")
	if f.ListHandicapHistoryFunc != nil {
		return f.ListHandicapHistoryFunc(ctx, db, playerID, year)
	}
	return nil, nil
}

func (f *FakeSeasonRepo) ListAnnualStandings(ctx context.Context, db bun.IDB, year int) ([]leaderboarddb.AnnualStanding, error) {
	f.record("ListAnnualStandings")
	if f.ListAnnualStandingsFunc != nil {
		return f.ListAnnualStandingsFunc(ctx, db, year)
	}
	return nil, nil
}

var _ leaderboarddb.Repository = (*FakeSeasonRepo)(nil)
