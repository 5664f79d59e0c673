package adapters

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	eventdomain "github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/domain"
	leaderboarddb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/leaderboard/infrastructure/repositories"
)

// SeasonStore applies finalize output to the leaderboard module's season tables.
type SeasonStore struct {
	repo leaderboarddb.Repository
}

func NewSeasonStore(repo leaderboarddb.Repository) *SeasonStore {
	return &SeasonStore{repo: repo}
}

func (a *SeasonStore) GetHandicaps(ctx context.Context, db bun.IDB, year int, playerIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	stats, err := a.repo.GetSeasonStats(ctx, db, year, playerIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]decimal.Decimal, len(stats))
	for id, st := range stats {
		out[id] = st.CurrentHandicap
	}
	return out, nil
}

func (a *SeasonStore) ApplyResults(ctx context.Context, db bun.IDB, year int, results []eventdomain.Result) error {
	deltas := make([]leaderboarddb.SeasonDelta, len(results))
	for i, r := range results {
		deltas[i] = leaderboarddb.SeasonDelta{
			PlayerID:      r.PlayerID,
			Year:          year,
			HandicapAfter: r.HandicapAfter,
			Points:        r.Points,
		}
	}
	return a.repo.ApplySeasonDeltas(ctx, db, deltas)
}

func (a *SeasonStore) AppendHandicapHistory(ctx context.Context, db bun.IDB, eventID uuid.UUID, year int, results []eventdomain.Result, reason string) error {
	entries := make([]*leaderboarddb.HandicapHistory, 0, len(results))
	for _, r := range results {
		entries = append(entries, &leaderboarddb.HandicapHistory{
			PlayerID:       r.PlayerID,
			EventID:        eventID,
			Year:           year,
			HandicapBefore: r.HandicapBefore,
			HandicapAfter:  r.HandicapAfter,
			Reason:         reason,
		})
	}
	return a.repo.InsertHandicapHistory(ctx, db, entries)
}
