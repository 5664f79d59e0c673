package adapters

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	eventdomain "github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/domain"
	scoredb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/score/infrastructure/repositories"
)

// ScoreReader reads hole scores for finalize from the score module's storage.
type ScoreReader struct {
	repo scoredb.Repository
}

func NewScoreReader(repo scoredb.Repository) *ScoreReader {
	return &ScoreReader{repo: repo}
}

func (a *ScoreReader) ListHoleScores(ctx context.Context, db bun.IDB, eventID uuid.UUID, playerIDs []uuid.UUID) (map[uuid.UUID][]eventdomain.HoleScore, error) {
	rows, err := a.repo.ListScoresForPlayers(ctx, db, eventID, playerIDs)
	if err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID][]eventdomain.HoleScore, len(playerIDs))
	for _, r := range rows {
		out[r.PlayerID] = append(out[r.PlayerID], eventdomain.HoleScore{
			HoleNumber: r.HoleNumber,
			Strokes:    r.Strokes,
		})
	}
	return out, nil
}
