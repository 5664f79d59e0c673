package leaderboardservice

import (
	"context"

	"github.com/google/uuid"
)

// Service is the read and registration surface of the season standings.
type Service interface {
	GetAnnualRanking(ctx context.Context, year int) ([]AnnualRankingEntry, error)
	RegisterSeason(ctx context.Context, reg SeasonRegistration) (*SeasonView, error)
	GetHandicapHistory(ctx context.Context, playerID uuid.UUID, year int) ([]HandicapHistoryView, error)
	GetHandicapChart(ctx context.Context, playerID uuid.UUID, year int) ([]byte, error)
}
