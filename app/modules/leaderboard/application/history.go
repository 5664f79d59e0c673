package leaderboardservice

import (
	"context"
	"errors"

	"github.com/google/uuid"

	leaderboarddb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/leaderboard/infrastructure/repositories"
)

// GetHandicapHistory returns a player's handicap changes for the year, oldest first.
func (s *LeaderboardService) GetHandicapHistory(ctx context.Context, playerID uuid.UUID, year int) ([]HandicapHistoryView, error) {
	return withTelemetry(s, ctx, "GetHandicapHistory", playerID.String(), func(ctx context.Context) ([]HandicapHistoryView, error) {
		return s.handicapHistory(ctx, playerID, year)
	})
}

// GetHandicapChart renders the player's handicap history as a PNG.
func (s *LeaderboardService) GetHandicapChart(ctx context.Context, playerID uuid.UUID, year int) ([]byte, error) {
	return withTelemetry(s, ctx, "GetHandicapChart", playerID.String(), func(ctx context.Context) ([]byte, error) {
		history, err := s.handicapHistory(ctx, playerID, year)
		if err != nil {
			return nil, err
		}
		return GenerateHandicapChart(history, s.palette)
	})
}

func (s *LeaderboardService) handicapHistory(ctx context.Context, playerID uuid.UUID, year int) ([]HandicapHistoryView, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetPlayer(ctx, s.idb(), playerID); err != nil {
		if errors.Is(err, leaderboarddb.ErrNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	rows, err := s.repo.ListHandicapHistory(ctx, s.idb(), playerID, year)
	if err != nil {
		return nil, err
	}

	views := make([]HandicapHistoryView, len(rows))
	for i, r := range rows {
		views[i] = HandicapHistoryView{
			EventID:        r.EventID,
			HandicapBefore: r.HandicapBefore,
			HandicapAfter:  r.HandicapAfter,
			Reason:         r.Reason,
			CreatedAt:      r.CreatedAt,
		}
	}
	return views, nil
}
