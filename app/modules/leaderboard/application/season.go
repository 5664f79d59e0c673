package leaderboardservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	leaderboarddb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Monthly-Cup-Club/cup-scorer/app/shared/observability/attr"
)

// RegisterSeason opens a season row for a player with its initial handicap.
// Finalization only ranks players that have one.
func (s *LeaderboardService) RegisterSeason(ctx context.Context, reg SeasonRegistration) (*SeasonView, error) {
	return withTelemetry(s, ctx, "RegisterSeason", reg.PlayerID.String(), func(ctx context.Context) (*SeasonView, error) {
		if err := validateYear(reg.Year); err != nil {
			return nil, err
		}
		if reg.PlayerID == uuid.Nil {
			return nil, ErrPlayerNotFound
		}
		if reg.InitialHandicap.IsNegative() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidHandicap, reg.InitialHandicap)
		}

		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (*SeasonView, error) {
			if _, err := s.repo.GetPlayer(ctx, db, reg.PlayerID); err != nil {
				if errors.Is(err, leaderboarddb.ErrNotFound) {
					return nil, ErrPlayerNotFound
				}
				return nil, err
			}

			row := &leaderboarddb.SeasonStats{
				PlayerID:        reg.PlayerID,
				Year:            reg.Year,
				InitialHandicap: reg.InitialHandicap,
				CurrentHandicap: reg.InitialHandicap,
			}
			if err := s.repo.CreateSeasonStats(ctx, db, row); err != nil {
				if errors.Is(err, leaderboarddb.ErrAlreadyExists) {
					return nil, ErrSeasonAlreadyRegistered
				}
				return nil, err
			}

			s.logger.InfoContext(ctx, "Season registered",
				attr.PlayerID(reg.PlayerID.String()),
				attr.Int("year", reg.Year),
				attr.String("initial_handicap", reg.InitialHandicap.String()),
			)
			return toSeasonView(row), nil
		})
	})
}

func toSeasonView(row *leaderboarddb.SeasonStats) *SeasonView {
	return &SeasonView{
		PlayerID:           row.PlayerID,
		Year:               row.Year,
		InitialHandicap:    row.InitialHandicap,
		CurrentHandicap:    row.CurrentHandicap,
		TotalPoints:        row.TotalPoints,
		ParticipationCount: row.ParticipationCount,
	}
}
