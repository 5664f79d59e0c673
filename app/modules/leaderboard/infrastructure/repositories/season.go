package leaderboarddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Impl implements Repository.
type Impl struct{}

func NewRepository() Repository {
	return &Impl{}
}

func (r *Impl) GetPlayer(ctx context.Context, db bun.IDB, playerID uuid.UUID) (*Player, error) {
	player := new(Player)
	err := db.NewSelect().
		Model(player).
		Where("p.id = ?", playerID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("leaderboarddb.GetPlayer: %w", err)
	}
	return player, nil
}

func (r *Impl) GetSeasonStats(ctx context.Context, db bun.IDB, year int, playerIDs []uuid.UUID) (map[uuid.UUID]*SeasonStats, error) {
	out := make(map[uuid.UUID]*SeasonStats, len(playerIDs))
	if len(playerIDs) == 0 {
		return out, nil
	}

	var rows []SeasonStats
	err := db.NewSelect().
		Model(&rows).
		Where("pss.year = ?", year).
		Where("pss.player_id IN (?)", bun.In(playerIDs)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaderboarddb.GetSeasonStats: %w", err)
	}

	for i := range rows {
		out[rows[i].PlayerID] = &rows[i]
	}
	return out, nil
}

func (r *Impl) CreateSeasonStats(ctx context.Context, db bun.IDB, stats *SeasonStats) error {
	stats.UpdatedAt = time.Now().UTC()

	res, err := db.NewInsert().
		Model(stats).
		On("CONFLICT (player_id, year) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("leaderboarddb.CreateSeasonStats: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAlreadyExists
	}
	return nil
}

// ApplySeasonDeltas never reads-then-writes: points and participation are
// incremented in SQL so concurrent events touching the same player compose.
func (r *Impl) ApplySeasonDeltas(ctx context.Context, db bun.IDB, deltas []SeasonDelta) error {
	now := time.Now().UTC()
	for _, d := range deltas {
		res, err := db.NewUpdate().
			Model((*SeasonStats)(nil)).
			Set("current_handicap = ?", d.HandicapAfter).
			Set("total_points = total_points + ?", d.Points).
			Set("participation_count = participation_count + 1").
			Set("updated_at = ?", now).
			Where("player_id = ?", d.PlayerID).
			Where("year = ?", d.Year).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("leaderboarddb.ApplySeasonDeltas: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("leaderboarddb.ApplySeasonDeltas: player %s year %d: %w", d.PlayerID, d.Year, ErrNotFound)
		}
	}
	return nil
}

func (r *Impl) InsertHandicapHistory(ctx context.Context, db bun.IDB, entries []*HandicapHistory) error {
	if len(entries) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for _, e := range entries {
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
	}

	if _, err := db.NewInsert().Model(&entries).Exec(ctx); err != nil {
		return fmt.Errorf("leaderboarddb.InsertHandicapHistory: %w", err)
	}
	return nil
}

func (r *Impl) ListHandicapHistory(ctx context.Context, db bun.IDB, playerID uuid.UUID, year int) ([]HandicapHistory, error) {
	var rows []HandicapHistory
	err := db.NewSelect().
		Model(&rows).
		Where("hh.player_id = ?", playerID).
		Where("hh.year = ?", year).
		Order("hh.created_at ASC", "hh.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaderboarddb.ListHandicapHistory: %w", err)
	}
	return rows, nil
}

func (r *Impl) ListAnnualStandings(ctx context.Context, db bun.IDB, year int) ([]AnnualStanding, error) {
	var rows []AnnualStanding
	err := db.NewSelect().
		TableExpr("player_season_stats AS pss").
		ColumnExpr("pss.player_id, p.name, p.gender, p.birth_year").
		ColumnExpr("pss.initial_handicap, pss.current_handicap, pss.total_points, pss.participation_count").
		Join("JOIN players AS p ON p.id = pss.player_id").
		Where("pss.year = ?", year).
		OrderExpr("pss.total_points DESC, pss.current_handicap ASC, p.name ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("leaderboarddb.ListAnnualStandings: %w", err)
	}
	return rows, nil
}
