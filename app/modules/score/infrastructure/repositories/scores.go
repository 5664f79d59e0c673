package scoredb

import (
	"context"
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

func (r *Impl) UpsertScores(ctx context.Context, db bun.IDB, scores []Score) error {
	if len(scores) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range scores {
		if scores[i].ID == uuid.Nil {
			scores[i].ID = uuid.New()
		}
		scores[i].UpdatedAt = now
		if scores[i].CreatedAt.IsZero() {
			scores[i].CreatedAt = now
		}
	}

	_, err := db.NewInsert().
		Model(&scores).
		On("CONFLICT (event_id, player_id, hole_number) DO UPDATE").
		Set("strokes = EXCLUDED.strokes").
		Set("putts = EXCLUDED.putts").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("scoredb.UpsertScores: %w", err)
	}
	return nil
}

func (r *Impl) ListScores(ctx context.Context, db bun.IDB, eventID uuid.UUID, playerID *uuid.UUID) ([]Score, error) {
	var scores []Score
	q := db.NewSelect().
		Model(&scores).
		Where("s.event_id = ?", eventID)
	if playerID != nil {
		q = q.Where("s.player_id = ?", *playerID)
	}
	if err := q.Order("s.player_id ASC", "s.hole_number ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("scoredb.ListScores: %w", err)
	}
	return scores, nil
}

func (r *Impl) ListScoresForPlayers(ctx context.Context, db bun.IDB, eventID uuid.UUID, playerIDs []uuid.UUID) ([]Score, error) {
	if len(playerIDs) == 0 {
		return nil, nil
	}
	var scores []Score
	err := db.NewSelect().
		Model(&scores).
		Where("s.event_id = ?", eventID).
		Where("s.player_id IN (?)", bun.In(playerIDs)).
		Order("s.player_id ASC", "s.hole_number ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scoredb.ListScoresForPlayers: %w", err)
	}
	return scores, nil
}

func (r *Impl) ListExportRows(ctx context.Context, db bun.IDB, filter ExportFilter) ([]ExportRow, error) {
	var rows []ExportRow
	q := db.NewSelect().
		TableExpr("scores AS s").
		ColumnExpr("s.event_id, e.name AS event_name, e.event_date").
		ColumnExpr("s.player_id, p.name AS player_name").
		ColumnExpr("s.hole_number, s.strokes, s.putts").
		Join("JOIN events AS e ON e.id = s.event_id").
		Join("JOIN players AS p ON p.id = s.player_id")

	if filter.EventID != nil {
		q = q.Where("s.event_id = ?", *filter.EventID)
	} else {
		q = q.Where("e.event_date >= ?", filter.From).
			Where("e.event_date <= ?", filter.To)
	}

	err := q.OrderExpr("e.event_date ASC, e.name ASC, p.name ASC, s.hole_number ASC").Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("scoredb.ListExportRows: %w", err)
	}
	return rows, nil
}
