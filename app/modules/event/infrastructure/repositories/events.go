package eventdb

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

func (r *Impl) LockEvent(ctx context.Context, db bun.IDB, eventID uuid.UUID) error {
	if _, err := db.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", eventID.String()).Exec(ctx); err != nil {
		return fmt.Errorf("eventdb.LockEvent: %w", err)
	}
	return nil
}

func (r *Impl) GetEvent(ctx context.Context, db bun.IDB, eventID uuid.UUID) (*Event, error) {
	return r.getEvent(ctx, db, eventID, "", "eventdb.GetEvent")
}

func (r *Impl) GetEventForUpdate(ctx context.Context, db bun.IDB, eventID uuid.UUID) (*Event, error) {
	return r.getEvent(ctx, db, eventID, "UPDATE", "eventdb.GetEventForUpdate")
}

// GetEventForShare blocks while a finalize holds the row and keeps the
// event from being finalized until the caller's transaction ends.
func (r *Impl) GetEventForShare(ctx context.Context, db bun.IDB, eventID uuid.UUID) (*Event, error) {
	return r.getEvent(ctx, db, eventID, "SHARE", "eventdb.GetEventForShare")
}

func (r *Impl) getEvent(ctx context.Context, db bun.IDB, eventID uuid.UUID, lock, op string) (*Event, error) {
	event := new(Event)
	q := db.NewSelect().
		Model(event).
		Where("e.id = ?", eventID)
	if lock != "" {
		q = q.For(lock)
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return event, nil
}

func (r *Impl) ListCourseHoles(ctx context.Context, db bun.IDB, courseID uuid.UUID) ([]CourseHole, error) {
	var holes []CourseHole
	err := db.NewSelect().
		Model(&holes).
		Where("ch.course_id = ?", courseID).
		Order("ch.hole_number ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("eventdb.ListCourseHoles: %w", err)
	}
	return holes, nil
}

func (r *Impl) ListParticipants(ctx context.Context, db bun.IDB, eventID uuid.UUID) ([]Participant, error) {
	var rows []Participant
	err := db.NewSelect().
		TableExpr("event_participants AS ep").
		ColumnExpr("ep.player_id, p.name AS player_name, p.gender").
		Join("JOIN players AS p ON p.id = ep.player_id").
		Where("ep.event_id = ?", eventID).
		OrderExpr("ep.player_id ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("eventdb.ListParticipants: %w", err)
	}
	return rows, nil
}

// UpsertResults keys on (event_id, player_id) so a retried finalize rewrites
// rather than duplicates.
func (r *Impl) UpsertResults(ctx context.Context, db bun.IDB, results []EventResult) error {
	if len(results) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range results {
		if results[i].ID == uuid.Nil {
			results[i].ID = uuid.New()
		}
		results[i].CreatedAt = now
	}

	_, err := db.NewInsert().
		Model(&results).
		On("CONFLICT (event_id, player_id) DO UPDATE").
		Set("gross_score = EXCLUDED.gross_score").
		Set("net_score = EXCLUDED.net_score").
		Set("rank = EXCLUDED.rank").
		Set("points = EXCLUDED.points").
		Set("handicap_before = EXCLUDED.handicap_before").
		Set("handicap_after = EXCLUDED.handicap_after").
		Set("under_par_strokes = EXCLUDED.under_par_strokes").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("eventdb.UpsertResults: %w", err)
	}
	return nil
}

// MarkFinalized is the commit point of a finalize. It only matches an open
// event, so at most one caller can ever see it succeed.
func (r *Impl) MarkFinalized(ctx context.Context, db bun.IDB, eventID uuid.UUID, at time.Time, by string) error {
	var finalizedBy any
	if by != "" {
		finalizedBy = by
	}

	res, err := db.NewUpdate().
		Model((*Event)(nil)).
		Set("is_finalized = TRUE").
		Set("finalized_at = ?", at).
		Set("finalized_by = ?", finalizedBy).
		Set("status = ?", StatusCompleted).
		Where("id = ?", eventID).
		Where("is_finalized = FALSE").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("eventdb.MarkFinalized: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("eventdb.MarkFinalized: %w", err)
	}
	if n != 1 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *Impl) ListResults(ctx context.Context, db bun.IDB, eventID uuid.UUID) ([]ResultRow, error) {
	var rows []ResultRow
	err := db.NewSelect().
		TableExpr("event_results AS er").
		ColumnExpr("er.player_id, p.name AS player_name, p.gender").
		ColumnExpr("er.gross_score, er.net_score, er.rank, er.points").
		ColumnExpr("er.handicap_before, er.handicap_after, er.under_par_strokes").
		Join("JOIN players AS p ON p.id = er.player_id").
		Where("er.event_id = ?", eventID).
		OrderExpr("er.rank ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("eventdb.ListResults: %w", err)
	}
	return rows, nil
}

func (r *Impl) ListEvents(ctx context.Context, db bun.IDB, filter ListFilter) ([]Event, error) {
	var events []Event
	q := db.NewSelect().Model(&events)
	if filter.Status != "" {
		q = q.Where("e.status = ?", filter.Status)
	}
	if filter.Year != nil {
		q = q.Where("e.year = ?", *filter.Year)
	}
	if filter.Finalized != nil {
		q = q.Where("e.is_finalized = ?", *filter.Finalized)
	}
	if err := q.Order("e.event_date DESC", "e.created_at DESC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("eventdb.ListEvents: %w", err)
	}
	return events, nil
}

func (r *Impl) ListDueEvents(ctx context.Context, db bun.IDB, cutoff time.Time, limit int) ([]Event, error) {
	var events []Event
	err := db.NewSelect().
		Model(&events).
		Where("e.is_finalized = FALSE").
		Where("e.score_edit_deadline IS NOT NULL").
		Where("e.score_edit_deadline <= ?", cutoff).
		Order("e.score_edit_deadline ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("eventdb.ListDueEvents: %w", err)
	}
	return events, nil
}
