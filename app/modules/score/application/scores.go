package scoreservice

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/Monthly-Cup-Club/cup-scorer/app/modules/score/application/scorecard"
	scoredb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/score/infrastructure/repositories"
	"github.com/Monthly-Cup-Club/cup-scorer/app/shared/observability/attr"
)

// GetScores returns an event's hole scores, optionally for one player.
func (s *ScoreService) GetScores(ctx context.Context, eventID uuid.UUID, playerID *uuid.UUID) ([]ScoreView, error) {
	rows, err := s.repo.ListScores(ctx, s.idb(), eventID, playerID)
	if err != nil {
		return nil, err
	}
	views := make([]ScoreView, len(rows))
	for i, r := range rows {
		views[i] = toView(r)
	}
	return views, nil
}

// SaveScore upserts a single hole score.
func (s *ScoreService) SaveScore(ctx context.Context, in ScoreInput) (*ScoreView, error) {
	return withTelemetry(s, ctx, "SaveScore", in.EventID.String(), func(ctx context.Context) (*ScoreView, error) {
		if err := validateInput(in); err != nil {
			return nil, err
		}

		rows, err := s.write(ctx, []ScoreInput{in})
		if err != nil {
			return nil, err
		}
		view := toView(rows[0])
		return &view, nil
	})
}

// SaveScores upserts a batch of hole scores that may span events.
// The batch is all-or-nothing.
func (s *ScoreService) SaveScores(ctx context.Context, in []ScoreInput) (int, error) {
	subject := "batch"
	if len(in) > 0 {
		subject = in[0].EventID.String()
	}
	return withTelemetry(s, ctx, "SaveScores", subject, func(ctx context.Context) (int, error) {
		if len(in) == 0 {
			return 0, fmt.Errorf("%w: scores array is required", ErrInvalidScore)
		}
		for i, sc := range in {
			if err := validateInput(sc); err != nil {
				return 0, fmt.Errorf("entry %d: %w", i, err)
			}
		}

		rows, err := s.write(ctx, in)
		if err != nil {
			return 0, err
		}
		return len(rows), nil
	})
}

// write checks every referenced event under a share lock and upserts the
// deduplicated entries in one transaction.
func (s *ScoreService) write(ctx context.Context, in []ScoreInput) ([]scoredb.Score, error) {
	rows := dedupe(in)

	return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) ([]scoredb.Score, error) {
		for _, eventID := range eventIDs(rows) {
			state, err := s.events.GetEventForScoreWrite(ctx, db, eventID)
			if err != nil {
				return nil, err
			}
			if state.IsFinalized {
				return nil, fmt.Errorf("%w: %s", ErrEventFinalized, eventID)
			}
			for _, r := range rows {
				if r.EventID != eventID {
					continue
				}
				if _, ok := state.Participants[r.PlayerID]; !ok {
					return nil, fmt.Errorf("%w: player %s event %s", ErrNotParticipant, r.PlayerID, eventID)
				}
			}
		}

		if err := s.repo.UpsertScores(ctx, db, rows); err != nil {
			return nil, err
		}

		s.logger.InfoContext(ctx, "Scores saved",
			attr.Int("count", len(rows)),
			attr.ExtractCorrelationID(ctx),
		)
		return rows, nil
	})
}

func validateInput(in ScoreInput) error {
	switch {
	case in.EventID == uuid.Nil:
		return fmt.Errorf("%w: event_id is required", ErrInvalidScore)
	case in.PlayerID == uuid.Nil:
		return fmt.Errorf("%w: player_id is required", ErrInvalidScore)
	case in.HoleNumber < 1 || in.HoleNumber > scorecard.MaxHoles:
		return fmt.Errorf("%w: hole_number %d out of range", ErrInvalidScore, in.HoleNumber)
	case in.Strokes < 0:
		return fmt.Errorf("%w: strokes must not be negative", ErrInvalidScore)
	case in.Putts < 0:
		return fmt.Errorf("%w: putts must not be negative", ErrInvalidScore)
	}
	return nil
}

type scoreKey struct {
	event, player uuid.UUID
	hole          int
}

// dedupe keeps the last entry per (event, player, hole); a single upsert
// statement cannot touch the same row twice.
func dedupe(in []ScoreInput) []scoredb.Score {
	index := make(map[scoreKey]int, len(in))
	out := make([]scoredb.Score, 0, len(in))
	for _, sc := range in {
		k := scoreKey{sc.EventID, sc.PlayerID, sc.HoleNumber}
		row := scoredb.Score{
			EventID:    sc.EventID,
			PlayerID:   sc.PlayerID,
			HoleNumber: sc.HoleNumber,
			Strokes:    sc.Strokes,
			Putts:      sc.Putts,
		}
		if i, ok := index[k]; ok {
			out[i] = row
			continue
		}
		index[k] = len(out)
		out = append(out, row)
	}
	return out
}

// eventIDs returns the distinct event ids in a stable order so concurrent
// batches lock events in the same sequence.
func eventIDs(rows []scoredb.Score) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, r := range rows {
		if _, ok := seen[r.EventID]; ok {
			continue
		}
		seen[r.EventID] = struct{}{}
		ids = append(ids, r.EventID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}
