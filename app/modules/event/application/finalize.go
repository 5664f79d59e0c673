package eventservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	eventdomain "github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/domain"
	eventdb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/infrastructure/repositories"
	"github.com/Monthly-Cup-Club/cup-scorer/app/shared/observability/attr"
)

// FinalizeEvent ranks the field, awards points, revises podium handicaps and
// marks the event completed, all in one transaction. Only the first call for
// an event succeeds; later calls get ErrAlreadyFinalized.
func (s *EventService) FinalizeEvent(ctx context.Context, eventID uuid.UUID, actor string) (*FinalizeResult, error) {
	return withTelemetry(s, ctx, "FinalizeEvent", eventID.String(), func(ctx context.Context) (*FinalizeResult, error) {
		if eventID == uuid.Nil {
			return nil, fmt.Errorf("%w: event_id is required", ErrInvalidRequest)
		}

		unlock := s.locks.lock(eventID)
		defer unlock()

		result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (*FinalizeResult, error) {
			return s.finalize(ctx, db, eventID, actor)
		})
		if err != nil {
			if errors.Is(err, ErrAlreadyFinalized) {
				s.metrics.RecordFinalizeConflict(ctx)
			}
			return nil, err
		}

		for _, ex := range result.Excluded {
			s.metrics.RecordParticipantExcluded(ctx, ex.Reason)
		}
		s.metrics.RecordEventFinalized(ctx, len(result.Results))

		s.logger.InfoContext(ctx, "Event finalized",
			attr.EventID(eventID.String()),
			attr.Int("ranked", len(result.Results)),
			attr.Int("excluded", len(result.Excluded)),
			attr.String("finalized_by", actor),
			attr.ExtractCorrelationID(ctx),
		)
		return result, nil
	})
}

func (s *EventService) finalize(ctx context.Context, db bun.IDB, eventID uuid.UUID, actor string) (*FinalizeResult, error) {
	if err := s.repo.LockEvent(ctx, db, eventID); err != nil {
		return nil, err
	}

	event, err := s.repo.GetEventForUpdate(ctx, db, eventID)
	if err != nil {
		if errors.Is(err, eventdb.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
		}
		return nil, err
	}
	if event.IsFinalized {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyFinalized, eventID)
	}

	coursePar, err := s.coursePar(ctx, db, event)
	if err != nil {
		return nil, err
	}

	participants, err := s.repo.ListParticipants(ctx, db, eventID)
	if err != nil {
		return nil, err
	}
	if len(participants) == 0 {
		return nil, &DataIntegrityError{EventID: eventID, Reason: "event has no participants"}
	}

	byID := make(map[uuid.UUID]eventdb.Participant, len(participants))
	ids := make([]uuid.UUID, 0, len(participants))
	for _, p := range participants {
		byID[p.PlayerID] = p
		ids = append(ids, p.PlayerID)
	}

	handicaps, err := s.seasons.GetHandicaps(ctx, db, event.Year, ids)
	if err != nil {
		return nil, err
	}

	var (
		rankable []uuid.UUID
		excluded []ExcludedParticipant
	)
	for _, id := range ids {
		if _, ok := handicaps[id]; !ok {
			s.logger.WarnContext(ctx, "Participant has no season stats row; excluded from ranking",
				attr.EventID(eventID.String()),
				attr.PlayerID(id.String()),
				attr.Int("year", event.Year),
				attr.ExtractCorrelationID(ctx),
			)
			excluded = append(excluded, ExcludedParticipant{
				PlayerID:   id,
				PlayerName: byID[id].PlayerName,
				Reason:     ReasonMissingSeasonStats,
			})
			continue
		}
		rankable = append(rankable, id)
	}
	if len(rankable) == 0 {
		return nil, &DataIntegrityError{
			EventID: eventID,
			Reason:  fmt.Sprintf("no participant has a season stats row for %d", event.Year),
		}
	}

	scores, err := s.scores.ListHoleScores(ctx, db, eventID, rankable)
	if err != nil {
		return nil, err
	}

	entrants := make([]eventdomain.Entrant, 0, len(rankable))
	for _, id := range rankable {
		if err := eventdomain.ValidateScores(scores[id]); err != nil {
			return nil, &DataIntegrityError{EventID: eventID, PlayerID: id, Reason: "malformed scores", Err: err}
		}
		entrants = append(entrants, eventdomain.Entrant{
			PlayerID:       id,
			Scores:         scores[id],
			HandicapBefore: handicaps[id],
		})
	}

	tier := eventdomain.Tier(event.EventType)
	if !tier.Valid() {
		s.logger.WarnContext(ctx, "Unknown event type; using regular points table",
			attr.EventID(eventID.String()),
			attr.String("event_type", event.EventType),
		)
	}

	results, err := eventdomain.ComputeResults(tier, coursePar, entrants)
	if err != nil {
		return nil, &DataIntegrityError{EventID: eventID, Reason: "result computation failed", Err: err}
	}

	if err := s.repo.UpsertResults(ctx, db, toResultRows(eventID, results)); err != nil {
		return nil, err
	}
	if err := s.seasons.ApplyResults(ctx, db, event.Year, results); err != nil {
		return nil, err
	}

	var changed []eventdomain.Result
	for _, r := range results {
		if r.HandicapChanged() {
			changed = append(changed, r)
		}
	}
	if err := s.seasons.AppendHandicapHistory(ctx, db, eventID, event.Year, changed, HandicapHistoryReason); err != nil {
		return nil, err
	}

	finalizedAt := s.now().UTC()
	if err := s.repo.MarkFinalized(ctx, db, eventID, finalizedAt, actor); err != nil {
		if errors.Is(err, eventdb.ErrNoRowsAffected) {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyFinalized, eventID)
		}
		return nil, err
	}

	views := make([]ResultView, len(results))
	for i, r := range results {
		p := byID[r.PlayerID]
		views[i] = ResultView{
			PlayerID:        r.PlayerID,
			PlayerName:      p.PlayerName,
			Gender:          p.Gender,
			GrossScore:      r.GrossScore,
			NetScore:        r.NetScore,
			Rank:            r.Rank,
			Points:          r.Points,
			HandicapBefore:  r.HandicapBefore,
			HandicapAfter:   r.HandicapAfter,
			UnderParStrokes: r.UnderParStrokes,
		}
	}

	return &FinalizeResult{
		EventID:     eventID,
		Year:        event.Year,
		EventType:   event.EventType,
		CoursePar:   coursePar,
		FinalizedAt: finalizedAt,
		FinalizedBy: actor,
		Results:     views,
		Excluded:    excluded,
	}, nil
}

func (s *EventService) coursePar(ctx context.Context, db bun.IDB, event *eventdb.Event) (int, error) {
	rows, err := s.repo.ListCourseHoles(ctx, db, event.CourseID)
	if err != nil {
		return 0, err
	}
	holes := make([]eventdomain.CourseHole, len(rows))
	for i, h := range rows {
		holes[i] = eventdomain.CourseHole{HoleNumber: h.HoleNumber, Par: h.Par}
	}
	par, err := eventdomain.CoursePar(holes)
	if err != nil {
		return 0, &DataIntegrityError{
			EventID: event.ID,
			Reason:  fmt.Sprintf("course %s is not resolvable", event.CourseID),
			Err:     err,
		}
	}
	return par, nil
}

func toResultRows(eventID uuid.UUID, results []eventdomain.Result) []eventdb.EventResult {
	rows := make([]eventdb.EventResult, len(results))
	for i, r := range results {
		rows[i] = eventdb.EventResult{
			EventID:         eventID,
			PlayerID:        r.PlayerID,
			GrossScore:      r.GrossScore,
			NetScore:        r.NetScore,
			Rank:            r.Rank,
			Points:          r.Points,
			HandicapBefore:  r.HandicapBefore,
			HandicapAfter:   r.HandicapAfter,
			UnderParStrokes: r.UnderParStrokes,
		}
	}
	return rows
}
