package eventservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	eventdb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/infrastructure/repositories"
)

const defaultDueLimit = 50

var validStatuses = map[string]struct{}{
	eventdb.StatusScheduled:  {},
	eventdb.StatusInProgress: {},
	eventdb.StatusCompleted:  {},
}

// GetEventResults returns the stored results of an event in rank order.
// An event that is not finalized yet has no results.
func (s *EventService) GetEventResults(ctx context.Context, eventID uuid.UUID) (*EventResults, error) {
	return withTelemetry(s, ctx, "GetEventResults", eventID.String(), func(ctx context.Context) (*EventResults, error) {
		event, err := s.repo.GetEvent(ctx, s.idb(), eventID)
		if err != nil {
			if errors.Is(err, eventdb.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
			}
			return nil, err
		}

		rows, err := s.repo.ListResults(ctx, s.idb(), eventID)
		if err != nil {
			return nil, err
		}

		results := make([]ResultView, len(rows))
		for i, r := range rows {
			results[i] = ResultView{
				PlayerID:        r.PlayerID,
				PlayerName:      r.PlayerName,
				Gender:          r.Gender,
				GrossScore:      r.GrossScore,
				NetScore:        r.NetScore,
				Rank:            r.Rank,
				Points:          r.Points,
				HandicapBefore:  r.HandicapBefore,
				HandicapAfter:   r.HandicapAfter,
				UnderParStrokes: r.UnderParStrokes,
			}
		}
		return &EventResults{Event: toEventView(*event), Results: results}, nil
	})
}

// ListEvents returns events newest first.
func (s *EventService) ListEvents(ctx context.Context, req ListEventsRequest) ([]EventView, error) {
	return withTelemetry(s, ctx, "ListEvents", "", func(ctx context.Context) ([]EventView, error) {
		if req.Status != "" {
			if _, ok := validStatuses[req.Status]; !ok {
				return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidRequest, req.Status)
			}
		}

		rows, err := s.repo.ListEvents(ctx, s.idb(), eventdb.ListFilter{
			Status:    req.Status,
			Year:      req.Year,
			Finalized: req.Finalized,
		})
		if err != nil {
			return nil, err
		}
		return toEventViews(rows), nil
	})
}

func (s *EventService) ListDueEvents(ctx context.Context, cutoff time.Time, limit int) ([]EventView, error) {
	return withTelemetry(s, ctx, "ListDueEvents", "", func(ctx context.Context) ([]EventView, error) {
		if limit <= 0 {
			limit = defaultDueLimit
		}
		rows, err := s.repo.ListDueEvents(ctx, s.idb(), cutoff, limit)
		if err != nil {
			return nil, err
		}
		return toEventViews(rows), nil
	})
}

func toEventViews(rows []eventdb.Event) []EventView {
	views := make([]EventView, len(rows))
	for i, e := range rows {
		views[i] = toEventView(e)
	}
	return views
}
