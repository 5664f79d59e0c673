package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	eventdb "github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/infrastructure/repositories"
	scoreservice "github.com/Monthly-Cup-Club/cup-scorer/app/modules/score/application"
)

// ScoreEventLookup gives the score module read access to event state.
// The event row is share-locked, so a score write and a finalize of the same
// event never interleave.
type ScoreEventLookup struct {
	repo eventdb.Repository
}

func NewScoreEventLookup(repo eventdb.Repository) *ScoreEventLookup {
	return &ScoreEventLookup{repo: repo}
}

func (a *ScoreEventLookup) GetEventForScoreWrite(ctx context.Context, db bun.IDB, eventID uuid.UUID) (*scoreservice.EventState, error) {
	event, err := a.repo.GetEventForShare(ctx, db, eventID)
	if err != nil {
		if errors.Is(err, eventdb.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", scoreservice.ErrEventNotFound, eventID)
		}
		return nil, err
	}

	participants, err := a.repo.ListParticipants(ctx, db, eventID)
	if err != nil {
		return nil, err
	}

	state := &scoreservice.EventState{
		EventID:      event.ID,
		Name:         event.Name,
		IsFinalized:  event.IsFinalized,
		Participants: make(map[uuid.UUID]string, len(participants)),
	}
	for _, p := range participants {
		state.Participants[p.PlayerID] = p.PlayerName
	}
	return state, nil
}
