package scoreservice

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Service defines the score entry and export operations.
type Service interface {
	GetScores(ctx context.Context, eventID uuid.UUID, playerID *uuid.UUID) ([]ScoreView, error)
	SaveScore(ctx context.Context, in ScoreInput) (*ScoreView, error)
	SaveScores(ctx context.Context, in []ScoreInput) (int, error)
	ImportScorecard(ctx context.Context, eventID uuid.UUID, filename string, data []byte) (*ImportResult, error)
	ExportScores(ctx context.Context, req ExportRequest) (*ExportFile, error)
}

// EventLookup reads event state for score writes. Inside a transaction the
// implementation holds a share lock on the event row so a concurrent
// finalization either sees these writes or they see it.
type EventLookup interface {
	GetEventForScoreWrite(ctx context.Context, db bun.IDB, eventID uuid.UUID) (*EventState, error)
}
