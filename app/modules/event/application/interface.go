package eventservice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	eventdomain "github.com/Monthly-Cup-Club/cup-scorer/app/modules/event/domain"
)

// Service defines the event finalization and query operations.
type Service interface {
	// FinalizeEvent computes and persists an event's permanent results.
	// actor is recorded as finalized_by and may be empty.
	FinalizeEvent(ctx context.Context, eventID uuid.UUID, actor string) (*FinalizeResult, error)
	GetEventResults(ctx context.Context, eventID uuid.UUID) (*EventResults, error)
	ListEvents(ctx context.Context, req ListEventsRequest) ([]EventView, error)
	// ListDueEvents returns open events whose score edit deadline is at or before cutoff.
	ListDueEvents(ctx context.Context, cutoff time.Time, limit int) ([]EventView, error)
}

// ScoreReader loads stored hole scores for finalize.
type ScoreReader interface {
	ListHoleScores(ctx context.Context, db bun.IDB, eventID uuid.UUID, playerIDs []uuid.UUID) (map[uuid.UUID][]eventdomain.HoleScore, error)
}

// SeasonStore reads and updates per-season player state.
type SeasonStore interface {
	// GetHandicaps returns current handicaps keyed by player. Players without
	// a season row are absent from the map.
	GetHandicaps(ctx context.Context, db bun.IDB, year int, playerIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
	// ApplyResults sets each player's handicap and atomically adds the points
	// and one participation.
	ApplyResults(ctx context.Context, db bun.IDB, year int, results []eventdomain.Result) error
	AppendHandicapHistory(ctx context.Context, db bun.IDB, eventID uuid.UUID, year int, results []eventdomain.Result, reason string) error
}
