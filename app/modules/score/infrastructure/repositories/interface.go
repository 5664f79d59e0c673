package scoredb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for hole score persistence.
type Repository interface {
	// UpsertScores writes scores keyed by (event, player, hole). Later writes replace strokes and putts.
	UpsertScores(ctx context.Context, db bun.IDB, scores []Score) error

	// ListScores returns an event's scores ordered by player then hole.
	// A non-nil playerID narrows the result to one player.
	ListScores(ctx context.Context, db bun.IDB, eventID uuid.UUID, playerID *uuid.UUID) ([]Score, error)

	// ListScoresForPlayers returns an event's scores restricted to the given players.
	ListScoresForPlayers(ctx context.Context, db bun.IDB, eventID uuid.UUID, playerIDs []uuid.UUID) ([]Score, error)

	// ListExportRows returns scores joined with event and player names.
	ListExportRows(ctx context.Context, db bun.IDB, filter ExportFilter) ([]ExportRow, error)
}
