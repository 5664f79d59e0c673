package leaderboarddb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for season persistence.
// Every method takes a bun.IDB so callers can run it inside their own
// transaction; a nil db falls back to the repository's connection.
//
// Error semantics:
//   - ErrNotFound: Record does not exist
//   - ErrAlreadyExists: Insert hit an existing key
//   - Other errors: Infrastructure failures (DB connection, query errors)
type Repository interface {
	// GetPlayer retrieves a player by ID. Returns ErrNotFound if absent.
	GetPlayer(ctx context.Context, db bun.IDB, playerID uuid.UUID) (*Player, error)

	// GetSeasonStats retrieves the season rows for the given players in a year.
	// Players without a row are simply absent from the returned map.
	GetSeasonStats(ctx context.Context, db bun.IDB, year int, playerIDs []uuid.UUID) (map[uuid.UUID]*SeasonStats, error)

	// CreateSeasonStats inserts a new season row. Returns ErrAlreadyExists on a duplicate.
	CreateSeasonStats(ctx context.Context, db bun.IDB, stats *SeasonStats) error

	// ApplySeasonDeltas applies finalized-event effects with atomic increments.
	// Returns ErrNotFound if any targeted row is missing.
	ApplySeasonDeltas(ctx context.Context, db bun.IDB, deltas []SeasonDelta) error

	// InsertHandicapHistory appends handicap change rows.
	InsertHandicapHistory(ctx context.Context, db bun.IDB, entries []*HandicapHistory) error

	// ListHandicapHistory returns a player's handicap changes for a year, oldest first.
	ListHandicapHistory(ctx context.Context, db bun.IDB, playerID uuid.UUID, year int) ([]HandicapHistory, error)

	// ListAnnualStandings returns every season row for a year joined with the player.
	ListAnnualStandings(ctx context.Context, db bun.IDB, year int) ([]AnnualStanding, error)
}
