package leaderboarddb

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Player is the roster record. Player administration happens elsewhere; this
// module only reads it for names and registration checks.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	Name      string    `bun:"name,notnull"`
	Gender    string    `bun:"gender"`
	BirthYear *int      `bun:"birth_year"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// SeasonStats is a player's cumulative state for one season year.
type SeasonStats struct {
	bun.BaseModel `bun:"table:player_season_stats,alias:pss"`

	PlayerID           uuid.UUID       `bun:"player_id,pk,type:uuid"`
	Year               int             `bun:"year,pk"`
	InitialHandicap    decimal.Decimal `bun:"initial_handicap,type:numeric,notnull"`
	CurrentHandicap    decimal.Decimal `bun:"current_handicap,type:numeric,notnull"`
	TotalPoints        int             `bun:"total_points,notnull,default:0"`
	ParticipationCount int             `bun:"participation_count,notnull,default:0"`

	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// HandicapHistory is an append-only audit row written when an event changes a handicap.
type HandicapHistory struct {
	bun.BaseModel `bun:"table:handicap_history,alias:hh"`

	ID             int64           `bun:"id,pk,autoincrement"`
	PlayerID       uuid.UUID       `bun:"player_id,type:uuid,notnull"`
	EventID        uuid.UUID       `bun:"event_id,type:uuid,notnull"`
	Year           int             `bun:"year,notnull"`
	HandicapBefore decimal.Decimal `bun:"handicap_before,type:numeric,notnull"`
	HandicapAfter  decimal.Decimal `bun:"handicap_after,type:numeric,notnull"`
	Reason         string          `bun:"adjustment_reason,notnull"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// SeasonDelta is the effect of one finalized event on one player's season row.
type SeasonDelta struct {
	PlayerID      uuid.UUID
	Year          int
	HandicapAfter decimal.Decimal
	Points        int
}

// AnnualStanding is the read model behind the annual ranking.
type AnnualStanding struct {
	PlayerID           uuid.UUID       `bun:"player_id"`
	Name               string          `bun:"name"`
	Gender             string          `bun:"gender"`
	BirthYear          *int            `bun:"birth_year"`
	InitialHandicap    decimal.Decimal `bun:"initial_handicap"`
	CurrentHandicap    decimal.Decimal `bun:"current_handicap"`
	TotalPoints        int             `bun:"total_points"`
	ParticipationCount int             `bun:"participation_count"`
}
