package leaderboardservice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AnnualRankingEntry is one row of the season table.
type AnnualRankingEntry struct {
	Rank               int             `json:"rank"`
	PlayerID           uuid.UUID       `json:"player_id"`
	Name               string          `json:"name"`
	Gender             string          `json:"gender,omitempty"`
	BirthYear          *int            `json:"birth_year,omitempty"`
	InitialHandicap    decimal.Decimal `json:"initial_handicap"`
	CurrentHandicap    decimal.Decimal `json:"current_handicap"`
	TotalPoints        int             `json:"total_points"`
	ParticipationCount int             `json:"participation_count"`
}

// SeasonRegistration is the input to RegisterSeason.
type SeasonRegistration struct {
	PlayerID        uuid.UUID
	Year            int
	InitialHandicap decimal.Decimal
}

// SeasonView is a player's season row as returned to callers.
type SeasonView struct {
	PlayerID           uuid.UUID       `json:"player_id"`
	Year               int             `json:"year"`
	InitialHandicap    decimal.Decimal `json:"initial_handicap"`
	CurrentHandicap    decimal.Decimal `json:"current_handicap"`
	TotalPoints        int             `json:"total_points"`
	ParticipationCount int             `json:"participation_count"`
}

// HandicapHistoryView is one handicap change.
type HandicapHistoryView struct {
	EventID        uuid.UUID       `json:"event_id"`
	HandicapBefore decimal.Decimal `json:"handicap_before"`
	HandicapAfter  decimal.Decimal `json:"handicap_after"`
	Reason         string          `json:"reason"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ChartPalette holds the colors used to render charts.
type ChartPalette struct {
	Background  string
	PrimaryLine string
	AccentLine  string
	TextColor   string
}

// DefaultPalette is the club's fairway green on white.
var DefaultPalette = ChartPalette{
	Background:  "#FFFFFF",
	PrimaryLine: "#1B5E20",
	AccentLine:  "#C9A227",
	TextColor:   "#212121",
}
