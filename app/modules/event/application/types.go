package eventservice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Exclusion reasons reported in FinalizeResult.Excluded.
const (
	ReasonMissingSeasonStats = "missing_season_stats"
)

// HandicapHistoryReason tags history rows written by finalize.
const HandicapHistoryReason = "in_season_update"

// ResultView is one participant's result as returned to callers.
type ResultView struct {
	PlayerID        uuid.UUID       `json:"player_id"`
	PlayerName      string          `json:"player_name"`
	Gender          string          `json:"gender,omitempty"`
	GrossScore      int             `json:"gross_score"`
	NetScore        decimal.Decimal `json:"net_score"`
	Rank            int             `json:"rank"`
	Points          int             `json:"points"`
	HandicapBefore  decimal.Decimal `json:"handicap_before"`
	HandicapAfter   decimal.Decimal `json:"handicap_after"`
	UnderParStrokes decimal.Decimal `json:"under_par_strokes"`
}

// ExcludedParticipant is a participant left out of ranking.
type ExcludedParticipant struct {
	PlayerID   uuid.UUID `json:"player_id"`
	PlayerName string    `json:"player_name"`
	Reason     string    `json:"reason"`
}

// FinalizeResult is the outcome of a successful finalize.
type FinalizeResult struct {
	EventID     uuid.UUID             `json:"event_id"`
	Year        int                   `json:"year"`
	EventType   string                `json:"event_type"`
	CoursePar   int                   `json:"course_par"`
	FinalizedAt time.Time             `json:"finalized_at"`
	FinalizedBy string                `json:"finalized_by,omitempty"`
	Results     []ResultView          `json:"results"`
	Excluded    []ExcludedParticipant `json:"excluded,omitempty"`
}

// EventView is an event as listed to callers.
type EventView struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	EventDate         time.Time  `json:"event_date"`
	CourseID          uuid.UUID  `json:"course_id"`
	EventType         string     `json:"event_type"`
	Year              int        `json:"year"`
	Status            string     `json:"status"`
	ScoreEditDeadline *time.Time `json:"score_edit_deadline,omitempty"`
	IsFinalized       bool       `json:"is_finalized"`
	FinalizedAt       *time.Time `json:"finalized_at,omitempty"`
	FinalizedBy       string     `json:"finalized_by,omitempty"`
}

// EventResults is an event with its stored results in rank order.
type EventResults struct {
	Event   EventView    `json:"event"`
	Results []ResultView `json:"results"`
}

// ListEventsRequest filters ListEvents. Nil and empty fields do not filter.
type ListEventsRequest struct {
	Status    string
	Year      *int
	Finalized *bool
}
