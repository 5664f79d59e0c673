package eventdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Event statuses. Only the finalize path moves an event to StatusCompleted.
const (
	StatusScheduled  = "scheduled"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

type Event struct {
	bun.BaseModel `bun:"table:events,alias:e"`

	ID                uuid.UUID  `bun:"id,pk,type:uuid"`
	Name              string     `bun:"name,notnull"`
	EventDate         time.Time  `bun:"event_date,type:date,notnull"`
	CourseID          uuid.UUID  `bun:"course_id,type:uuid,notnull"`
	EventType         string     `bun:"event_type,notnull,default:'regular'"`
	Year              int        `bun:"year,notnull"`
	Status            string     `bun:"status,notnull,default:'scheduled'"`
	ScoreEditDeadline *time.Time `bun:"score_edit_deadline"`
	IsFinalized       bool       `bun:"is_finalized,notnull,default:false"`
	FinalizedAt       *time.Time `bun:"finalized_at"`
	FinalizedBy       string     `bun:"finalized_by,nullzero"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type Course struct {
	bun.BaseModel `bun:"table:courses,alias:c"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	Name      string    `bun:"name,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type CourseHole struct {
	bun.BaseModel `bun:"table:course_holes,alias:ch"`

	CourseID   uuid.UUID `bun:"course_id,pk,type:uuid"`
	HoleNumber int       `bun:"hole_number,pk"`
	Par        int       `bun:"par,notnull"`
}

type EventParticipant struct {
	bun.BaseModel `bun:"table:event_participants,alias:ep"`

	EventID   uuid.UUID `bun:"event_id,pk,type:uuid"`
	PlayerID  uuid.UUID `bun:"player_id,pk,type:uuid"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// EventResult is the permanent per-player outcome of a finalized event.
type EventResult struct {
	bun.BaseModel `bun:"table:event_results,alias:er"`

	ID              uuid.UUID       `bun:"id,pk,type:uuid"`
	EventID         uuid.UUID       `bun:"event_id,type:uuid,notnull,unique:event_results_event_player"`
	PlayerID        uuid.UUID       `bun:"player_id,type:uuid,notnull,unique:event_results_event_player"`
	GrossScore      int             `bun:"gross_score,notnull"`
	NetScore        decimal.Decimal `bun:"net_score,type:numeric,notnull"`
	Rank            int             `bun:"rank,notnull"`
	Points          int             `bun:"points,notnull"`
	HandicapBefore  decimal.Decimal `bun:"handicap_before,type:numeric,notnull"`
	HandicapAfter   decimal.Decimal `bun:"handicap_after,type:numeric,notnull"`
	UnderParStrokes decimal.Decimal `bun:"under_par_strokes,type:numeric,notnull"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Participant is a participant row joined with player details.
type Participant struct {
	PlayerID   uuid.UUID `bun:"player_id"`
	PlayerName string    `bun:"player_name"`
	Gender     string    `bun:"gender"`
}

// ResultRow is an EventResult joined with player details, for presentation.
type ResultRow struct {
	PlayerID        uuid.UUID       `bun:"player_id"`
	PlayerName      string          `bun:"player_name"`
	Gender          string          `bun:"gender"`
	GrossScore      int             `bun:"gross_score"`
	NetScore        decimal.Decimal `bun:"net_score"`
	Rank            int             `bun:"rank"`
	Points          int             `bun:"points"`
	HandicapBefore  decimal.Decimal `bun:"handicap_before"`
	HandicapAfter   decimal.Decimal `bun:"handicap_after"`
	UnderParStrokes decimal.Decimal `bun:"under_par_strokes"`
}

// ListFilter narrows ListEvents. Zero values do not filter.
type ListFilter struct {
	Status    string
	Year      *int
	Finalized *bool
}
