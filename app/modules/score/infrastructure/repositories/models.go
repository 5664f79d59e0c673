package scoredb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Score is one player's result on one hole of one event.
type Score struct {
	bun.BaseModel `bun:"table:scores,alias:s"`

	ID         uuid.UUID `bun:"id,pk,type:uuid"`
	EventID    uuid.UUID `bun:"event_id,type:uuid,notnull,unique:scores_event_player_hole"`
	PlayerID   uuid.UUID `bun:"player_id,type:uuid,notnull,unique:scores_event_player_hole"`
	HoleNumber int       `bun:"hole_number,notnull,unique:scores_event_player_hole"`
	Strokes    int       `bun:"strokes,notnull,default:0"`
	Putts      int       `bun:"putts,notnull,default:0"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// ExportFilter selects scores for export. Either EventID or the date range is set.
type ExportFilter struct {
	EventID *uuid.UUID
	From    time.Time
	To      time.Time
}

// ExportRow is a score joined with its event and player.
type ExportRow struct {
	EventID    uuid.UUID `bun:"event_id"`
	EventName  string    `bun:"event_name"`
	EventDate  time.Time `bun:"event_date"`
	PlayerID   uuid.UUID `bun:"player_id"`
	PlayerName string    `bun:"player_name"`
	HoleNumber int       `bun:"hole_number"`
	Strokes    int       `bun:"strokes"`
	Putts      int       `bun:"putts"`
}
