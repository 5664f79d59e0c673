package scoreservice

import (
	"time"

	"github.com/google/uuid"
)

// ScoreInput is one hole entry from a client.
type ScoreInput struct {
	EventID    uuid.UUID `json:"event_id"`
	PlayerID   uuid.UUID `json:"player_id"`
	HoleNumber int       `json:"hole_number"`
	Strokes    int       `json:"strokes"`
	Putts      int       `json:"putts"`
}

// ScoreView is a stored hole score.
type ScoreView struct {
	ID         uuid.UUID `json:"id"`
	EventID    uuid.UUID `json:"event_id"`
	PlayerID   uuid.UUID `json:"player_id"`
	HoleNumber int       `json:"hole_number"`
	Strokes    int       `json:"strokes"`
	Putts      int       `json:"putts"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// EventState is what score writes need to know about an event.
type EventState struct {
	EventID     uuid.UUID
	Name        string
	IsFinalized bool
	// Participants maps player id to display name.
	Participants map[uuid.UUID]string
}

// ImportResult summarises a scorecard upload.
type ImportResult struct {
	EventID        uuid.UUID `json:"event_id"`
	HolesWritten   int       `json:"holes_written"`
	MatchedPlayers []string  `json:"matched_players"`
	UnmatchedNames []string  `json:"unmatched_names"`
}

// ExportFormat selects the export encoding.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

// ExportRequest selects scores by event or by an inclusive date range.
type ExportRequest struct {
	EventID *uuid.UUID
	From    time.Time
	To      time.Time
	Format  ExportFormat
}

// ExportFile is a rendered export.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
