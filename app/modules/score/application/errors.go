package scoreservice

import "errors"

var (
	// ErrEventNotFound is returned when scores reference an unknown event.
	ErrEventNotFound = errors.New("event not found")

	// ErrEventFinalized is returned when writing scores to a finalized event.
	ErrEventFinalized = errors.New("event is finalized; scores are locked")

	// ErrNotParticipant is returned when a score targets a player outside the event.
	ErrNotParticipant = errors.New("player is not a participant of the event")

	// ErrInvalidScore is returned for out-of-range hole numbers or negative counts.
	ErrInvalidScore = errors.New("invalid score")

	// ErrInvalidScorecard is returned when an uploaded scorecard cannot be parsed.
	ErrInvalidScorecard = errors.New("invalid scorecard")

	// ErrNoScores is returned when an export selection matches nothing.
	ErrNoScores = errors.New("no scores for selection")

	// ErrInvalidExport is returned for an export request without a usable selection.
	ErrInvalidExport = errors.New("invalid export request")
)
