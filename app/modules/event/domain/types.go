package eventdomain

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HolesPerRound is the number of holes on every course.
const HolesPerRound = 18

var (
	// ErrInvalidCourse indicates course holes that cannot produce a course par.
	ErrInvalidCourse = errors.New("invalid course layout")

	// ErrInvalidScore indicates a stored hole score outside the valid domain.
	ErrInvalidScore = errors.New("invalid hole score")
)

// HoleScore is one stored stroke count. Strokes of 0 means the hole was not played.
type HoleScore struct {
	HoleNumber int
	Strokes    int
}

// CourseHole is one hole of a course layout.
type CourseHole struct {
	HoleNumber int
	Par        int
}

// Entrant is a rankable participant: their scores and handicap going in.
type Entrant struct {
	PlayerID       uuid.UUID
	Scores         []HoleScore
	HandicapBefore decimal.Decimal
}

// Result is the computed outcome for one participant.
type Result struct {
	PlayerID        uuid.UUID
	GrossScore      int
	NetScore        decimal.Decimal
	Rank            int
	Points          int
	HandicapBefore  decimal.Decimal
	HandicapAfter   decimal.Decimal
	UnderParStrokes decimal.Decimal
}

// HandicapChanged reports whether the result revises the handicap.
func (r Result) HandicapChanged() bool {
	return !r.HandicapBefore.Equal(r.HandicapAfter)
}
