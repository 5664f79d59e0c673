package eventservice

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrEventNotFound is returned when the event does not exist.
	ErrEventNotFound = errors.New("event not found")

	// ErrAlreadyFinalized is returned for every finalize after the first.
	ErrAlreadyFinalized = errors.New("event already finalized")

	// ErrDataIntegrity is matched by every *DataIntegrityError.
	ErrDataIntegrity = errors.New("data integrity error")

	// ErrInvalidRequest is returned for malformed input.
	ErrInvalidRequest = errors.New("invalid request")
)

// DataIntegrityError reports stored data that makes a finalize impossible.
// PlayerID is uuid.Nil when the problem is not tied to one participant.
type DataIntegrityError struct {
	EventID  uuid.UUID
	PlayerID uuid.UUID
	Reason   string
	Err      error
}

func (e *DataIntegrityError) Error() string {
	msg := fmt.Sprintf("data integrity error on event %s", e.EventID)
	if e.PlayerID != uuid.Nil {
		msg += fmt.Sprintf(" player %s", e.PlayerID)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataIntegrityError) Is(target error) bool {
	return target == ErrDataIntegrity
}

func (e *DataIntegrityError) Unwrap() error {
	return e.Err
}
