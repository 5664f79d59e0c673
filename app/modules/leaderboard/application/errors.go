package leaderboardservice

import "errors"

var (
	// ErrPlayerNotFound is returned when the player does not exist.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrSeasonAlreadyRegistered is returned when a player already has a row for the year.
	ErrSeasonAlreadyRegistered = errors.New("player already registered for season")

	// ErrInvalidYear is returned for a missing or out-of-range season year.
	ErrInvalidYear = errors.New("invalid season year")

	// ErrInvalidHandicap is returned when an initial handicap is negative.
	ErrInvalidHandicap = errors.New("invalid handicap")
)
