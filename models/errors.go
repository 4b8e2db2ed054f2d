// File: models/errors.go
package models

import "errors"

// Sentinel errors for rejected board operations. Every one wraps ErrInvalidOperation,
// and none of them is returned after a state change: a rejected call leaves the board as it was.
var (
	// ErrInvalidOperation is the class of all rejected board calls.
	ErrInvalidOperation = errors.New("invalid board operation")

	// ErrUnknownTeam is returned when a team is not part of the league.
	ErrUnknownTeam = invalid("unknown team")

	// ErrRankOutOfRange is returned when a rank is outside 1..N.
	ErrRankOutOfRange = invalid("rank out of range")

	// ErrTeamNotPlaced is returned when unplacing a team that is still in the pool.
	ErrTeamNotPlaced = invalid("team is not placed")
)

type invalidOperationError struct {
	msg string
}

func (e *invalidOperationError) Error() string { return e.msg }

func (e *invalidOperationError) Unwrap() error { return ErrInvalidOperation }

func invalid(msg string) error {
	return &invalidOperationError{msg: msg}
}
