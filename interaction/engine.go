// Package interaction turns drag and click gestures into prediction board operations.
// Both adapters drive the same board contract and never touch board state directly.
// File: interaction/engine.go
package interaction

import (
	"fmt"

	"league-predictor/models"
)

// Engine is the board contract the adapters drive.
type Engine interface {
	Place(team models.Team, rank int) error
	Unplace(team models.Team) error
	Reset()
	RankOf(team models.Team) (int, bool)
	OccupantOf(rank int) (models.Team, bool)
	InPool(team models.Team) bool
	HasTeam(team models.Team) bool
	RankCount() int
}

// Sentinel errors for gestures the adapters cannot map onto the board.
// Both belong to the models.ErrInvalidOperation class.
var (
	// ErrUnknownDroppable is returned for a drop container id that is neither the pool nor a rank.
	ErrUnknownDroppable = fmt.Errorf("%w: unknown drop container", models.ErrInvalidOperation)

	// ErrUnknownClickTarget is returned for a click command with an unrecognised target.
	ErrUnknownClickTarget = fmt.Errorf("%w: unknown click target", models.ErrInvalidOperation)
)
