// File: models/board.go
package models

// ---------------------- board view ----------------------

// BoardState is the rendered view of one prediction board.
type BoardState struct {
	Positions map[int]Team `json:"positions"`
	Available []Team       `json:"available"`
	Placed    int          `json:"placed"`
	Total     int          `json:"total"`
	Selected  Team         `json:"selected,omitempty"`
}

// ---------------------- board events ----------------------

// EventKind names what a board mutation did.
type EventKind string

const (
	EventPlaced   EventKind = "placed"   // pool -> empty rank
	EventMoved    EventKind = "moved"    // rank -> empty rank
	EventSwapped  EventKind = "swapped"  // into an occupied rank
	EventUnplaced EventKind = "unplaced" // rank -> pool
	EventReset    EventKind = "reset"
	EventShuffled EventKind = "shuffled"
)

// BoardEvent describes one successful mutation.
// From is 0 when the team came from the pool; Displaced is empty unless Kind is EventSwapped.
type BoardEvent struct {
	Kind      EventKind `json:"kind"`
	Team      Team      `json:"team,omitempty"`
	Rank      int       `json:"rank,omitempty"`
	From      int       `json:"from,omitempty"`
	Displaced Team      `json:"displaced,omitempty"`
}
