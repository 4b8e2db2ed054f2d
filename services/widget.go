// File: services/widget.go
package services

import (
	"sync"
	"time"

	"league-predictor/interaction"
	"league-predictor/logger"
	"league-predictor/models"
)

// nowFunc is overridden in tests.
var nowFunc = time.Now

// Widget is the state one open predictor page owns: a board and both gesture
// adapters over it. Each exported method is one user action and runs atomically.
type Widget struct {
	ID string

	mu       sync.Mutex
	board    *Board
	drag     *interaction.DragAdapter
	click    *interaction.ClickAdapter
	lastSeen time.Time
}

// NewWidget mounts a widget: empty board, nothing selected.
func NewWidget(id string, league *models.League, opts ...BoardOption) *Widget {
	board := NewBoard(league, opts...)
	w := &Widget{
		ID:       id,
		board:    board,
		drag:     interaction.NewDragAdapter(board),
		click:    interaction.NewClickAdapter(board),
		lastSeen: nowFunc(),
	}
	board.Subscribe(w.click.Observe)
	return w
}

// Board exposes the underlying board, e.g. to subscribe listeners.
func (w *Widget) Board() *Board {
	return w.board
}

// LastSeen is when the widget last handled an action or was read.
func (w *Widget) LastSeen() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

// Touch marks the widget as seen without running an action.
func (w *Widget) Touch() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastSeen = nowFunc()
}

// State renders the board together with the pending click selection.
func (w *Widget) State() models.BoardState {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastSeen = nowFunc()
	return w.stateLocked()
}

// DragEnd applies a finished drag.
func (w *Widget) DragEnd(res interaction.DropResult) (models.BoardState, error) {
	return w.apply("DragEnd", func() error {
		return w.drag.HandleDragEnd(res)
	})
}

// Click applies one click gesture.
func (w *Widget) Click(cmd interaction.ClickCommand) (models.BoardState, error) {
	return w.apply("Click", func() error {
		return w.click.Handle(cmd)
	})
}

// Place calls the board directly, bypassing both adapters.
func (w *Widget) Place(team models.Team, rank int) (models.BoardState, error) {
	return w.apply("Place", func() error {
		return w.board.Place(team, rank)
	})
}

// Unplace calls the board directly, bypassing both adapters.
func (w *Widget) Unplace(team models.Team) (models.BoardState, error) {
	return w.apply("Unplace", func() error {
		return w.board.Unplace(team)
	})
}

// Reset clears the board and the selection.
func (w *Widget) Reset() models.BoardState {
	state, _ := w.apply("Reset", func() error {
		w.click.Reset()
		return nil
	})
	return state
}

// Shuffle reorders the pool.
func (w *Widget) Shuffle() models.BoardState {
	state, _ := w.apply("Shuffle", func() error {
		w.board.ShufflePool()
		return nil
	})
	return state
}

// apply runs one action under the widget lock and returns the resulting state,
// which is the unchanged state when the action was rejected.
func (w *Widget) apply(action string, fn func() error) (models.BoardState, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastSeen = nowFunc()

	if err := fn(); err != nil {
		logger.Warn.Printf("[Widget.%s] widget=%s rejected: %v", action, w.ID, err)
		return w.stateLocked(), err
	}
	logger.Debug.Printf("[Widget.%s] widget=%s applied", action, w.ID)
	return w.stateLocked(), nil
}

func (w *Widget) stateLocked() models.BoardState {
	state := w.board.Snapshot()
	if team, ok := w.click.Selection(); ok {
		state.Selected = team
	}
	return state
}
