// File: interaction/drag.go
package interaction

import (
	"fmt"
	"strconv"
	"strings"

	"league-predictor/logger"
	"league-predictor/models"
)

// Drop container ids shared with the page.
const (
	PoolDroppableID     = "available"
	positionDroppablePx = "position-"
)

// PositionDroppableID is the drop container id for rank.
func PositionDroppableID(rank int) string {
	return positionDroppablePx + strconv.Itoa(rank)
}

// DropResult is the payload of a finished drag. An empty Destination means the
// team was dropped outside every container.
type DropResult struct {
	DraggableID string `json:"draggableId" binding:"required"`
	Source      string `json:"source" binding:"required"`
	Destination string `json:"destination"`
}

// container is a parsed droppable id: rank 0 is the pool.
type container struct {
	rank int
}

func (c container) isPool() bool { return c.rank == 0 }

// DragAdapter applies finished drags to an Engine. It keeps no state of its own.
type DragAdapter struct {
	engine Engine
}

// NewDragAdapter creates a drag adapter over engine.
func NewDragAdapter(engine Engine) *DragAdapter {
	return &DragAdapter{engine: engine}
}

// HandleDragEnd applies one finished drag:
//   - no destination: nothing happens
//   - pool -> rank: place
//   - rank -> pool: unplace
//   - rank -> rank: place (the board swaps out any occupant)
//   - pool -> pool: ignored, only ShufflePool reorders the pool
func (d *DragAdapter) HandleDragEnd(res DropResult) error {
	if res.Destination == "" {
		logger.Debug.Printf("[HandleDragEnd] %s dropped outside any container; ignoring", res.DraggableID)
		return nil
	}

	src, err := d.parseDroppable(res.Source)
	if err != nil {
		return err
	}
	dst, err := d.parseDroppable(res.Destination)
	if err != nil {
		return err
	}

	team := models.Team(res.DraggableID)
	switch {
	case src.isPool() && dst.isPool():
		logger.Debug.Printf("[HandleDragEnd] pool reorder of %s ignored", team)
		return nil
	case dst.isPool():
		return d.engine.Unplace(team)
	default:
		// pool -> rank and rank -> rank are both a placement; the board handles displacement
		return d.engine.Place(team, dst.rank)
	}
}

func (d *DragAdapter) parseDroppable(id string) (container, error) {
	if id == PoolDroppableID {
		return container{}, nil
	}
	if strings.HasPrefix(id, positionDroppablePx) {
		rank, err := strconv.Atoi(strings.TrimPrefix(id, positionDroppablePx))
		if err == nil && rank >= 1 && rank <= d.engine.RankCount() {
			return container{rank: rank}, nil
		}
	}
	logger.Warn.Printf("[HandleDragEnd] unknown drop container %q", id)
	return container{}, fmt.Errorf("%w: %q", ErrUnknownDroppable, id)
}
