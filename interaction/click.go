// File: interaction/click.go
package interaction

import (
	"fmt"

	"league-predictor/logger"
	"league-predictor/models"
)

// Click targets accepted by ClickAdapter.Handle.
const (
	TargetPoolTeam   = "pool" // a team card in the pool
	TargetSlot       = "slot" // the row of a rank, empty or not
	TargetPlacedTeam = "team" // the team card sitting inside a rank row
)

// ClickCommand is one click forwarded by the page.
type ClickCommand struct {
	Target string      `json:"target" binding:"required"`
	Team   models.Team `json:"team,omitempty"`
	Rank   int         `json:"rank,omitempty"`
}

// ClickAdapter drives an Engine with click-to-select, click-to-place gestures.
// Its only state is the pending selection.
type ClickAdapter struct {
	engine   Engine
	selected models.Team // "" when nothing is pending
}

// NewClickAdapter creates a click adapter over engine with nothing selected.
func NewClickAdapter(engine Engine) *ClickAdapter {
	return &ClickAdapter{engine: engine}
}

// Selection returns the pending team, if any.
func (c *ClickAdapter) Selection() (models.Team, bool) {
	return c.selected, c.selected != ""
}

// ClearSelection drops the pending team without touching the board.
func (c *ClickAdapter) ClearSelection() {
	c.selected = ""
}

// Observe is a board listener: any reset clears the selection, whoever triggered it.
func (c *ClickAdapter) Observe(ev models.BoardEvent) {
	if ev.Kind == models.EventReset {
		c.selected = ""
	}
}

// Reset resets the board and clears the selection.
func (c *ClickAdapter) Reset() {
	c.engine.Reset()
	c.selected = ""
}

// Handle dispatches a click command to the matching gesture.
func (c *ClickAdapter) Handle(cmd ClickCommand) error {
	switch cmd.Target {
	case TargetPoolTeam:
		return c.ClickPoolTeam(cmd.Team)
	case TargetSlot:
		return c.ClickSlot(cmd.Rank)
	case TargetPlacedTeam:
		return c.ClickPlacedTeam(cmd.Team)
	default:
		logger.Warn.Printf("[ClickAdapter.Handle] unknown target %q", cmd.Target)
		return fmt.Errorf("%w: %q", ErrUnknownClickTarget, cmd.Target)
	}
}

// ClickPoolTeam toggles team as the pending selection. Clicking the pending team
// again deselects it; clicking another team switches the selection. The board is untouched.
func (c *ClickAdapter) ClickPoolTeam(team models.Team) error {
	if !c.engine.HasTeam(team) {
		return fmt.Errorf("%w: %q", models.ErrUnknownTeam, team)
	}
	if c.selected == team {
		logger.Debug.Printf("[ClickPoolTeam] %s deselected", team)
		c.selected = ""
		return nil
	}
	c.selected = team
	logger.Debug.Printf("[ClickPoolTeam] %s selected", team)
	return nil
}

// ClickSlot handles a click on a rank row. With a team pending it is placed at rank
// (swapping out any other occupant) and the selection clears. With nothing pending an
// occupied row selects its team and an empty row does nothing.
func (c *ClickAdapter) ClickSlot(rank int) error {
	if rank < 1 || rank > c.engine.RankCount() {
		return fmt.Errorf("%w: %d", models.ErrRankOutOfRange, rank)
	}

	if team, ok := c.Selection(); ok {
		if err := c.engine.Place(team, rank); err != nil {
			return err
		}
		c.selected = ""
		return nil
	}

	if occupant, ok := c.engine.OccupantOf(rank); ok {
		c.selected = occupant
		logger.Debug.Printf("[ClickSlot] %s selected from rank %d", occupant, rank)
	}
	return nil
}

// ClickPlacedTeam handles a click on a team card inside a rank row.
//   - nothing pending: the team becomes pending.
//   - the team itself pending: it goes back to the pool.
//   - another team pending: same as clicking the row, the pending team takes this rank.
func (c *ClickAdapter) ClickPlacedTeam(team models.Team) error {
	if !c.engine.HasTeam(team) {
		return fmt.Errorf("%w: %q", models.ErrUnknownTeam, team)
	}
	rank, ok := c.engine.RankOf(team)
	if !ok {
		return fmt.Errorf("%w: %q", models.ErrTeamNotPlaced, team)
	}

	switch c.selected {
	case "":
		c.selected = team
		logger.Debug.Printf("[ClickPlacedTeam] %s selected at rank %d", team, rank)
		return nil
	case team:
		if err := c.engine.Unplace(team); err != nil {
			return err
		}
		c.selected = ""
		return nil
	default:
		return c.ClickSlot(rank)
	}
}
