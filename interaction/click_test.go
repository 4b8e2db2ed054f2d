//go:build unit
// +build unit

// file: interaction/click_test.go
package interaction_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"league-predictor/interaction"
	"league-predictor/models"
	"league-predictor/services"
)

func newClickFixture(t *testing.T) (*services.Board, *interaction.ClickAdapter) {
	t.Helper()
	board := services.NewBoard(models.DefaultLeague())
	c := interaction.NewClickAdapter(board)
	board.Subscribe(c.Observe)
	return board, c
}

func assertNoSelection(t *testing.T, c *interaction.ClickAdapter) {
	t.Helper()
	team, ok := c.Selection()
	assert.False(t, ok, "unexpected selection %q", team)
}

func assertSelected(t *testing.T, c *interaction.ClickAdapter, want models.Team) {
	t.Helper()
	team, ok := c.Selection()
	assert.True(t, ok)
	assert.Equal(t, want, team)
}

// Test: select a pool team, then click an empty slot
func TestClick_PoolTeamThenEmptySlot(t *testing.T) {
	board, c := newClickFixture(t)

	require.NoError(t, c.ClickPoolTeam("Arsenal"))
	assertSelected(t, c, "Arsenal")

	require.NoError(t, c.ClickSlot(1))

	occupant, _ := board.OccupantOf(1)
	assert.Equal(t, models.Team("Arsenal"), occupant)
	assertNoSelection(t, c)
}

// Test: Chelsea at 2 is selected and placed on Arsenal at 1, so they swap
func TestClick_SwapPlacedTeams(t *testing.T) {
	board, c := newClickFixture(t)
	require.NoError(t, board.Place("Arsenal", 1))
	require.NoError(t, board.Place("Chelsea", 2))

	require.NoError(t, c.ClickPlacedTeam("Chelsea"))
	assertSelected(t, c, "Chelsea")
	require.NoError(t, c.ClickSlot(1))

	state := board.Snapshot()
	assert.Equal(t, map[int]models.Team{1: "Chelsea", 2: "Arsenal"}, state.Positions)
	assertNoSelection(t, c)
}

func TestClick_PendingTeamOntoPlacedTeamCard(t *testing.T) {
	board, c := newClickFixture(t)
	require.NoError(t, board.Place("Arsenal", 1))
	require.NoError(t, board.Place("Chelsea", 2))

	require.NoError(t, c.Handle(interaction.ClickCommand{Target: interaction.TargetPlacedTeam, Team: "Chelsea"}))
	require.NoError(t, c.Handle(interaction.ClickCommand{Target: interaction.TargetPlacedTeam, Team: "Arsenal"}))

	state := board.Snapshot()
	assert.Equal(t, map[int]models.Team{1: "Chelsea", 2: "Arsenal"}, state.Positions)
	assertNoSelection(t, c)
}

// Test: clicking Everton twice in the pool deselects it
func TestClick_PoolTeamToggle(t *testing.T) {
	board, c := newClickFixture(t)
	before := board.Snapshot()

	require.NoError(t, c.ClickPoolTeam("Everton"))
	require.NoError(t, c.ClickPoolTeam("Everton"))

	assertNoSelection(t, c)
	assert.Equal(t, before, board.Snapshot())
}

func TestClick_PoolTeamSwitchesSelection(t *testing.T) {
	_, c := newClickFixture(t)

	require.NoError(t, c.ClickPoolTeam("Everton"))
	require.NoError(t, c.ClickPoolTeam("Fulham"))

	assertSelected(t, c, "Fulham")
}

func TestClick_PlacedTeamTwiceUnplaces(t *testing.T) {
	board, c := newClickFixture(t)
	require.NoError(t, board.Place("Liverpool", 5))

	require.NoError(t, c.ClickPlacedTeam("Liverpool"))
	require.NoError(t, c.ClickPlacedTeam("Liverpool"))

	_, placed := board.RankOf("Liverpool")
	assert.False(t, placed)
	assert.True(t, board.InPool("Liverpool"))
	assertNoSelection(t, c)
}

func TestClick_SlotWithoutSelection(t *testing.T) {
	board, c := newClickFixture(t)
	require.NoError(t, board.Place("Brighton & Hove Albion", 7))

	require.NoError(t, c.ClickSlot(3))
	assertNoSelection(t, c)

	require.NoError(t, c.ClickSlot(7))
	assertSelected(t, c, "Brighton & Hove Albion")
}

func TestClick_ResetClearsSelection(t *testing.T) {
	board, c := newClickFixture(t)
	require.NoError(t, c.ClickPoolTeam("Everton"))
	require.NoError(t, c.ClickSlot(4))
	require.NoError(t, c.ClickPoolTeam("Fulham"))

	c.Reset()

	assertNoSelection(t, c)
	assert.Empty(t, board.Snapshot().Positions)
}

// Test: a reset issued straight on the board still clears the selection
func TestClick_ObserveBoardReset(t *testing.T) {
	board, c := newClickFixture(t)
	require.NoError(t, c.ClickPoolTeam("Everton"))

	board.Reset()

	assertNoSelection(t, c)
}

func TestClick_ClearSelection(t *testing.T) {
	_, c := newClickFixture(t)
	require.NoError(t, c.ClickPoolTeam("Everton"))

	c.ClearSelection()

	assertNoSelection(t, c)
}

func TestClick_Rejected(t *testing.T) {
	tests := []struct {
		name string
		cmd  interaction.ClickCommand
		want error
	}{
		{"unknown target", interaction.ClickCommand{Target: "bench"}, interaction.ErrUnknownClickTarget},
		{"unknown pool team", interaction.ClickCommand{Target: interaction.TargetPoolTeam, Team: "Real Madrid"}, models.ErrUnknownTeam},
		{"slot out of range", interaction.ClickCommand{Target: interaction.TargetSlot, Rank: 21}, models.ErrRankOutOfRange},
		{"slot zero", interaction.ClickCommand{Target: interaction.TargetSlot}, models.ErrRankOutOfRange},
		{"placed card for pooled team", interaction.ClickCommand{Target: interaction.TargetPlacedTeam, Team: "Everton"}, models.ErrTeamNotPlaced},
		{"placed card unknown team", interaction.ClickCommand{Target: interaction.TargetPlacedTeam, Team: "Ajax"}, models.ErrUnknownTeam},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			board, c := newClickFixture(t)
			before := board.Snapshot()

			err := c.Handle(tc.cmd)

			assert.True(t, errors.Is(err, tc.want), "got %v", err)
			assert.True(t, errors.Is(err, models.ErrInvalidOperation), "got %v", err)
			assert.Equal(t, before, board.Snapshot())
			assertNoSelection(t, c)
		})
	}
}

// Test: a failed placement keeps the pending team selected
func TestClick_SelectionSurvivesRejectedSlot(t *testing.T) {
	_, c := newClickFixture(t)
	require.NoError(t, c.ClickPoolTeam("Everton"))

	err := c.ClickSlot(40)

	assert.True(t, errors.Is(err, models.ErrRankOutOfRange))
	assertSelected(t, c, "Everton")
}
