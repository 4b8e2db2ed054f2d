// Package services holds the prediction board and the per-session widget registry.
// File: services/board.go
package services

import (
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"time"

	"league-predictor/logger"
	"league-predictor/models"
)

// Listener is called after every successful board mutation.
type Listener func(models.BoardEvent)

// Board maps ranks to teams and keeps the unplaced teams in an ordered pool.
// Every team is either in the pool or at exactly one rank; no method breaks that.
type Board struct {
	mu        sync.Mutex
	league    *models.League
	positions map[int]models.Team // rank -> team
	ranks     map[models.Team]int // team -> rank, the inverse of positions
	pool      []models.Team
	rng       *rand.Rand
	listeners []Listener
}

// BoardOption configures a Board at construction.
type BoardOption func(*Board)

// WithRand makes ShufflePool draw from r. Tests pass a seeded source.
func WithRand(r *rand.Rand) BoardOption {
	return func(b *Board) {
		b.rng = r
	}
}

// NewBoard creates an empty board: nothing placed, every team in the pool in league order.
func NewBoard(league *models.League, opts ...BoardOption) *Board {
	b := &Board{
		league: league,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.clear()
	return b
}

// League returns the league the board was built from.
func (b *Board) League() *models.League {
	return b.league
}

// Subscribe registers l for every later mutation. Listeners run synchronously,
// in registration order, after the board lock is released.
func (b *Board) Subscribe(l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, l)
}

// --------------------- mutations ---------------------

// Place puts team at rank.
//   - empty rank: the team leaves the pool (or its old rank) and takes it.
//   - rank held by another team: the two swap. The occupant goes back to the pool when
//     team came from the pool, or to team's old rank otherwise.
//   - rank already held by team: nothing happens.
func (b *Board) Place(team models.Team, rank int) error {
	b.mu.Lock()
	if err := b.checkTeam(team); err != nil {
		b.mu.Unlock()
		return err
	}
	if err := b.checkRank(rank); err != nil {
		b.mu.Unlock()
		return err
	}

	occupant, occupied := b.positions[rank]
	if occupied && occupant == team {
		b.mu.Unlock()
		logger.Debug.Printf("[Board.Place] %s already at %d; nothing to do", team, rank)
		return nil
	}

	from, fromRank := b.ranks[team]
	ev := models.BoardEvent{Team: team, Rank: rank, From: from}

	switch {
	case occupied && fromRank:
		// rank to rank swap
		b.positions[from] = occupant
		b.ranks[occupant] = from
		ev.Kind = models.EventSwapped
		ev.Displaced = occupant
	case occupied:
		// pool to occupied rank: occupant is returned to the pool
		b.removeFromPool(team)
		delete(b.ranks, occupant)
		b.pool = append(b.pool, occupant)
		ev.Kind = models.EventSwapped
		ev.Displaced = occupant
	case fromRank:
		delete(b.positions, from)
		ev.Kind = models.EventMoved
	default:
		b.removeFromPool(team)
		ev.Kind = models.EventPlaced
	}

	b.positions[rank] = team
	b.ranks[team] = rank
	listeners := b.snapshotListeners()
	b.mu.Unlock()

	logger.Debug.Printf("[Board.Place] %s -> %d (%s, displaced=%q)", team, rank, ev.Kind, ev.Displaced)
	notify(listeners, ev)
	return nil
}

// Unplace returns a placed team to the end of the pool.
func (b *Board) Unplace(team models.Team) error {
	b.mu.Lock()
	if err := b.checkTeam(team); err != nil {
		b.mu.Unlock()
		return err
	}
	rank, ok := b.ranks[team]
	if !ok {
		b.mu.Unlock()
		return fmt.Errorf("%w: %q", models.ErrTeamNotPlaced, team)
	}

	delete(b.positions, rank)
	delete(b.ranks, team)
	b.pool = append(b.pool, team)
	listeners := b.snapshotListeners()
	b.mu.Unlock()

	logger.Debug.Printf("[Board.Unplace] %s left rank %d", team, rank)
	notify(listeners, models.BoardEvent{Kind: models.EventUnplaced, Team: team, From: rank})
	return nil
}

// Reset empties every rank and restores the pool to league order.
func (b *Board) Reset() {
	b.mu.Lock()
	b.clear()
	listeners := b.snapshotListeners()
	b.mu.Unlock()

	logger.Debug.Println("[Board.Reset] board cleared")
	notify(listeners, models.BoardEvent{Kind: models.EventReset})
}

// ShufflePool reorders the pool with a uniform random permutation (Fisher-Yates).
// Placed teams are not touched.
func (b *Board) ShufflePool() {
	b.mu.Lock()
	// walks from the end, swapping each slot with a uniformly chosen one at or before it
	b.rng.Shuffle(len(b.pool), func(i, j int) {
		b.pool[i], b.pool[j] = b.pool[j], b.pool[i]
	})
	listeners := b.snapshotListeners()
	b.mu.Unlock()

	notify(listeners, models.BoardEvent{Kind: models.EventShuffled})
}

// --------------------- reads ---------------------

// Snapshot returns a copy of the board. Selected is left empty; the board knows nothing
// about click selection.
func (b *Board) Snapshot() models.BoardState {
	b.mu.Lock()
	defer b.mu.Unlock()

	positions := make(map[int]models.Team, len(b.positions))
	for r, t := range b.positions {
		positions[r] = t
	}
	return models.BoardState{
		Positions: positions,
		Available: slices.Clone(b.pool),
		Placed:    len(b.positions),
		Total:     b.league.RankCount(),
	}
}

// RankOf returns the rank team holds, if any.
func (b *Board) RankOf(team models.Team) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rank, ok := b.ranks[team]
	return rank, ok
}

// OccupantOf returns the team at rank, if any.
func (b *Board) OccupantOf(rank int) (models.Team, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	team, ok := b.positions[rank]
	return team, ok
}

// InPool reports whether team is a league team that is currently unplaced.
func (b *Board) InPool(team models.Team) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Contains(b.pool, team)
}

// HasTeam reports whether team belongs to the board's league.
func (b *Board) HasTeam(team models.Team) bool {
	return b.league.HasTeam(team)
}

// RankCount is the number of slots on the board.
func (b *Board) RankCount() int {
	return b.league.RankCount()
}

// PlacedCount is the number of occupied ranks.
func (b *Board) PlacedCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.positions)
}

// --------------------- helpers ---------------------

// clear must be called with b.mu held (or before the board is shared).
func (b *Board) clear() {
	b.positions = make(map[int]models.Team, b.league.RankCount())
	b.ranks = make(map[models.Team]int, b.league.RankCount())
	b.pool = slices.Clone(b.league.Teams)
}

func (b *Board) checkTeam(team models.Team) error {
	if !b.league.HasTeam(team) {
		logger.Warn.Printf("[Board] rejected unknown team %q", team)
		return fmt.Errorf("%w: %q", models.ErrUnknownTeam, team)
	}
	return nil
}

func (b *Board) checkRank(rank int) error {
	if rank < 1 || rank > b.league.RankCount() {
		logger.Warn.Printf("[Board] rejected rank %d (valid 1..%d)", rank, b.league.RankCount())
		return fmt.Errorf("%w: %d", models.ErrRankOutOfRange, rank)
	}
	return nil
}

func (b *Board) removeFromPool(team models.Team) {
	if i := slices.Index(b.pool, team); i >= 0 {
		b.pool = slices.Delete(b.pool, i, i+1)
	}
}

func (b *Board) snapshotListeners() []Listener {
	return slices.Clone(b.listeners)
}

func notify(listeners []Listener, ev models.BoardEvent) {
	for _, l := range listeners {
		l(ev)
	}
}
