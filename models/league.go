// Package models defines data structures used across the application.
// File: models/league.go
package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidLeague is returned when league data cannot back a prediction board.
var ErrInvalidLeague = errors.New("invalid league data")

// ----------------------- team model -----------------------

// Team is a club name. Teams are compared by exact name.
type Team string

// ----------------------- tier model -----------------------

// Tier is a labelled, contiguous block of ranks. It only affects display.
type Tier struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	First       int    `json:"first" yaml:"first"`
	Last        int    `json:"last" yaml:"last"`
	Description string `json:"description" yaml:"description"`
}

// Ranks lists every rank in the tier, top first.
func (t Tier) Ranks() []int {
	ranks := make([]int, 0, t.Last-t.First+1)
	for r := t.First; r <= t.Last; r++ {
		ranks = append(ranks, r)
	}
	return ranks
}

// Positions is the "1-4" label shown under the tier title.
func (t Tier) Positions() string {
	return fmt.Sprintf("%d-%d", t.First, t.Last)
}

// Contains reports whether rank falls inside the tier.
func (t Tier) Contains(rank int) bool {
	return rank >= t.First && rank <= t.Last
}

// ------------------------ info models -----------------------

// Fact is one of the informational qualification-rule cards.
type Fact struct {
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description" yaml:"description"`
}

// SeasonInfo holds the season banner figures.
type SeasonInfo struct {
	Name          string `json:"name" yaml:"name"`
	GamesPerTeam  int    `json:"gamesPerTeam" yaml:"gamesPerTeam"`
	TotalMatches  int    `json:"totalMatches" yaml:"totalMatches"`
	NumberOfClubs int    `json:"numberOfClubs" yaml:"numberOfClubs"`
}

// ------------------------ league model -----------------------

// League is the static, read-only data a board is built from.
type League struct {
	Name   string     `json:"name" yaml:"name"`
	Teams  []Team     `json:"teams" yaml:"teams"`
	Tiers  []Tier     `json:"tiers" yaml:"tiers"`
	Facts  []Fact     `json:"facts" yaml:"facts"`
	Season SeasonInfo `json:"season" yaml:"season"`
}

// RankCount is the number of slots on the board, one per team.
func (l *League) RankCount() int {
	return len(l.Teams)
}

// HasTeam reports whether team belongs to the league.
func (l *League) HasTeam(team Team) bool {
	for _, t := range l.Teams {
		if t == team {
			return true
		}
	}
	return false
}

// TierFor returns the tier holding rank.
func (l *League) TierFor(rank int) (Tier, bool) {
	for _, t := range l.Tiers {
		if t.Contains(rank) {
			return t, true
		}
	}
	return Tier{}, false
}

// Validate checks that teams are distinct and tiers cover 1..N in order without gaps.
func (l *League) Validate() error {
	if len(l.Teams) == 0 {
		return fmt.Errorf("%w: no teams", ErrInvalidLeague)
	}
	seen := make(map[Team]bool, len(l.Teams))
	for i, t := range l.Teams {
		if strings.TrimSpace(string(t)) == "" {
			return fmt.Errorf("%w: team %d has an empty name", ErrInvalidLeague, i+1)
		}
		if seen[t] {
			return fmt.Errorf("%w: duplicate team %q", ErrInvalidLeague, t)
		}
		seen[t] = true
	}

	if len(l.Tiers) == 0 {
		return fmt.Errorf("%w: no tiers", ErrInvalidLeague)
	}
	next := 1
	for _, tier := range l.Tiers {
		if tier.ID == "" {
			return fmt.Errorf("%w: tier starting at rank %d has no id", ErrInvalidLeague, tier.First)
		}
		if tier.First != next {
			return fmt.Errorf("%w: tier %q starts at %d, expected %d", ErrInvalidLeague, tier.ID, tier.First, next)
		}
		if tier.Last < tier.First {
			return fmt.Errorf("%w: tier %q ends before it starts", ErrInvalidLeague, tier.ID)
		}
		next = tier.Last + 1
	}
	if next-1 != len(l.Teams) {
		return fmt.Errorf("%w: tiers cover %d ranks but there are %d teams", ErrInvalidLeague, next-1, len(l.Teams))
	}
	return nil
}

// Ordinal renders a rank as "1st", "2nd", "3rd", "4th", ...
func Ordinal(rank int) string {
	suffix := "th"
	if n := rank % 100; n >= 11 && n <= 13 {
		return fmt.Sprintf("%d%s", rank, suffix)
	}
	switch rank % 10 {
	case 1:
		suffix = "st"
	case 2:
		suffix = "nd"
	case 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", rank, suffix)
}

// ---------------------- default data ----------------------

// DefaultLeague returns the built-in 2025/26 Premier League data.
// Every call returns a fresh copy.
func DefaultLeague() *League {
	return &League{
		Name: "Premier League",
		Teams: []Team{
			"AFC Bournemouth",
			"Arsenal",
			"Aston Villa",
			"Brentford",
			"Brighton & Hove Albion",
			"Burnley",
			"Chelsea",
			"Crystal Palace",
			"Everton",
			"Fulham",
			"Leeds United",
			"Liverpool",
			"Manchester City",
			"Manchester United",
			"Newcastle United",
			"Nottingham Forest",
			"Sunderland",
			"Tottenham",
			"West Ham United",
			"Wolves",
		},
		Tiers: []Tier{
			{ID: "top4", Title: "TOP 4", First: 1, Last: 4, Description: "Champions League"},
			{ID: "europe", Title: "EUROPE", First: 5, Last: 7, Description: "Europa & Conference"},
			{ID: "uppermid", Title: "UPPER MID", First: 8, Last: 12, Description: "Safe Mid-Table"},
			{ID: "lowermid", Title: "LOWER MID", First: 13, Last: 17, Description: "Lower Mid-Table"},
			{ID: "relegation", Title: "RELEGATION", First: 18, Last: 20, Description: "Championship"},
		},
		Facts: []Fact{
			{Label: "Champions League", Description: "Top 4 qualify for UCL group stage"},
			{Label: "Europa League", Description: "5th place enters Europa League"},
			{Label: "Conference League", Description: "6th/7th may qualify for UECL"},
			{Label: "Relegation", Description: "Bottom 3 drop to Championship"},
		},
		Season: SeasonInfo{
			Name:          "2025/26",
			GamesPerTeam:  38,
			TotalMatches:  380,
			NumberOfClubs: 20,
		},
	}
}
