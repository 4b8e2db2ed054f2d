// table.go
package main

import (
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
	"league-predictor/models"
	"league-predictor/services"
)

func newTableCommand() *cli.Command {
	return &cli.Command{
		Name:  "table",
		Usage: "apply placements without a browser and print the predicted table",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "place", Usage: `placement as "Team=rank", repeatable`},
			&cli.BoolFlag{Name: "shuffle", Usage: "shuffle the remaining pool"},
			&cli.Int64Flag{Name: "seed", Usage: "seed for --shuffle (random when unset)"},
			&cli.StringFlag{Name: "league", Usage: "league YAML file", EnvVars: []string{"LEAGUE_CONFIG"}},
		},
		Action: func(c *cli.Context) error {
			league, err := models.LoadLeague(c.String("league"))
			if err != nil {
				return err
			}

			var opts []services.BoardOption
			if c.IsSet("seed") {
				opts = append(opts, services.WithRand(rand.New(rand.NewSource(c.Int64("seed")))))
			}
			board := services.NewBoard(league, opts...)

			for _, p := range c.StringSlice("place") {
				team, rank, err := parsePlacement(p)
				if err != nil {
					return err
				}
				if err := board.Place(team, rank); err != nil {
					return fmt.Errorf("place %q: %w", p, err)
				}
			}
			if c.Bool("shuffle") {
				board.ShufflePool()
			}

			renderTable(c.App.Writer, league, board.Snapshot())
			return nil
		},
	}
}

// parsePlacement splits "Team=rank". The last '=' separates the rank.
func parsePlacement(s string) (models.Team, int, error) {
	i := strings.LastIndex(s, "=")
	if i <= 0 {
		return "", 0, fmt.Errorf("placement %q: want Team=rank", s)
	}
	rank, err := strconv.Atoi(strings.TrimSpace(s[i+1:]))
	if err != nil {
		return "", 0, fmt.Errorf("placement %q: bad rank: %w", s, err)
	}
	return models.Team(strings.TrimSpace(s[:i])), rank, nil
}

func renderTable(w io.Writer, league *models.League, state models.BoardState) {
	fmt.Fprintf(w, "%s %s prediction (%d/%d placed)\n", league.Name, league.Season.Name, state.Placed, state.Total)
	for _, tier := range league.Tiers {
		fmt.Fprintf(w, "\n%s (%s) %s\n", tier.Title, tier.Positions(), tier.Description)
		for _, rank := range tier.Ranks() {
			team := string(state.Positions[rank])
			if team == "" {
				team = "-"
			}
			fmt.Fprintf(w, "  %5s  %s\n", models.Ordinal(rank), team)
		}
	}

	names := make([]string, len(state.Available))
	for i, t := range state.Available {
		names[i] = string(t)
	}
	fmt.Fprintf(w, "\nAvailable (%d): %s\n", len(names), strings.Join(names, ", "))
}
