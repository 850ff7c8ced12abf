// Command simctl runs a standalone grid-world simulation and drives it from
// an interactive developer console, adapted from the teacher's server+
// console wiring pattern (cmd/inspect_palette and server/console).
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/massim-go/engine/console"
	"github.com/massim-go/engine/grid"
	"github.com/massim-go/engine/sim"
)

func main() {
	width := flag.Int("width", 32, "grid width")
	height := flag.Int("height", 32, "grid height")
	seed := flag.Int64("seed", 1, "deterministic PRNG seed")
	team := flag.String("team", "red", "single default team name")
	agents := flag.String("agents", "agentA,agentB", "comma-separated agent names for the default team")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := sim.Config{
		Log:             log,
		Seed:            *seed,
		AttachLimit:     10,
		ClearSteps:      1,
		ClearEnergyCost: 10,
		DisableDuration: 4,
		MaxEnergy:       300,
		DefaultVision:   5,
		BlockTypeMin:    0,
		BlockTypeMax:    2,
		Grid: sim.GridConfig{
			Width:  *width,
			Height: *height,
			TerrainProvider: func(x, y int) grid.Terrain {
				return grid.Empty
			},
		},
		Teams: []sim.TeamConfig{{Name: *team, Agents: splitAgents(*agents)}},
	}

	gs := sim.NewGameState(cfg)
	log.Info("simulation ready", "match_id", gs.MatchID.String(), "width", *width, "height", *height)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	console.New(gs, log).Run(ctx)
}

func splitAgents(raw string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(raw); i++ {
		if i == len(raw) || raw[i] == ',' {
			if i > start {
				out = append(out, raw[start:i])
			}
			start = i + 1
		}
	}
	return out
}
