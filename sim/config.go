// Package sim is the tick-driven simulation engine: the GameState root
// aggregate, prepareStep/handleXxxAction dispatch, percept assembly and
// snapshot/result production (§4.7–§4.10, §6). It is the only package that
// touches grid, thing, attach, task and clearevent together, matching the
// teacher's world.World as the single owned aggregate mutated only through
// its handler API (§9 design note).
package sim

import (
	"log/slog"

	"github.com/massim-go/engine/grid"
)

// GridConfig describes the terrain grid; bitmap/terrain-file decoding is the
// harness's job; the core only ever consumes the resulting callback.
type GridConfig struct {
	Width, Height int
	// TerrainProvider returns the terrain at (x, y). If nil, every cell
	// starts Empty.
	TerrainProvider func(x, y int) grid.Terrain
}

// TaskConfig holds the task-generation tunables of §6.
type TaskConfig struct {
	DurationMin, DurationMax int
	SizeMin, SizeMax         int
	Probability              float64
}

// EventConfig holds the clear-event tunables of §6.
type EventConfig struct {
	Chance               int
	RadiusMin, RadiusMax int
	Warning              int
	CreateMin, CreateMax int
}

// TeamConfig names one team and its roster. Teams is a slice rather than a
// map so that team insertion order -- which final_percept's tie-break rule
// depends on (§6) -- is well defined instead of riding on Go's
// intentionally randomized map iteration order.
type TeamConfig struct {
	Name   string
	Agents []string
}

// Config is the fully parsed configuration the core consumes (§6). Nothing
// in this package parses a config file or bitmap; both arrive pre-decoded.
type Config struct {
	// Log receives structured diagnostics. Defaults to slog.Default().
	Log *slog.Logger
	// Seed fixes the process-wide deterministic PRNG (§5). Zero selects a
	// fixed default seed rather than a time-based one, so that omitting it
	// still reproduces byte-identical runs (see DESIGN.md).
	Seed int64

	RandomFail       int
	AttachLimit      int
	ClearSteps       int
	ClearEnergyCost  int
	DisableDuration  int
	MaxEnergy        int
	DefaultVision    int
	// TotalSteps is reported verbatim in initial/final percepts; the core
	// never uses it to stop ticking -- that's the harness's loop.
	TotalSteps int

	BlockTypeMin, BlockTypeMax int

	Tasks  TaskConfig
	Events EventConfig
	Grid   GridConfig

	// Setup holds the raw setup-DSL lines (§6); parsed via the setup
	// package and applied once at construction.
	Setup []string
	Teams []TeamConfig
}

func (c Config) withDefaults() Config {
	if c.Log == nil {
		c.Log = slog.Default()
	}
	if c.AttachLimit <= 0 {
		c.AttachLimit = 10
	}
	if c.ClearSteps <= 0 {
		c.ClearSteps = 1
	}
	if c.DisableDuration <= 0 {
		c.DisableDuration = 4
	}
	if c.MaxEnergy <= 0 {
		c.MaxEnergy = 300
	}
	if c.DefaultVision <= 0 {
		c.DefaultVision = 5
	}
	if c.Events.Warning <= 0 {
		c.Events.Warning = 5
	}
	if c.BlockTypeMax < c.BlockTypeMin {
		c.BlockTypeMax = c.BlockTypeMin
	}
	if c.Events.RadiusMax < c.Events.RadiusMin {
		c.Events.RadiusMax = c.Events.RadiusMin
	}
	if c.Tasks.DurationMax < c.Tasks.DurationMin {
		c.Tasks.DurationMax = c.Tasks.DurationMin
	}
	if c.Tasks.SizeMax < c.Tasks.SizeMin {
		c.Tasks.SizeMax = c.Tasks.SizeMin
	}
	if c.Events.CreateMax < c.Events.CreateMin {
		c.Events.CreateMax = c.Events.CreateMin
	}
	return c
}
