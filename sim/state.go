package sim

import (
	"log/slog"
	"math/rand"

	"github.com/google/uuid"

	"github.com/massim-go/engine/attach"
	"github.com/massim-go/engine/clearevent"
	"github.com/massim-go/engine/grid"
	"github.com/massim-go/engine/position"
	"github.com/massim-go/engine/setup"
	"github.com/massim-go/engine/task"
	"github.com/massim-go/engine/thing"
)

// Team tracks a team's accumulated score.
type Team struct {
	Name  string
	Score int
}

// GameState is the root aggregate (§3): the terrain grid, thing arena,
// attachment graph, task registry, clear-event scheduler, team registry and
// the current step, owned exclusively by this struct and mutated only
// through its methods (§5, §9).
type GameState struct {
	cfg     Config
	log     *slog.Logger
	MatchID uuid.UUID
	rng     *rand.Rand

	Grid   *grid.Grid
	store  *thing.Store
	graph  *attach.Graph
	tasks  *task.Registry
	events *clearevent.Scheduler

	teams           map[string]*Team
	teamOrder       []string
	entitiesByAgent map[string]*thing.Entity

	step    int
	metrics *Metrics
}

// NewGameState builds a GameState from cfg: it lays out the terrain grid,
// creates one Entity per configured agent at a random free cell, applies the
// setup DSL, and seeds the single process-wide deterministic PRNG (§5).
func NewGameState(cfg Config) *GameState {
	cfg = cfg.withDefaults()

	g := grid.New(cfg.Grid.Width, cfg.Grid.Height, cfg.Grid.TerrainProvider)
	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}

	gs := &GameState{
		cfg:             cfg,
		log:             cfg.Log,
		MatchID:         uuid.New(),
		rng:             rand.New(rand.NewSource(seed)),
		Grid:            g,
		store:           thing.NewStore(g),
		graph:           attach.New(),
		tasks:           task.NewRegistry(),
		events:          clearevent.NewScheduler(),
		teams:           make(map[string]*Team),
		entitiesByAgent: make(map[string]*thing.Entity),
		metrics:         NewMetrics(),
	}
	gs.log = gs.log.With("match_id", gs.MatchID.String())

	for _, tc := range cfg.Teams {
		gs.teams[tc.Name] = &Team{Name: tc.Name}
		gs.teamOrder = append(gs.teamOrder, tc.Name)
		for _, agent := range tc.Agents {
			pos := g.RandomFreePosition(gs.rng)
			e := gs.store.NewEntity(pos, agent, tc.Name, cfg.DefaultVision, cfg.MaxEnergy)
			e.LastActionResult = "uninitialized"
			gs.entitiesByAgent[agent] = e
		}
	}

	gs.applySetup(setup.Parse(gs.log, cfg.Setup))
	return gs
}

// Step returns the current tick number.
func (gs *GameState) Step() int { return gs.step }

// Metrics returns the engine's observability counters.
func (gs *GameState) Metrics() *Metrics { return gs.metrics }

// Tasks returns every currently open (non-completed, non-expired) task.
func (gs *GameState) Tasks() []*task.Task { return gs.tasks.Open(gs.step) }

func (gs *GameState) applySetup(cmds []setup.Command) {
	for _, c := range cmds {
		switch c.Kind {
		case setup.CmdMove:
			e, ok := gs.entitiesByAgent[c.Agent]
			if !ok {
				gs.log.Warn("setup: move references unknown agent", "agent", c.Agent)
				continue
			}
			gs.store.SetPosition(e.ID(), position.Position{X: c.X, Y: c.Y})
		case setup.CmdAdd:
			p := position.Position{X: c.X, Y: c.Y}
			switch c.ThingKind {
			case "block":
				gs.store.NewBlock(p, c.BlockType)
			case "dispenser":
				gs.store.NewDispenser(p, c.BlockType)
			}
		case setup.CmdCreateTask:
			reqs := make(map[position.Position]string, len(c.Requirements))
			for _, r := range c.Requirements {
				reqs[position.Position{X: r.X, Y: r.Y}] = r.BlockType
			}
			if gs.tasks.CreateCustom(c.TaskName, gs.step, c.TaskDuration, reqs) == nil {
				gs.log.Warn("setup: create task rejected", "task", c.TaskName)
			}
		case setup.CmdAttach:
			a, ok1 := gs.store.UniqueAttachableAt(position.Position{X: c.X, Y: c.Y})
			b, ok2 := gs.store.UniqueAttachableAt(position.Position{X: c.X2, Y: c.Y2})
			if !ok1 || !ok2 {
				gs.log.Warn("setup: attach requires a unique attachable at each endpoint",
					"p1", position.Position{X: c.X, Y: c.Y}, "p2", position.Position{X: c.X2, Y: c.Y2})
				continue
			}
			gs.attachThings(a, b)
		}
	}
}
