package sim

import (
	"golang.org/x/sync/errgroup"

	"github.com/massim-go/engine/grid"
	"github.com/massim-go/engine/position"
	"github.com/massim-go/engine/task"
	"github.com/massim-go/engine/thing"
)

// VisibleThing is one local-coordinate thing record in a Percept (§4.10).
type VisibleThing struct {
	Local     position.Position
	Kind      thing.Kind
	ID        thing.ID
	AgentName string // entities only
	TeamName  string // entities only
	BlockType string // blocks and dispensers only
}

// TerrainPatch groups every visible cell of one non-empty terrain kind.
type TerrainPatch struct {
	Terrain grid.Terrain
	Locals  []position.Position
}

// TaskRecord is the percept-visible projection of an open task.
type TaskRecord struct {
	Name         string
	DeadlineStep int
	Reward       int
	Requirements map[position.Position]string
}

// Percept is the per-entity, per-tick view produced by buildPercepts
// (§4.10): everything within Area(position, vision), plus global fields.
type Percept struct {
	Agent string
	Step  int
	Score int

	Things             []VisibleThing
	Terrain            []TerrainPatch
	AttachedToOpponent []position.Position
	OpenTasks          []TaskRecord

	LastAction       string
	LastActionParams []string
	LastActionResult string
	Energy           int
	Disabled         bool
}

func (gs *GameState) teamScore(name string) int {
	if t, ok := gs.teams[name]; ok {
		return t.Score
	}
	return 0
}

// Percept rebuilds a single agent's percept on demand, for callers (e.g. the
// developer console) that want one entity's view outside the regular tick
// loop. Returns ok=false if no such agent exists.
func (gs *GameState) Percept(agent string) (Percept, bool) {
	e, ok := gs.entitiesByAgent[agent]
	if !ok {
		return Percept{}, false
	}
	return gs.buildPercept(e), true
}

// buildPercepts assembles every entity's percept concurrently: each
// assembly is a pure read over already-settled state for this tick, so
// fanning out across entities is safe and cuts wall time on wide rosters.
func (gs *GameState) buildPercepts() []Percept {
	entities := gs.store.AllEntities()
	percepts := make([]Percept, len(entities))

	var g errgroup.Group
	for i, e := range entities {
		i, e := i, e
		g.Go(func() error {
			percepts[i] = gs.buildPercept(e)
			return nil
		})
	}
	_ = g.Wait()
	return percepts
}

func (gs *GameState) buildPercept(e *thing.Entity) Percept {
	p := Percept{
		Agent:            e.AgentName,
		Step:             gs.step,
		Score:            gs.teamScore(e.TeamName),
		LastAction:       e.LastAction,
		LastActionParams: e.LastActionParams,
		LastActionResult: e.LastActionResult,
		Energy:           e.Energy,
		Disabled:         e.Disabled(),
	}

	var terrainLocals [3][]position.Position
	seenOpponent := make(map[position.Position]struct{})

	for _, c := range gs.Grid.Area(e.Position(), e.Vision) {
		if !gs.Grid.InBounds(c) {
			continue
		}
		local := c.Local(e.Position())

		if t := gs.Grid.TerrainAt(c); t != grid.Empty {
			terrainLocals[t] = append(terrainLocals[t], local)
		}

		for _, th := range gs.store.ThingsAt(c) {
			vt := VisibleThing{Local: local, Kind: th.Kind(), ID: th.ID()}
			switch v := th.(type) {
			case *thing.Entity:
				vt.AgentName = v.AgentName
				vt.TeamName = v.TeamName
			case *thing.Block:
				vt.BlockType = v.BlockType
			case *thing.Dispenser:
				vt.BlockType = v.BlockType
			}
			p.Things = append(p.Things, vt)

			if at, ok := th.(thing.Attachable); ok && gs.groupHasOpponent(at.ID(), e.TeamName) {
				if _, dup := seenOpponent[local]; !dup {
					seenOpponent[local] = struct{}{}
					p.AttachedToOpponent = append(p.AttachedToOpponent, local)
				}
			}
		}
	}

	for kind := grid.Terrain(0); int(kind) < len(terrainLocals); kind++ {
		if kind == grid.Empty || len(terrainLocals[kind]) == 0 {
			continue
		}
		p.Terrain = append(p.Terrain, TerrainPatch{Terrain: kind, Locals: terrainLocals[kind]})
	}

	for _, t := range gs.tasks.Open(gs.step) {
		p.OpenTasks = append(p.OpenTasks, taskRecord(t))
	}

	return p
}

func taskRecord(t *task.Task) TaskRecord {
	return TaskRecord{Name: t.Name, DeadlineStep: t.DeadlineStep, Reward: t.Reward, Requirements: t.Requirements}
}
