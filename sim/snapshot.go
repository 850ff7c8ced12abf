package sim

import (
	"sort"

	"github.com/massim-go/engine/position"
)

// EntitySnapshot is the literal per-entity record of a Snapshot.
type EntitySnapshot struct {
	ID               string
	AgentName        string
	TeamName         string
	Position         position.Position
	Energy           int
	DisabledForSteps int
	Vision           int
	LastAction       string
	LastActionParams []string
	LastActionResult string
}

// BlockSnapshot is the literal per-block record of a Snapshot.
type BlockSnapshot struct {
	ID       string
	Position position.Position
	BlockType string
}

// DispenserSnapshot is the literal per-dispenser record of a Snapshot.
type DispenserSnapshot struct {
	ID        string
	Position  position.Position
	BlockType string
}

// TaskSnapshot is the literal per-task record of a Snapshot; completed tasks
// are omitted by Snapshot itself (§6).
type TaskSnapshot struct {
	Name         string
	DeadlineStep int
	Reward       int
	Requirements map[position.Position]string
}

// Snapshot is the full-state record the external serializer renders (§6).
type Snapshot struct {
	Step       int
	Entities   []EntitySnapshot
	Blocks     []BlockSnapshot
	Dispensers []DispenserSnapshot
	Tasks      []TaskSnapshot
}

// Snapshot builds the current full-state record. Completed tasks are
// omitted; expired-but-not-completed tasks are included (§9 open question).
func (gs *GameState) Snapshot() Snapshot {
	entities := gs.store.AllEntities()
	es := make([]EntitySnapshot, len(entities))
	for i, e := range entities {
		es[i] = EntitySnapshot{
			ID: string(e.ID()), AgentName: e.AgentName, TeamName: e.TeamName,
			Position: e.Position(), Energy: e.Energy, DisabledForSteps: e.DisabledForSteps,
			Vision: e.Vision, LastAction: e.LastAction, LastActionParams: e.LastActionParams,
			LastActionResult: e.LastActionResult,
		}
	}

	blocks := gs.store.AllBlocks()
	bs := make([]BlockSnapshot, len(blocks))
	for i, b := range blocks {
		bs[i] = BlockSnapshot{ID: string(b.ID()), Position: b.Position(), BlockType: b.BlockType}
	}

	dispensers := gs.store.AllDispensers()
	ds := make([]DispenserSnapshot, len(dispensers))
	for i, d := range dispensers {
		ds[i] = DispenserSnapshot{ID: string(d.ID()), Position: d.Position(), BlockType: d.BlockType}
	}

	var ts []TaskSnapshot
	for _, t := range gs.tasks.All() {
		if t.Completed {
			continue
		}
		ts = append(ts, TaskSnapshot{Name: t.Name, DeadlineStep: t.DeadlineStep, Reward: t.Reward, Requirements: t.Requirements})
	}

	return Snapshot{Step: gs.step, Entities: es, Blocks: bs, Dispensers: ds, Tasks: ts}
}

// InitialPercept is the one-time per-agent record sent at match start (§6).
type InitialPercept struct {
	Agent      string
	Team       string
	TotalSteps int
	Vision     int
}

// InitialPercepts returns one InitialPercept per entity, agent-name ordered.
func (gs *GameState) InitialPercepts() []InitialPercept {
	entities := gs.store.AllEntities()
	out := make([]InitialPercept, len(entities))
	for i, e := range entities {
		out[i] = InitialPercept{Agent: e.AgentName, Team: e.TeamName, TotalSteps: gs.cfg.TotalSteps, Vision: e.Vision}
	}
	return out
}

// FinalPercept is the per-team end-of-match record (§6): rank is 1-based,
// higher score first, ties broken by team insertion order.
type FinalPercept struct {
	Team  string
	Score int
	Rank  int
}

// FinalPercepts ranks every team by score, descending, ties by insertion
// order.
func (gs *GameState) FinalPercepts() []FinalPercept {
	type entry struct {
		team  string
		score int
		idx   int
	}
	entries := make([]entry, 0, len(gs.teamOrder))
	for idx, name := range gs.teamOrder {
		entries = append(entries, entry{team: name, score: gs.teams[name].Score, idx: idx})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		return entries[i].idx < entries[j].idx
	})

	out := make([]FinalPercept, len(entries))
	for i, en := range entries {
		out[i] = FinalPercept{Team: en.team, Score: en.score, Rank: i + 1}
	}
	return out
}

// Result returns the team -> score map of §6.
func (gs *GameState) Result() map[string]int {
	out := make(map[string]int, len(gs.teamOrder))
	for _, name := range gs.teamOrder {
		out[name] = gs.teams[name].Score
	}
	return out
}
