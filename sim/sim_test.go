package sim

import (
	"testing"

	"github.com/massim-go/engine/grid"
	"github.com/massim-go/engine/position"
	"github.com/massim-go/engine/thing"
)

func newTestState(t *testing.T, setup []string) *GameState {
	t.Helper()
	cfg := Config{
		Grid:  GridConfig{Width: 20, Height: 20},
		Teams: []TeamConfig{{Name: "red", Agents: []string{"a1"}}, {Name: "blue", Agents: []string{"a2"}}},
		Setup: setup,
	}
	return NewGameState(cfg)
}

func blockAt(t *testing.T, gs *GameState, p position.Position) *thing.Block {
	t.Helper()
	at, ok := gs.store.UniqueAttachableAt(p)
	if !ok {
		t.Fatalf("expected a unique attachable at %v", p)
	}
	b, ok := at.(*thing.Block)
	if !ok {
		t.Fatalf("expected a block at %v", p)
	}
	return b
}

// Scenario 1 (§8): request + attach.
func TestScenarioRequestThenAttach(t *testing.T) {
	gs := newTestState(t, []string{"add 3 3 dispenser b0", "move 2 3 a1", "move 19 19 a2"})
	a1 := gs.entitiesByAgent["a1"]

	res := gs.DispatchActions([]Action{{Agent: "a1", Kind: ActionRequest, Direction: position.East}})
	if res["a1"] != Success {
		t.Fatalf("expected request to succeed, got %v", res["a1"])
	}
	b := blockAt(t, gs, position.Position{X: 3, Y: 3})
	if b.BlockType != "b0" {
		t.Fatalf("expected block type b0, got %s", b.BlockType)
	}

	res = gs.DispatchActions([]Action{{Agent: "a1", Kind: ActionAttach, Direction: position.East}})
	if res["a1"] != Success {
		t.Fatalf("expected attach to succeed, got %v", res["a1"])
	}
	if group := gs.graph.CollectGroup(a1.ID()); len(group) != 2 {
		t.Fatalf("expected group size 2, got %d", len(group))
	}
}

// Scenario 2 (§8): move rigid pair.
func TestScenarioMoveRigidPair(t *testing.T) {
	gs := newTestState(t, []string{
		"move 2 3 a1", "move 19 19 a2",
		"add 3 3 block b0", "attach 2 3 3 3",
	})
	a1 := gs.entitiesByAgent["a1"]

	res := gs.DispatchActions([]Action{{Agent: "a1", Kind: ActionMove, Direction: position.South}})
	if res["a1"] != Success {
		t.Fatalf("expected move to succeed, got %v", res["a1"])
	}
	if a1.Position() != (position.Position{X: 2, Y: 4}) {
		t.Fatalf("expected entity at (2,4), got %v", a1.Position())
	}
	blockAt(t, gs, position.Position{X: 3, Y: 4})
}

// Scenario 3 (§8): rotate.
func TestScenarioRotate(t *testing.T) {
	gs := newTestState(t, []string{
		"move 5 5 a1", "move 19 19 a2",
		"add 5 4 block b0", "attach 5 5 5 4",
	})

	res := gs.DispatchActions([]Action{{Agent: "a1", Kind: ActionRotate, Clockwise: true}})
	if res["a1"] != Success {
		t.Fatalf("expected rotate to succeed, got %v", res["a1"])
	}
	blockAt(t, gs, position.Position{X: 6, Y: 5})
}

// Scenario 4 (§8): submit.
func TestScenarioSubmit(t *testing.T) {
	cfg := Config{
		Grid: GridConfig{Width: 20, Height: 20, TerrainProvider: func(x, y int) grid.Terrain {
			if x == 7 && y == 7 {
				return grid.Goal
			}
			return grid.Empty
		}},
		Teams: []TeamConfig{{Name: "red", Agents: []string{"a1"}}},
		Setup: []string{
			"move 7 7 a1",
			"add 7 8 block b0", "add 8 8 block b1",
			"attach 7 7 7 8", "attach 7 7 8 8",
			"create task t0 50 0,1,b0;1,1,b1",
		},
	}
	gs := NewGameState(cfg)

	res := gs.DispatchActions([]Action{{Agent: "a1", Kind: ActionSubmit, TaskName: "t0"}})
	if res["a1"] != Success {
		t.Fatalf("expected submit to succeed, got %v", res["a1"])
	}
	if score := gs.teamScore("red"); score != 2 {
		t.Fatalf("expected score 2, got %d", score)
	}
	if _, ok := gs.tasks.ByName("t0"); !ok {
		t.Fatalf("expected task to remain registered")
	}
	if t0, _ := gs.tasks.ByName("t0"); !t0.Completed {
		t.Fatalf("expected task completed")
	}
	if _, ok := gs.store.UniqueAttachableAt(position.Position{X: 7, Y: 8}); ok {
		t.Fatalf("expected submitted block removed")
	}

	res = gs.DispatchActions([]Action{{Agent: "a1", Kind: ActionSubmit, TaskName: "t0"}})
	if res["a1"] != FailedTarget {
		t.Fatalf("expected resubmit to fail_target, got %v", res["a1"])
	}
}

// Scenario 5 (§8): clear event area clearing and disable.
func TestScenarioClearAreaDisablesAndRemoves(t *testing.T) {
	gs := newTestState(t, []string{"move 10 10 a1", "move 19 19 a2", "add 10 11 block b0"})
	gs.Grid.SetTerrain(position.Position{X: 11, Y: 10}, grid.Obstacle)
	b0 := blockAt(t, gs, position.Position{X: 10, Y: 11})

	removed := gs.clearArea(position.Position{X: 10, Y: 10}, 1)
	if removed != 2 {
		t.Fatalf("expected 2 removed (1 block + 1 obstacle), got %d", removed)
	}

	a1 := gs.entitiesByAgent["a1"]
	if !a1.Disabled() {
		t.Fatalf("expected a1 disabled")
	}
	if gs.Grid.TerrainAt(position.Position{X: 11, Y: 10}) != grid.Empty {
		t.Fatalf("expected obstacle cleared to empty")
	}
	if _, ok := gs.store.ByID(b0.ID()); ok {
		t.Fatalf("expected block removed from arena")
	}

	// I6: idempotent once the area is already empty and block-free.
	if removedAgain := gs.clearArea(position.Position{X: 10, Y: 10}, 1); removedAgain != 0 {
		t.Fatalf("expected second clear to remove nothing, got %d", removedAgain)
	}
}

func TestScenarioClearEventFireDequeues(t *testing.T) {
	gs := newTestState(t, []string{"move 0 0 a1", "move 19 19 a2"})
	ev := gs.events.Enqueue(position.Position{X: 10, Y: 10}, gs.step+1, 2)

	gs.fireClearEvent(ev)
	if len(gs.events.Pending()) != 0 {
		t.Fatalf("expected event dequeued after firing")
	}
}

// Scenario 6 (§8): attach limit.
func TestScenarioAttachLimitRejectsOversizedGroup(t *testing.T) {
	cfg := Config{
		Grid:        GridConfig{Width: 20, Height: 20},
		AttachLimit: 3,
		Teams:       []TeamConfig{{Name: "red", Agents: []string{"a1"}}},
		Setup: []string{
			"move 5 5 a1",
			"add 5 4 block b0", "add 5 6 block b1",
			"attach 5 5 5 4", "attach 5 5 5 6",
			"add 4 5 block b2",
		},
	}
	gs := NewGameState(cfg)
	a1 := gs.entitiesByAgent["a1"]
	if group := gs.graph.CollectGroup(a1.ID()); len(group) != 3 {
		t.Fatalf("expected pre-existing group of 3, got %d", len(group))
	}

	res := gs.DispatchActions([]Action{{Agent: "a1", Kind: ActionAttach, Direction: position.West}})
	if res["a1"] != Failed {
		t.Fatalf("expected attach over limit to fail, got %v", res["a1"])
	}
}

// I7: identical seed + identical action sequence yields identical snapshots.
func TestDeterministicReplayFingerprint(t *testing.T) {
	cfg := Config{
		Seed:  42,
		Grid:  GridConfig{Width: 10, Height: 10},
		Teams: []TeamConfig{{Name: "red", Agents: []string{"a1", "a2"}}},
	}
	gs1 := NewGameState(cfg)
	gs2 := NewGameState(cfg)

	for i := 0; i < 5; i++ {
		gs1.PrepareStep()
		gs2.PrepareStep()
		gs1.DispatchActions([]Action{{Agent: "a1", Kind: ActionMove, Direction: position.North}})
		gs2.DispatchActions([]Action{{Agent: "a1", Kind: ActionMove, Direction: position.North}})
		if gs1.Snapshot().Fingerprint() != gs2.Snapshot().Fingerprint() {
			t.Fatalf("fingerprints diverged at step %d", i)
		}
	}
}
