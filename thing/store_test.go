package thing

import (
	"testing"

	"github.com/massim-go/engine/grid"
	"github.com/massim-go/engine/position"
)

func newTestStore(t *testing.T) (*Store, *grid.Grid) {
	t.Helper()
	g := grid.New(5, 5, nil)
	return NewStore(g), g
}

func TestRegisterIDsAreStableAndMonotonic(t *testing.T) {
	s, _ := newTestStore(t)
	e1 := s.NewEntity(position.Position{X: 0, Y: 0}, "a1", "red", 3, 10)
	e2 := s.NewEntity(position.Position{X: 1, Y: 1}, "a2", "red", 3, 10)
	if e1.ID() != "entity1" || e2.ID() != "entity2" {
		t.Fatalf("expected entity1/entity2, got %s/%s", e1.ID(), e2.ID())
	}
	b1 := s.NewBlock(position.Position{X: 2, Y: 2}, "b0")
	if b1.ID() != "block1" {
		t.Fatalf("expected block1, got %s", b1.ID())
	}
}

func TestUniqueAttachableAt(t *testing.T) {
	s, _ := newTestStore(t)
	p := position.Position{X: 2, Y: 2}
	if _, ok := s.UniqueAttachableAt(p); ok {
		t.Fatalf("expected no attachable on empty cell")
	}
	b := s.NewBlock(p, "b0")
	at, ok := s.UniqueAttachableAt(p)
	if !ok || at.ID() != b.ID() {
		t.Fatalf("expected unique attachable to be the block")
	}
	s.NewBlock(p, "b0")
	if _, ok := s.UniqueAttachableAt(p); ok {
		t.Fatalf("expected no unique attachable once 2 blocks share a cell")
	}
}

func TestDispenserDoesNotBlockAndCoexists(t *testing.T) {
	s, g := newTestStore(t)
	p := position.Position{X: 1, Y: 1}
	s.NewDispenser(p, "b0")
	if !g.IsUnblocked(p) {
		t.Fatalf("expected dispenser to not block")
	}
	s.NewBlock(p, "b0")
	if g.IsUnblocked(p) {
		t.Fatalf("expected block to make cell blocked even with a coexisting dispenser")
	}
}

func TestRemoveClearsSpatialIndexAndOccupancy(t *testing.T) {
	s, g := newTestStore(t)
	p := position.Position{X: 1, Y: 1}
	b := s.NewBlock(p, "b0")
	s.Remove(b.ID())
	if _, ok := s.ByID(b.ID()); ok {
		t.Fatalf("expected block removed from arena")
	}
	if len(s.ThingsAt(p)) != 0 {
		t.Fatalf("expected spatial index cleared")
	}
	if !g.IsUnblocked(p) {
		t.Fatalf("expected cell unblocked after removal")
	}
}

func TestBeginMoveCommitMoveRelocatesGroup(t *testing.T) {
	s, g := newTestStore(t)
	e := s.NewEntity(position.Position{X: 0, Y: 0}, "a1", "red", 3, 10)
	b := s.NewBlock(position.Position{X: 1, Y: 0}, "b0")

	ids := []ID{e.ID(), b.ID()}
	s.BeginMove(ids)
	if g.IsUnblocked(position.Position{X: 0, Y: 0}) == false {
		t.Fatalf("expected origin cells freed during BeginMove")
	}
	s.CommitMove(map[ID]position.Position{
		e.ID(): {X: 0, Y: 1},
		b.ID(): {X: 1, Y: 1},
	})
	if e.Position() != (position.Position{X: 0, Y: 1}) {
		t.Fatalf("expected entity relocated")
	}
	if !g.IsUnblocked(position.Position{X: 0, Y: 0}) {
		t.Fatalf("expected old entity cell unblocked")
	}
	if g.IsUnblocked(position.Position{X: 0, Y: 1}) {
		t.Fatalf("expected new entity cell blocked")
	}
}
