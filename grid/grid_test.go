package grid

import (
	"math/rand"
	"testing"

	"github.com/massim-go/engine/position"
)

func TestOutOfBoundsReadsAndWrites(t *testing.T) {
	g := New(4, 4, nil)
	p := position.Position{X: 10, Y: 10}
	if g.TerrainAt(p) != Empty {
		t.Fatalf("expected out-of-bounds read to return Empty")
	}
	g.SetTerrain(p, Obstacle)
	if g.TerrainAt(p) != Empty {
		t.Fatalf("expected out-of-bounds write to be dropped")
	}
}

func TestIsUnblockedTracksObstaclesAndOccupants(t *testing.T) {
	g := New(4, 4, nil)
	p := position.Position{X: 1, Y: 1}
	if !g.IsUnblocked(p) {
		t.Fatalf("expected empty cell to be unblocked")
	}
	g.SetTerrain(p, Obstacle)
	if g.IsUnblocked(p) {
		t.Fatalf("expected obstacle cell to block")
	}
	g.SetTerrain(p, Empty)
	g.IncOccupant(p)
	if g.IsUnblocked(p) {
		t.Fatalf("expected occupied cell to block")
	}
	g.DecOccupant(p)
	if !g.IsUnblocked(p) {
		t.Fatalf("expected cell to be unblocked again after DecOccupant")
	}
}

func TestMarkersClearedEachTick(t *testing.T) {
	g := New(4, 4, nil)
	p := position.Position{X: 0, Y: 0}
	g.CreateMarker(p, MarkerClear)
	if _, ok := g.MarkerAt(p); !ok {
		t.Fatalf("expected marker to be present")
	}
	g.ClearMarkers()
	if _, ok := g.MarkerAt(p); ok {
		t.Fatalf("expected marker to be cleared")
	}
}

func TestRandomFreePositionIsUnblocked(t *testing.T) {
	g := New(3, 3, nil)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		p := g.RandomFreePosition(rng)
		if !g.IsUnblocked(p) {
			t.Fatalf("expected %v to be unblocked", p)
		}
	}
}

func TestAreaMemoizationReturnsConsistentResults(t *testing.T) {
	g := New(20, 20, nil)
	center := position.Position{X: 10, Y: 10}
	a := g.Area(center, 2)
	b := g.Area(center, 2)
	if len(a) != len(b) {
		t.Fatalf("expected memoized area to match")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected memoized area cell %d to match", i)
		}
	}
}
