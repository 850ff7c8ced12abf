package position

import "testing"

func TestChebyshevDistance(t *testing.T) {
	a := Position{0, 0}
	b := Position{3, -5}
	if d := a.ChebyshevDistance(b); d != 5 {
		t.Fatalf("expected 5, got %d", d)
	}
}

func TestAreaDeterministicOrderAndDiamondShape(t *testing.T) {
	got := Area(Position{10, 10}, 1)
	want := []Position{
		{9, 10}, {10, 9}, {10, 10}, {10, 11}, {11, 10},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d cells, got %d: %v", len(want), len(got), got)
	}
	for i, p := range want {
		if got[i] != p {
			t.Fatalf("index %d: expected %v, got %v (full: %v)", i, p, got[i], got)
		}
	}
}

func TestAreaRadiusZero(t *testing.T) {
	got := Area(Position{1, 1}, 0)
	if len(got) != 1 || got[0] != (Position{1, 1}) {
		t.Fatalf("expected single center cell, got %v", got)
	}
}

func TestRotateFourTimesIsIdentity(t *testing.T) {
	v := Position{3, -2}
	cur := v
	for i := 0; i < 4; i++ {
		cur = RotateCW(cur)
	}
	if cur != v {
		t.Fatalf("expected identity after 4 cw rotations, got %v", cur)
	}
	if got := RotateCCW(RotateCW(v)); got != v {
		t.Fatalf("expected cw then ccw to be identity, got %v", got)
	}
}

func TestLocalGlobalRoundTrip(t *testing.T) {
	anchor := Position{5, 7}
	p := Position{2, 9}
	if got := p.Local(anchor).Global(anchor); got != p {
		t.Fatalf("expected round trip to %v, got %v", p, got)
	}
}

func TestParseDirection(t *testing.T) {
	for _, s := range []string{"n", "s", "e", "w"} {
		d, ok := ParseDirection(s)
		if !ok {
			t.Fatalf("expected %q to parse", s)
		}
		if d.String() != s {
			t.Fatalf("expected round trip for %q, got %q", s, d.String())
		}
	}
	if _, ok := ParseDirection("up"); ok {
		t.Fatalf("expected invalid direction to fail")
	}
}
