package attach

import (
	"reflect"
	"testing"

	"github.com/massim-go/engine/thing"
)

func TestAttachDetachRoundTrip(t *testing.T) {
	g := New()
	a, b := thing.ID("entity1"), thing.ID("block1")
	g.Attach(a, b)
	if !g.Attached(a, b) || !g.Attached(b, a) {
		t.Fatalf("expected symmetric edge after Attach")
	}
	g.Detach(a, b)
	if g.Attached(a, b) || g.Attached(b, a) {
		t.Fatalf("expected edge gone after Detach")
	}
	if got := g.CollectGroup(a); !reflect.DeepEqual(got, []thing.ID{a}) {
		t.Fatalf("expected group assignment restored to singleton, got %v", got)
	}
}

func TestCollectGroupConnectedComponent(t *testing.T) {
	g := New()
	a, b, c, d := thing.ID("entity1"), thing.ID("block1"), thing.ID("block2"), thing.ID("entity2")
	g.Attach(a, b)
	g.Attach(b, c)
	got := g.CollectGroup(a)
	want := []thing.ID{a, b, c}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := g.CollectGroup(d); !reflect.DeepEqual(got, []thing.ID{d}) {
		t.Fatalf("expected isolated entity group of 1, got %v", got)
	}
}

func TestRemoveThingDropsAllEdges(t *testing.T) {
	g := New()
	a, b, c := thing.ID("entity1"), thing.ID("block1"), thing.ID("block2")
	g.Attach(a, b)
	g.Attach(a, c)
	g.RemoveThing(a)
	if g.Attached(a, b) || g.Attached(a, c) {
		t.Fatalf("expected all edges touching a removed")
	}
	if got := g.CollectGroup(b); !reflect.DeepEqual(got, []thing.ID{b}) {
		t.Fatalf("expected b isolated, got %v", got)
	}
}
