package clearevent

import (
	"testing"

	"github.com/massim-go/engine/position"
)

func TestPendingOrderedByFireStepThenID(t *testing.T) {
	s := NewScheduler()
	s.Enqueue(position.Position{}, 5, 1)
	s.Enqueue(position.Position{}, 2, 1)
	s.Enqueue(position.Position{}, 2, 2)

	pending := s.Pending()
	if len(pending) != 3 {
		t.Fatalf("expected 3 pending events, got %d", len(pending))
	}
	if pending[0].FireStep != 2 || pending[1].FireStep != 2 || pending[2].FireStep != 5 {
		t.Fatalf("expected fire steps sorted ascending, got %+v", pending)
	}
	if pending[0].ID >= pending[1].ID {
		t.Fatalf("expected tie-break by id ascending")
	}
}

func TestRemoveDequeues(t *testing.T) {
	s := NewScheduler()
	ev := s.Enqueue(position.Position{}, 1, 1)
	s.Remove(ev.ID)
	if len(s.Pending()) != 0 {
		t.Fatalf("expected event removed")
	}
}
