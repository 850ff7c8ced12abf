// Package clearevent implements the clear-event queue of §4.8: scheduled
// area clears with a warning period, grounded on the teacher's
// world/redstone event-id-indirection pattern (NodeID referencing a graph
// node rather than comparing values).
package clearevent

import (
	"sort"

	"github.com/google/uuid"

	"github.com/massim-go/engine/position"
)

// Event is a scheduled area clear.
type Event struct {
	ID       string
	Center   position.Position
	FireStep int
	Radius   int
}

// Scheduler owns every pending ClearEvent.
type Scheduler struct {
	pending map[string]*Event
}

// NewScheduler returns an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{pending: make(map[string]*Event)}
}

// Enqueue schedules a new clear event and returns it.
func (s *Scheduler) Enqueue(center position.Position, fireStep, radius int) *Event {
	ev := &Event{ID: uuid.NewString(), Center: center, FireStep: fireStep, Radius: radius}
	s.pending[ev.ID] = ev
	return ev
}

// Remove dequeues an event, e.g. after it has fired.
func (s *Scheduler) Remove(id string) {
	delete(s.pending, id)
}

// Pending returns every pending event, ordered deterministically by fire
// step then id so firing and marker-painting order is reproducible (§5, I7).
func (s *Scheduler) Pending() []*Event {
	out := make([]*Event, 0, len(s.pending))
	for _, ev := range s.pending {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FireStep != out[j].FireStep {
			return out[i].FireStep < out[j].FireStep
		}
		return out[i].ID < out[j].ID
	})
	return out
}
