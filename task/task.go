// Package task implements the task registry of §4.6: block-pattern
// requirement generation (random-walk and custom), deadline expiry and
// completion accounting.
package task

import (
	"fmt"
	"math/rand"

	"golang.org/x/exp/maps"

	"github.com/massim-go/engine/position"
)

// Task is a named block-pattern requirement with a deadline and reward.
type Task struct {
	Name         string
	DeadlineStep int
	Reward       int
	Completed    bool
	// Requirements maps an offset relative to the submitting entity to the
	// block type required there.
	Requirements map[position.Position]string
}

// Registry owns every Task ever created, by name, in creation order.
type Registry struct {
	byName map[string]*Task
	order  []string
}

// NewRegistry returns an empty task registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Task)}
}

// Count returns the number of tasks ever created (used to name the next
// auto-generated task).
func (r *Registry) Count() int { return len(r.order) }

// walkDelta samples one of the three random-walk steps per §3: u<=0.3 left,
// u<=0.6 right, else down.
func walkDelta(u float64) position.Position {
	switch {
	case u <= 0.3:
		return position.Position{X: -1, Y: 0}
	case u <= 0.6:
		return position.Position{X: 1, Y: 0}
	default:
		return position.Position{X: 0, Y: 1}
	}
}

// CreateRandom generates a fresh "task<N>" with a random-walk requirement
// pattern seeded at (0,1) -- the seed itself is the first requirement offset,
// with size-1 further steps walked from there -- duration and size drawn
// uniformly from the given ranges, and block types drawn uniformly from
// [blockTypeMin, blockTypeMax]. Returns nil if size < 1.
func (r *Registry) CreateRandom(step int, rng *rand.Rand, durationMin, durationMax, sizeMin, sizeMax, blockTypeMin, blockTypeMax int) *Task {
	size := sizeMin
	if sizeMax > sizeMin {
		size = sizeMin + rng.Intn(sizeMax-sizeMin+1)
	}
	if size < 1 {
		return nil
	}
	duration := durationMin
	if durationMax > durationMin {
		duration = durationMin + rng.Intn(durationMax-durationMin+1)
	}

	reqs := make(map[position.Position]string, size)
	p := position.Position{X: 0, Y: 1}
	reqs[p] = randomBlockType(rng, blockTypeMin, blockTypeMax)
	for i := 1; i < size; i++ {
		p = p.Add(walkDelta(rng.Float64()))
		reqs[p] = randomBlockType(rng, blockTypeMin, blockTypeMax)
	}

	name := fmt.Sprintf("task%d", r.Count())
	t := &Task{
		Name:         name,
		DeadlineStep: step + duration,
		Reward:       len(reqs),
		Requirements: reqs,
	}
	r.add(t)
	return t
}

func randomBlockType(rng *rand.Rand, min, max int) string {
	idx := min
	if max > min {
		idx = min + rng.Intn(max-min+1)
	}
	return fmt.Sprintf("b%d", idx)
}

// CreateCustom registers a task with an explicit requirement pattern,
// rejecting empty requirement sets.
func (r *Registry) CreateCustom(name string, step, duration int, reqs map[position.Position]string) *Task {
	if len(reqs) == 0 {
		return nil
	}
	t := &Task{
		Name:         name,
		DeadlineStep: step + duration,
		Reward:       len(reqs),
		Requirements: reqs,
	}
	r.add(t)
	return t
}

func (r *Registry) add(t *Task) {
	r.byName[t.Name] = t
	r.order = append(r.order, t.Name)
}

// ByName looks up a task by name.
func (r *Registry) ByName(name string) (*Task, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Complete marks a task completed; a no-op if it doesn't exist or is
// already completed.
func (r *Registry) Complete(name string) {
	if t, ok := r.byName[name]; ok {
		t.Completed = true
	}
}

// Open returns every task that is neither completed nor expired
// (deadline_step < step), in creation order. Expired, non-completed tasks
// are never pruned (§9 Open Question: memory grows unboundedly across a
// long match, by design of the source behavior).
func (r *Registry) Open(step int) []*Task {
	out := make([]*Task, 0, len(r.order))
	for _, name := range r.order {
		t := r.byName[name]
		if t.Completed || t.DeadlineStep < step {
			continue
		}
		out = append(out, t)
	}
	return out
}

// All returns every task ever created, in creation order. Used by the
// snapshot builder, which additionally filters out completed tasks.
func (r *Registry) All() []*Task {
	out := make([]*Task, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// SortedOffsets returns the task's requirement offsets sorted for
// deterministic iteration (used by submit's validation).
func SortedOffsets(t *Task) []position.Position {
	offsets := maps.Keys(t.Requirements)
	sortPositions(offsets)
	return offsets
}

func sortPositions(ps []position.Position) {
	for i := 1; i < len(ps); i++ {
		j := i
		for j > 0 && less(ps[j], ps[j-1]) {
			ps[j-1], ps[j] = ps[j], ps[j-1]
			j--
		}
	}
}

func less(a, b position.Position) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}
