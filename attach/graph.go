// Package attach implements the undirected attachment graph of §4.3: an
// arena-plus-id adjacency model (no back-pointers, per the design note in
// §9) whose connected components are the rigid groups that move and rotate
// together.
package attach

import (
	"sort"

	"github.com/massim-go/engine/thing"
)

// Graph is the attachment graph over Attachable ids.
type Graph struct {
	adjacency map[thing.ID]map[thing.ID]struct{}
}

// New returns an empty attachment graph.
func New() *Graph {
	return &Graph{adjacency: make(map[thing.ID]map[thing.ID]struct{})}
}

// Attach inserts the undirected edge a-b.
func (g *Graph) Attach(a, b thing.ID) {
	g.ensure(a)[b] = struct{}{}
	g.ensure(b)[a] = struct{}{}
}

// Detach removes the undirected edge a-b, if it exists.
func (g *Graph) Detach(a, b thing.ID) {
	if set, ok := g.adjacency[a]; ok {
		delete(set, b)
	}
	if set, ok := g.adjacency[b]; ok {
		delete(set, a)
	}
}

// Attached reports whether the edge a-b exists.
func (g *Graph) Attached(a, b thing.ID) bool {
	set, ok := g.adjacency[a]
	if !ok {
		return false
	}
	_, ok = set[b]
	return ok
}

func (g *Graph) ensure(id thing.ID) map[thing.ID]struct{} {
	set, ok := g.adjacency[id]
	if !ok {
		set = make(map[thing.ID]struct{})
		g.adjacency[id] = set
	}
	return set
}

// RemoveThing drops every edge referencing id, used when a Block is
// destroyed (clear/submit) or an Entity is disabled.
func (g *Graph) RemoveThing(id thing.ID) {
	for other := range g.adjacency[id] {
		if set, ok := g.adjacency[other]; ok {
			delete(set, id)
		}
	}
	delete(g.adjacency, id)
}

// CollectGroup returns the connected component containing a (including a
// itself) via BFS, in deterministic id-sorted visitation order so that
// replays with the same action sequence produce identical group orderings
// (§8 I7).
func (g *Graph) CollectGroup(a thing.ID) []thing.ID {
	visited := map[thing.ID]struct{}{a: {}}
	queue := []thing.ID{a}
	order := []thing.ID{a}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		neighbours := make([]thing.ID, 0, len(g.adjacency[cur]))
		for n := range g.adjacency[cur] {
			neighbours = append(neighbours, n)
		}
		sort.Slice(neighbours, func(i, j int) bool { return neighbours[i] < neighbours[j] })
		for _, n := range neighbours {
			if _, ok := visited[n]; ok {
				continue
			}
			visited[n] = struct{}{}
			order = append(order, n)
			queue = append(queue, n)
		}
	}
	return order
}

// Neighbours returns the direct neighbours of a, sorted.
func (g *Graph) Neighbours(a thing.ID) []thing.ID {
	set := g.adjacency[a]
	out := make([]thing.ID, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
