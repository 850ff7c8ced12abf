package thing

import (
	"fmt"
	"sort"

	"github.com/massim-go/engine/grid"
	"github.com/massim-go/engine/position"
)

// Store is the arena of things, keyed by stable id, with a spatial index
// from position to the set of things occupying that cell (§4.3). It keeps
// the backing grid's occupancy fast-path (grid.Grid.IncOccupant/DecOccupant)
// in sync with every mutation so grid.IsUnblocked stays O(1).
type Store struct {
	g        *grid.Grid
	things   map[ID]Thing
	counters map[Kind]int
	spatial  map[position.Position]map[ID]struct{}
}

// NewStore creates an empty arena backed by g.
func NewStore(g *grid.Grid) *Store {
	return &Store{
		g:        g,
		things:   make(map[ID]Thing),
		counters: make(map[Kind]int),
		spatial:  make(map[position.Position]map[ID]struct{}),
	}
}

func (s *Store) nextID(k Kind) ID {
	s.counters[k]++
	return ID(fmt.Sprintf("%s%d", k, s.counters[k]))
}

// NewEntity registers and returns a new Entity at pos.
func (s *Store) NewEntity(pos position.Position, agent, team string, vision, energy int) *Entity {
	e := &Entity{id: s.nextID(KindEntity), pos: pos, AgentName: agent, TeamName: team, Vision: vision, Energy: energy}
	s.insert(e)
	return e
}

// NewBlock registers and returns a new Block at pos.
func (s *Store) NewBlock(pos position.Position, blockType string) *Block {
	b := &Block{id: s.nextID(KindBlock), pos: pos, BlockType: blockType}
	s.insert(b)
	return b
}

// NewDispenser registers and returns a new Dispenser at pos.
func (s *Store) NewDispenser(pos position.Position, blockType string) *Dispenser {
	d := &Dispenser{id: s.nextID(KindDispenser), pos: pos, BlockType: blockType}
	s.insert(d)
	return d
}

func (s *Store) insert(t Thing) {
	s.things[t.ID()] = t
	s.indexAt(t.Position(), t.ID())
	if t.Blocks() {
		s.g.IncOccupant(t.Position())
	}
}

func (s *Store) indexAt(p position.Position, id ID) {
	set, ok := s.spatial[p]
	if !ok {
		set = make(map[ID]struct{})
		s.spatial[p] = set
	}
	set[id] = struct{}{}
}

func (s *Store) unindexAt(p position.Position, id ID) {
	set, ok := s.spatial[p]
	if !ok {
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(s.spatial, p)
	}
}

// Remove deletes a thing from the arena and spatial index.
func (s *Store) Remove(id ID) {
	t, ok := s.things[id]
	if !ok {
		return
	}
	s.unindexAt(t.Position(), id)
	if t.Blocks() {
		s.g.DecOccupant(t.Position())
	}
	delete(s.things, id)
}

// ByID looks up a thing by id.
func (s *Store) ByID(id ID) (Thing, bool) {
	t, ok := s.things[id]
	return t, ok
}

// Entity looks up an Entity by id, failing if id names a different kind.
func (s *Store) Entity(id ID) (*Entity, bool) {
	t, ok := s.things[id]
	if !ok {
		return nil, false
	}
	e, ok := t.(*Entity)
	return e, ok
}

// ThingsAt returns every thing at p in deterministic (id-sorted) order.
func (s *Store) ThingsAt(p position.Position) []Thing {
	set, ok := s.spatial[p]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)
	out := make([]Thing, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.things[ID(id)])
	}
	return out
}

// AttachablesAt returns every Attachable at p, deterministically ordered.
func (s *Store) AttachablesAt(p position.Position) []Attachable {
	things := s.ThingsAt(p)
	out := make([]Attachable, 0, len(things))
	for _, t := range things {
		if a, ok := t.(Attachable); ok {
			out = append(out, a)
		}
	}
	return out
}

// UniqueAttachableAt returns the sole Attachable at p, or ok=false if there
// are zero or more than one.
func (s *Store) UniqueAttachableAt(p position.Position) (Attachable, bool) {
	as := s.AttachablesAt(p)
	if len(as) != 1 {
		return nil, false
	}
	return as[0], true
}

// DispenserAt returns the Dispenser at p, if any.
func (s *Store) DispenserAt(p position.Position) (*Dispenser, bool) {
	for _, t := range s.ThingsAt(p) {
		if d, ok := t.(*Dispenser); ok {
			return d, true
		}
	}
	return nil, false
}

// SetPosition relocates a single thing outside of a batched rigid-body move
// (used by teleport-style operations: moveWithoutAttachments, disable's
// random re-placement, the setup DSL's move command).
func (s *Store) SetPosition(id ID, p position.Position) {
	t, ok := s.things[id]
	if !ok {
		return
	}
	old := t.Position()
	if old == p {
		return
	}
	s.unindexAt(old, id)
	if t.Blocks() {
		s.g.DecOccupant(old)
	}
	switch v := t.(type) {
	case *Entity:
		v.pos = p
	case *Block:
		v.pos = p
	case *Dispenser:
		v.pos = p
	}
	s.indexAt(p, id)
	if t.Blocks() {
		s.g.IncOccupant(p)
	}
}

// BeginMove removes every id in ids from the spatial index and occupancy
// counters without yet assigning new positions. CommitMove must be called
// with the full set of new positions to complete the two-phase rigid-body
// commit (§4.4, §5): validation must never observe an in-flight move, so
// callers validate against a snapshot of intended positions before calling
// either of these.
func (s *Store) BeginMove(ids []ID) {
	for _, id := range ids {
		t, ok := s.things[id]
		if !ok {
			continue
		}
		s.unindexAt(t.Position(), id)
		if t.Blocks() {
			s.g.DecOccupant(t.Position())
		}
	}
}

// CommitMove assigns new positions (as computed by the caller) and
// reinserts every thing into the spatial index, completing a BeginMove.
func (s *Store) CommitMove(newPositions map[ID]position.Position) {
	for id, p := range newPositions {
		t, ok := s.things[id]
		if !ok {
			continue
		}
		switch v := t.(type) {
		case *Entity:
			v.pos = p
		case *Block:
			v.pos = p
		case *Dispenser:
			v.pos = p
		}
		s.indexAt(p, id)
		if t.Blocks() {
			s.g.IncOccupant(p)
		}
	}
}

// AllEntities returns every Entity in the arena, sorted by agent name for
// deterministic iteration (§4.7 step 4, §5 dispatch order).
func (s *Store) AllEntities() []*Entity {
	out := make([]*Entity, 0, s.counters[KindEntity])
	for _, t := range s.things {
		if e, ok := t.(*Entity); ok {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AgentName < out[j].AgentName })
	return out
}

// AllBlocks returns every Block in the arena, sorted by id for deterministic
// snapshotting.
func (s *Store) AllBlocks() []*Block {
	out := make([]*Block, 0, s.counters[KindBlock])
	for _, t := range s.things {
		if b, ok := t.(*Block); ok {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// AllDispensers returns every Dispenser in the arena, sorted by id for
// deterministic snapshotting.
func (s *Store) AllDispensers() []*Dispenser {
	out := make([]*Dispenser, 0, s.counters[KindDispenser])
	for _, t := range s.things {
		if d, ok := t.(*Dispenser); ok {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}
