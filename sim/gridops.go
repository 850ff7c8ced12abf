package sim

import (
	"github.com/massim-go/engine/grid"
	"github.com/massim-go/engine/position"
	"github.com/massim-go/engine/thing"
)

// blockingGroupCheck reports whether p is free to receive a group member: in
// bounds, non-obstacle, and occupied only by things already in groupSet.
// Dispensers never count as occupants here, matching is_unblocked's rule
// that dispensers never block (§4.2) -- the "no thing at p' that is not
// itself in G" wording of §4.4 is read as "no *blocking* thing", consistent
// with that rule rather than literally (see DESIGN.md).
func (gs *GameState) blockingGroupCheck(p position.Position, groupSet map[thing.ID]struct{}) bool {
	if !gs.Grid.InBounds(p) || gs.Grid.TerrainAt(p) == grid.Obstacle {
		return false
	}
	for _, other := range gs.store.ThingsAt(p) {
		if !other.Blocks() {
			continue
		}
		if _, inGroup := groupSet[other.ID()]; inGroup {
			continue
		}
		return false
	}
	return true
}

func toSet(ids []thing.ID) map[thing.ID]struct{} {
	set := make(map[thing.ID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// moveWithAttached translates entity e's attachment group by one cell in
// dir, validating the whole group before committing any change (§4.4).
func (gs *GameState) moveWithAttached(e *thing.Entity, dir position.Direction) ResultCode {
	group := gs.graph.CollectGroup(e.ID())
	if len(group) > gs.cfg.AttachLimit {
		return FailedPath
	}
	groupSet := toSet(group)
	v := dir.Offset()

	newPositions := make(map[thing.ID]position.Position, len(group))
	for _, id := range group {
		t, ok := gs.store.ByID(id)
		if !ok {
			return FailedPath
		}
		p := t.Position().Add(v)
		if !gs.blockingGroupCheck(p, groupSet) {
			return FailedPath
		}
		newPositions[id] = p
	}

	gs.store.BeginMove(group)
	gs.store.CommitMove(newPositions)
	return Success
}

// rotateWithAttached rotates entity e's attachment group about e.Position()
// by 90 degrees, validating the whole group before committing (§4.4).
func (gs *GameState) rotateWithAttached(e *thing.Entity, clockwise bool) ResultCode {
	group := gs.graph.CollectGroup(e.ID())
	if len(group) > gs.cfg.AttachLimit {
		return Failed
	}
	groupSet := toSet(group)
	pivot := e.Position()

	newPositions := make(map[thing.ID]position.Position, len(group))
	for _, id := range group {
		t, ok := gs.store.ByID(id)
		if !ok {
			return Failed
		}
		local := t.Position().Sub(pivot)
		var rotated position.Position
		if clockwise {
			rotated = position.RotateCW(local)
		} else {
			rotated = position.RotateCCW(local)
		}
		p := pivot.Add(rotated)
		if !gs.blockingGroupCheck(p, groupSet) {
			return Failed
		}
		newPositions[id] = p
	}

	gs.store.BeginMove(group)
	gs.store.CommitMove(newPositions)
	return Success
}

// moveWithoutAttachments teleports a single thing to target with no
// attachment-group constraint beyond the target cell being unblocked (§4.4).
func (gs *GameState) moveWithoutAttachments(id thing.ID, target position.Position) ResultCode {
	if !gs.Grid.IsUnblocked(target) {
		return FailedTarget
	}
	gs.store.SetPosition(id, target)
	return Success
}

// unionGroupSize returns the size of the union of a's and b's attachment
// groups, used by both attach and connect to enforce attach_limit (§4.4).
func (gs *GameState) unionGroupSize(a, b thing.ID) int {
	union := toSet(gs.graph.CollectGroup(a))
	for _, id := range gs.graph.CollectGroup(b) {
		union[id] = struct{}{}
	}
	return len(union)
}

// attachThings inserts the edge a-b, requiring adjacency and a combined
// group size within attach_limit (§4.4).
func (gs *GameState) attachThings(a, b thing.Attachable) ResultCode {
	if a.Position().ChebyshevDistance(b.Position()) != 1 {
		return FailedTarget
	}
	if gs.unionGroupSize(a.ID(), b.ID()) > gs.cfg.AttachLimit {
		return Failed
	}
	gs.graph.Attach(a.ID(), b.ID())
	return Success
}

// detachThings removes the edge a-b, failing if it does not exist (§4.4).
func (gs *GameState) detachThings(a, b thing.Attachable) ResultCode {
	if !gs.graph.Attached(a.ID(), b.ID()) {
		return Failed
	}
	gs.graph.Detach(a.ID(), b.ID())
	return Success
}

// connectBlocks inserts an edge between two blocks belonging to different
// entities' groups, subject only to the combined attach_limit (connect has
// no adjacency requirement, unlike attach: it links two already-placed
// groups, possibly far apart, §4.9).
func (gs *GameState) connectBlocks(a, b *thing.Block) ResultCode {
	if gs.unionGroupSize(a.ID(), b.ID()) > gs.cfg.AttachLimit {
		return Failed
	}
	gs.graph.Attach(a.ID(), b.ID())
	return Success
}

// groupHasOpponent reports whether any member of id's attachment group is an
// Entity on a team other than ownTeam (§4.9 "attached to opponent").
func (gs *GameState) groupHasOpponent(id thing.ID, ownTeam string) bool {
	for _, member := range gs.graph.CollectGroup(id) {
		e, ok := gs.store.Entity(member)
		if !ok {
			continue
		}
		if e.TeamName != ownTeam {
			return true
		}
	}
	return false
}
