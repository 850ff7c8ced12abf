package sim

import (
	"fmt"

	"github.com/massim-go/engine/clearevent"
	"github.com/massim-go/engine/grid"
	"github.com/massim-go/engine/position"
	"github.com/massim-go/engine/task"
	"github.com/massim-go/engine/thing"
)

func actionParams(a Action) []string {
	switch a.Kind {
	case ActionMove, ActionAttach, ActionDetach, ActionRequest:
		return []string{a.Direction.String()}
	case ActionRotate:
		if a.Clockwise {
			return []string{"cw"}
		}
		return []string{"ccw"}
	case ActionConnect:
		return []string{fmt.Sprintf("%d,%d", a.BlockLocal.X, a.BlockLocal.Y), a.PartnerAgent,
			fmt.Sprintf("%d,%d", a.PartnerBlockLocal.X, a.PartnerBlockLocal.Y)}
	case ActionSubmit:
		return []string{a.TaskName}
	case ActionClear:
		return []string{fmt.Sprintf("%d,%d", a.ClearLocal.X, a.ClearLocal.Y)}
	default:
		return nil
	}
}

// handleAction records the action on the entity and dispatches it to the
// matching handler, returning the result code it also stamps onto
// last_action_result (§4.9).
func (gs *GameState) handleAction(a Action) ResultCode {
	e, ok := gs.entitiesByAgent[a.Agent]
	if !ok {
		return FailedTarget
	}
	e.LastAction = a.Kind.String()
	e.LastActionParams = actionParams(a)

	result := gs.dispatch(e, a)
	e.LastActionResult = result.String()
	gs.metrics.RecordAction(a.Kind, result)
	return result
}

// dispatch applies the random-fail roll and the disabled-entity short
// circuit before reaching the per-kind handler (§4.9).
func (gs *GameState) dispatch(e *thing.Entity, a Action) ResultCode {
	if gs.cfg.RandomFail > 0 && gs.rng.Intn(100) < gs.cfg.RandomFail {
		return FailedRandom
	}
	if e.Disabled() {
		return FailedStatus
	}
	switch a.Kind {
	case ActionMove:
		return gs.moveWithAttached(e, a.Direction)
	case ActionRotate:
		return gs.rotateWithAttached(e, a.Clockwise)
	case ActionAttach:
		return gs.handleAttach(e, a)
	case ActionDetach:
		return gs.handleDetach(e, a)
	case ActionConnect:
		return gs.handleConnect(e, a)
	case ActionRequest:
		return gs.handleRequest(e, a)
	case ActionSubmit:
		return gs.handleSubmit(e, a)
	case ActionClear:
		return gs.handleClear(e, a)
	default:
		return Success
	}
}

func (gs *GameState) handleAttach(e *thing.Entity, a Action) ResultCode {
	target := e.Position().DirectionOffset(a.Direction)
	at, ok := gs.store.UniqueAttachableAt(target)
	if !ok {
		return FailedTarget
	}
	if opponentAttachable(at, e.TeamName) {
		return FailedTarget
	}
	if gs.groupHasOpponent(at.ID(), e.TeamName) {
		return FailedTarget
	}
	return gs.attachThings(e, at)
}

func (gs *GameState) handleDetach(e *thing.Entity, a Action) ResultCode {
	target := e.Position().DirectionOffset(a.Direction)
	at, ok := gs.store.UniqueAttachableAt(target)
	if !ok {
		return FailedTarget
	}
	if opponentAttachable(at, e.TeamName) {
		return FailedTarget
	}
	if gs.groupHasOpponent(at.ID(), e.TeamName) {
		return FailedTarget
	}
	return gs.detachThings(e, at)
}

func opponentAttachable(at thing.Attachable, ownTeam string) bool {
	ent, ok := at.(*thing.Entity)
	return ok && ent.TeamName != ownTeam
}

func (gs *GameState) handleConnect(e *thing.Entity, a Action) ResultCode {
	partner, ok := gs.entitiesByAgent[a.PartnerAgent]
	if !ok {
		return FailedTarget
	}

	ownPos := a.BlockLocal.Global(e.Position())
	partnerPos := a.PartnerBlockLocal.Global(partner.Position())

	ownBlock, ok := uniqueBlockAt(gs, ownPos)
	if !ok {
		return FailedTarget
	}
	partnerBlock, ok := uniqueBlockAt(gs, partnerPos)
	if !ok {
		return FailedTarget
	}

	ownGroup := toSet(gs.graph.CollectGroup(e.ID()))
	partnerGroup := toSet(gs.graph.CollectGroup(partner.ID()))

	_, ownHasOwnBlock := ownGroup[ownBlock.ID()]
	_, ownHasPartnerBlock := ownGroup[partnerBlock.ID()]
	_, partnerHasPartnerBlock := partnerGroup[partnerBlock.ID()]
	_, partnerHasOwnBlock := partnerGroup[ownBlock.ID()]
	if !ownHasOwnBlock || ownHasPartnerBlock || !partnerHasPartnerBlock || partnerHasOwnBlock {
		return FailedTarget
	}

	if gs.graph.Attached(e.ID(), partner.ID()) {
		return Failed
	}

	return gs.connectBlocks(ownBlock, partnerBlock)
}

func uniqueBlockAt(gs *GameState, p position.Position) (*thing.Block, bool) {
	at, ok := gs.store.UniqueAttachableAt(p)
	if !ok {
		return nil, false
	}
	b, ok := at.(*thing.Block)
	return b, ok
}

func (gs *GameState) handleRequest(e *thing.Entity, a Action) ResultCode {
	target := e.Position().DirectionOffset(a.Direction)
	if !gs.Grid.InBounds(target) {
		return FailedTarget
	}
	disp, ok := gs.store.DispenserAt(target)
	if !ok {
		return FailedTarget
	}
	if !gs.Grid.IsUnblocked(target) {
		return FailedBlocked
	}
	gs.store.NewBlock(target, disp.BlockType)
	return Success
}

func (gs *GameState) handleSubmit(e *thing.Entity, a Action) ResultCode {
	t, ok := gs.tasks.ByName(a.TaskName)
	if !ok || t.Completed {
		return FailedTarget
	}
	if gs.Grid.TerrainAt(e.Position()) != grid.Goal {
		return FailedTarget
	}

	ownGroup := toSet(gs.graph.CollectGroup(e.ID()))
	offsets := task.SortedOffsets(t)
	toRemove := make([]thing.ID, 0, len(offsets))
	for _, off := range offsets {
		p := off.Global(e.Position())
		wantType := t.Requirements[off]
		found := false
		for _, at := range gs.store.AttachablesAt(p) {
			b, ok := at.(*thing.Block)
			if !ok || b.BlockType != wantType {
				continue
			}
			if _, inGroup := ownGroup[b.ID()]; !inGroup {
				continue
			}
			toRemove = append(toRemove, b.ID())
			found = true
			break
		}
		if !found {
			return FailedTarget
		}
	}

	for _, id := range toRemove {
		gs.graph.RemoveThing(id)
		gs.store.Remove(id)
	}
	gs.tasks.Complete(t.Name)
	if team, ok := gs.teams[e.TeamName]; ok {
		team.Score += t.Reward
	}
	return Success
}

func manhattan(v position.Position) int {
	x, y := v.X, v.Y
	if x < 0 {
		x = -x
	}
	if y < 0 {
		y = -y
	}
	return x + y
}

func (gs *GameState) handleClear(e *thing.Entity, a Action) ResultCode {
	target := a.ClearLocal.Global(e.Position())
	if manhattan(a.ClearLocal) > e.Vision || !gs.Grid.InBounds(target) {
		return FailedTarget
	}
	if e.Energy < gs.cfg.ClearEnergyCost {
		return FailedStatus
	}

	if e.PreviousClearStep != gs.step-1 || e.PreviousClearPosition != target {
		e.ClearCounter = 0
	}
	e.ClearCounter++
	e.PreviousClearStep = gs.step
	e.PreviousClearPosition = target

	if e.ClearCounter == gs.cfg.ClearSteps {
		gs.clearArea(target, 1)
		e.ClearCounter = 0
	}
	e.Energy -= gs.cfg.ClearEnergyCost
	return Success
}

// disableEntity drops every attachment of e, sets its disable counter, and
// teleports it to a random free cell (§4.5).
func (gs *GameState) disableEntity(e *thing.Entity) {
	gs.graph.RemoveThing(e.ID())
	e.DisabledForSteps = gs.cfg.DisableDuration
	target := gs.Grid.RandomFreePosition(gs.rng)
	gs.moveWithoutAttachments(e.ID(), target)
}

// clearArea disables every entity and removes every block in Area(center,
// radius), turns any obstacle cell empty, and returns the count of blocks
// plus obstacles removed (§4.8).
func (gs *GameState) clearArea(center position.Position, radius int) int {
	removed := 0
	for _, c := range gs.Grid.Area(center, radius) {
		if !gs.Grid.InBounds(c) {
			continue
		}
		for _, t := range gs.store.ThingsAt(c) {
			switch v := t.(type) {
			case *thing.Entity:
				gs.disableEntity(v)
			case *thing.Block:
				gs.graph.RemoveThing(v.ID())
				gs.store.Remove(v.ID())
				removed++
			}
		}
		if gs.Grid.TerrainAt(c) == grid.Obstacle {
			gs.Grid.SetTerrain(c, grid.Empty)
			removed++
		}
	}
	return removed
}

// fireClearEvent detonates ev: clears its area, then scatters
// U[create_min,create_max]+removed new obstacles within radius+3, with no
// occupancy check (§4.8; see DESIGN.md open question).
func (gs *GameState) fireClearEvent(ev *clearevent.Event) {
	removed := gs.clearArea(ev.Center, ev.Radius)
	gs.events.Remove(ev.ID)

	count := gs.cfg.Events.CreateMin
	if gs.cfg.Events.CreateMax > gs.cfg.Events.CreateMin {
		count = gs.cfg.Events.CreateMin + gs.rng.Intn(gs.cfg.Events.CreateMax-gs.cfg.Events.CreateMin+1)
	}
	count += removed

	for i := 0; i < count; i++ {
		p := gs.Grid.RandomPositionIn(gs.rng, ev.Center, ev.Radius+3)
		if gs.Grid.InBounds(p) {
			gs.Grid.SetTerrain(p, grid.Obstacle)
		}
	}
}
