package sim

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/massim-go/engine/grid"
)

// PrepareStep runs the authoritative per-step ordering of §4.7 (advance the
// step counter, clear markers, maybe spawn a task, pre_step every entity,
// maybe enqueue a clear event, fire or mark pending events) and returns the
// resulting per-entity percepts.
func (gs *GameState) PrepareStep() []Percept {
	gs.step++
	gs.metrics.IncTick()
	gs.Grid.ClearMarkers()

	if gs.cfg.Tasks.Probability > 0 && gs.rng.Float64() < gs.cfg.Tasks.Probability {
		gs.tasks.CreateRandom(gs.step, gs.rng,
			gs.cfg.Tasks.DurationMin, gs.cfg.Tasks.DurationMax,
			gs.cfg.Tasks.SizeMin, gs.cfg.Tasks.SizeMax,
			gs.cfg.BlockTypeMin, gs.cfg.BlockTypeMax)
	}

	for _, e := range gs.store.AllEntities() {
		e.PreStep()
	}

	if gs.cfg.Events.Chance > 0 && gs.rng.Intn(100) < gs.cfg.Events.Chance {
		center := gs.Grid.RandomPosition(gs.rng)
		radius := gs.cfg.Events.RadiusMin
		if gs.cfg.Events.RadiusMax > gs.cfg.Events.RadiusMin {
			radius = gs.cfg.Events.RadiusMin + gs.rng.Intn(gs.cfg.Events.RadiusMax-gs.cfg.Events.RadiusMin+1)
		}
		gs.events.Enqueue(center, gs.step+gs.cfg.Events.Warning, radius)
	}

	for _, ev := range gs.events.Pending() {
		if ev.FireStep == gs.step {
			gs.fireClearEvent(ev)
			gs.metrics.IncClearEventsFired()
			continue
		}
		for _, c := range gs.Grid.Area(ev.Center, ev.Radius) {
			if gs.Grid.InBounds(c) {
				gs.Grid.CreateMarker(c, grid.MarkerClear)
			}
		}
	}

	return gs.buildPercepts()
}

// agentOrder is the collation used to fix the deterministic per-tick action
// dispatch order of §4.7/§5 (lexicographic by agent name), backed by a real
// Unicode collator rather than raw byte comparison.
var agentOrder = collate.New(language.Und)

// DispatchActions sorts actions by agent name under agentOrder and runs each
// handler to completion before the next begins, matching the single
// threaded turn-serialized model of §5.
func (gs *GameState) DispatchActions(actions []Action) map[string]ResultCode {
	ordered := make([]Action, len(actions))
	copy(ordered, actions)
	sort.Slice(ordered, func(i, j int) bool {
		return agentOrder.CompareString(ordered[i].Agent, ordered[j].Agent) < 0
	})

	results := make(map[string]ResultCode, len(ordered))
	for _, a := range ordered {
		results[a.Agent] = gs.handleAction(a)
	}
	return results
}
