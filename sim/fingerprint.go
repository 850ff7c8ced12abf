package sim

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/massim-go/engine/position"
)

// Fingerprint hashes the snapshot's full content in its already-deterministic
// field order into a single value, so property tests can assert two replays
// with identical action sequences and seed produce byte-identical state
// (§8 I7) without diffing full snapshots.
func (s Snapshot) Fingerprint() uint64 {
	h := xxhash.New()
	fmt.Fprintf(h, "step:%d\n", s.Step)

	for _, e := range s.Entities {
		fmt.Fprintf(h, "e:%s|%s|%s|%d,%d|%d|%d|%d|%s|%v|%s\n",
			e.ID, e.AgentName, e.TeamName, e.Position.X, e.Position.Y,
			e.Energy, e.DisabledForSteps, e.Vision, e.LastAction, e.LastActionParams, e.LastActionResult)
	}
	for _, b := range s.Blocks {
		fmt.Fprintf(h, "b:%s|%d,%d|%s\n", b.ID, b.Position.X, b.Position.Y, b.BlockType)
	}
	for _, d := range s.Dispensers {
		fmt.Fprintf(h, "d:%s|%d,%d|%s\n", d.ID, d.Position.X, d.Position.Y, d.BlockType)
	}
	for _, t := range s.Tasks {
		fmt.Fprintf(h, "t:%s|%d|%d\n", t.Name, t.DeadlineStep, t.Reward)
		for _, off := range sortedRequirementOffsets(t.Requirements) {
			fmt.Fprintf(h, "  r:%d,%d=%s\n", off.X, off.Y, t.Requirements[off])
		}
	}

	return h.Sum64()
}

func sortedRequirementOffsets(reqs map[position.Position]string) []position.Position {
	out := make([]position.Position, 0, len(reqs))
	for p := range reqs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Y < out[j].Y
	})
	return out
}
