// Package grid implements the terrain array and transient marker overlay of
// §4.2 of the spec, plus the occupancy fast-path used by is_unblocked.
package grid

import (
	"math/rand"
	"sync"

	"github.com/brentp/intintmap"
	"github.com/segmentio/fasthash/fnv1a"

	"github.com/massim-go/engine/position"
)

// Terrain is the per-cell terrain kind.
type Terrain uint8

const (
	Empty Terrain = iota
	Obstacle
	Goal
)

// MarkerKind identifies the kind of transient overlay painted on a cell.
type MarkerKind uint8

const (
	MarkerClear MarkerKind = iota
)

// Occupant reports whether things at a cell block movement into it, per
// is_unblocked: Dispensers never block, Entities and Blocks always do.
type Occupant interface {
	Blocks() bool
}

// Grid is a fixed width x height array of Terrain cells with a transient
// marker overlay and an occupancy fast-path keyed by packed position.
type Grid struct {
	width, height int
	terrain       []Terrain
	markers       map[position.Position]MarkerKind

	// occupants packs a position key to the number of blocking things
	// currently registered at that cell. It mirrors the thing store's
	// spatial index and exists purely so is_unblocked doesn't need to walk
	// the store's per-cell set; thing.Store is the source of truth and
	// keeps this in sync via IncOccupant/DecOccupant.
	occupants *intintmap.Map

	areaMu    sync.Mutex
	areaCache map[uint64]cachedArea
}

type cachedArea struct {
	center position.Position
	radius int
	cells  []position.Position
}

// New builds a width x height grid, filling each cell via terrainAt.
func New(width, height int, terrainAt func(x, y int) Terrain) *Grid {
	g := &Grid{
		width:     width,
		height:    height,
		terrain:   make([]Terrain, width*height),
		markers:   make(map[position.Position]MarkerKind),
		occupants: intintmap.New(width*height+1, 0.6),
		areaCache: make(map[uint64]cachedArea, 64),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			t := Empty
			if terrainAt != nil {
				t = terrainAt(x, y)
			}
			g.terrain[y*width+x] = t
		}
	}
	return g
}

func (g *Grid) index(p position.Position) (int, bool) {
	if !g.InBounds(p) {
		return 0, false
	}
	return p.Y*g.width + p.X, true
}

func posKey(p position.Position) int64 {
	return int64(uint32(p.Y))<<32 | int64(uint32(p.X))
}

// InBounds reports whether p lies within the grid.
func (g *Grid) InBounds(p position.Position) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// Dimensions returns the grid's width and height.
func (g *Grid) Dimensions() (int, int) { return g.width, g.height }

// TerrainAt returns the terrain at p, or Empty if p is out of bounds.
func (g *Grid) TerrainAt(p position.Position) Terrain {
	idx, ok := g.index(p)
	if !ok {
		return Empty
	}
	return g.terrain[idx]
}

// SetTerrain sets the terrain at p. Out-of-bounds writes are silently
// dropped.
func (g *Grid) SetTerrain(p position.Position, t Terrain) {
	idx, ok := g.index(p)
	if !ok {
		return
	}
	g.terrain[idx] = t
}

// CreateMarker paints a transient marker of kind over p.
func (g *Grid) CreateMarker(p position.Position, kind MarkerKind) {
	g.markers[p] = kind
}

// ClearMarkers removes every marker; called at the top of every tick.
func (g *Grid) ClearMarkers() {
	clear(g.markers)
}

// MarkerAt returns the marker at p, if any.
func (g *Grid) MarkerAt(p position.Position) (MarkerKind, bool) {
	k, ok := g.markers[p]
	return k, ok
}

// IncOccupant records that a blocking thing now occupies p.
func (g *Grid) IncOccupant(p position.Position) {
	k := posKey(p)
	cur, _ := g.occupants.Get(k)
	g.occupants.Put(k, cur+1)
}

// DecOccupant records that a blocking thing no longer occupies p.
func (g *Grid) DecOccupant(p position.Position) {
	k := posKey(p)
	cur, ok := g.occupants.Get(k)
	if !ok || cur <= 1 {
		g.occupants.Put(k, 0)
		return
	}
	g.occupants.Put(k, cur-1)
}

func (g *Grid) occupantCount(p position.Position) int64 {
	v, ok := g.occupants.Get(posKey(p))
	if !ok {
		return 0
	}
	return v
}

// IsUnblocked reports whether p is in bounds, not an obstacle, and has no
// blocking (Entity or Block) occupant. Dispensers never block.
func (g *Grid) IsUnblocked(p position.Position) bool {
	return g.InBounds(p) && g.TerrainAt(p) != Obstacle && g.occupantCount(p) == 0
}

// RandomFreePosition rejection-samples a uniformly random unblocked cell.
func (g *Grid) RandomFreePosition(rng *rand.Rand) position.Position {
	for {
		p := position.Position{X: rng.Intn(g.width), Y: rng.Intn(g.height)}
		if g.IsUnblocked(p) {
			return p
		}
	}
}

// RandomPosition samples a position uniformly across the whole grid without
// any unblocked check, used to pick a clear event's center (§4.7 step 5).
func (g *Grid) RandomPosition(rng *rand.Rand) position.Position {
	return position.Position{X: rng.Intn(g.width), Y: rng.Intn(g.height)}
}

// RandomPositionIn samples a position uniformly within Area(center, radius)
// without any unblocked check. The result may be out of bounds; callers must
// check InBounds themselves. This mirrors §4.8's obstacle placement after a
// clear event fires, which places obstacles with no occupancy check at all.
func (g *Grid) RandomPositionIn(rng *rand.Rand, center position.Position, radius int) position.Position {
	cells := g.Area(center, radius)
	if len(cells) == 0 {
		return center
	}
	return cells[rng.Intn(len(cells))]
}

// Area returns the diamond area around center with the given radius,
// memoized by a fast hash of (center, radius) since percept assembly and the
// clear-event subsystem both re-enumerate the same areas every tick. Callers
// may fan out across entities concurrently (percept assembly does), so the
// cache is guarded by a mutex.
func (g *Grid) Area(center position.Position, radius int) []position.Position {
	h := fnv1a.Init64
	h = fnv1a.AddUint64(h, uint64(uint32(center.X)))
	h = fnv1a.AddUint64(h, uint64(uint32(center.Y)))
	h = fnv1a.AddUint64(h, uint64(uint32(radius)))

	g.areaMu.Lock()
	defer g.areaMu.Unlock()

	if hit, ok := g.areaCache[h]; ok && hit.center == center && hit.radius == radius {
		return hit.cells
	}
	cells := position.Area(center, radius)
	g.areaCache[h] = cachedArea{center: center, radius: radius, cells: cells}
	return cells
}
