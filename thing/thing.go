// Package thing implements the arena of positioned things (§3, §4.3): the
// tagged-variant Entity/Block/Dispenser model and the spatial index backing
// things_at / attachables_at / unique_attachable_at.
package thing

import "github.com/massim-go/engine/position"

// Kind tags which variant a Thing is.
type Kind uint8

const (
	KindEntity Kind = iota
	KindBlock
	KindDispenser
)

func (k Kind) String() string {
	switch k {
	case KindEntity:
		return "entity"
	case KindBlock:
		return "block"
	case KindDispenser:
		return "dispenser"
	default:
		return "unknown"
	}
}

// ID is a stable identifier, e.g. "entity3", assigned by the Store.
type ID string

// Thing is any positioned object in the arena.
type Thing interface {
	ID() ID
	Kind() Kind
	Position() position.Position
	Blocks() bool
}

// Attachable is a Thing that may participate in attachment edges: Entities
// and Blocks, never Dispensers.
type Attachable interface {
	Thing
	attachable()
}

// Entity is an agent-controlled thing. Its mutable fields are exported and
// mutated directly by the sim package's handlers, which owns the
// single-threaded turn-serialized model (§5) and therefore needs no locking.
type Entity struct {
	id       ID
	pos      position.Position
	AgentName string
	TeamName  string

	Energy            int
	DisabledForSteps  int
	Vision            int
	LastAction        string
	LastActionParams  []string
	LastActionResult  string

	ClearCounter           int
	PreviousClearStep      int
	PreviousClearPosition  position.Position
}

func (e *Entity) ID() ID                       { return e.id }
func (e *Entity) Kind() Kind                   { return KindEntity }
func (e *Entity) Position() position.Position  { return e.pos }
func (e *Entity) Blocks() bool                 { return true }
func (*Entity) attachable()                    {}

// Disabled reports whether the entity is currently disabled.
func (e *Entity) Disabled() bool { return e.DisabledForSteps > 0 }

// PreStep applies the per-tick decrement to the disable counter and resets
// last_action_result, per §4.5. Energy is never regenerated here: the
// source engine this was distilled from never regenerates energy despite
// carrying a max_energy cap, so we match that rather than guess (see
// DESIGN.md Open Question).
func (e *Entity) PreStep() {
	if e.DisabledForSteps > 0 {
		e.DisabledForSteps--
	}
	e.LastActionResult = "uninitialized"
}

// Block is a movable block of a given type; it is Attachable.
type Block struct {
	id        ID
	pos       position.Position
	BlockType string
}

func (b *Block) ID() ID                      { return b.id }
func (b *Block) Kind() Kind                  { return KindBlock }
func (b *Block) Position() position.Position { return b.pos }
func (b *Block) Blocks() bool                { return true }
func (*Block) attachable()                   {}

// Dispenser is a fixed source of blocks of a single type. It is never
// Attachable and never blocks movement into its cell.
type Dispenser struct {
	id        ID
	pos       position.Position
	BlockType string
}

func (d *Dispenser) ID() ID                      { return d.id }
func (d *Dispenser) Kind() Kind                  { return KindDispenser }
func (d *Dispenser) Position() position.Position { return d.pos }
func (d *Dispenser) Blocks() bool                { return false }
