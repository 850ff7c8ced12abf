package sim

import "github.com/massim-go/engine/position"

// ActionKind tags which action an Action requests (§4.9).
type ActionKind uint8

const (
	ActionNoOp ActionKind = iota
	ActionMove
	ActionRotate
	ActionAttach
	ActionDetach
	ActionConnect
	ActionRequest
	ActionSubmit
	ActionClear
)

func (k ActionKind) String() string {
	switch k {
	case ActionNoOp:
		return "no_op"
	case ActionMove:
		return "move"
	case ActionRotate:
		return "rotate"
	case ActionAttach:
		return "attach"
	case ActionDetach:
		return "detach"
	case ActionConnect:
		return "connect"
	case ActionRequest:
		return "request"
	case ActionSubmit:
		return "submit"
	case ActionClear:
		return "clear"
	default:
		return "unknown"
	}
}

// Action is one per-entity action submitted by the harness for dispatch in
// a tick (§4.7, §4.9). Only the fields relevant to Kind are consulted.
type Action struct {
	Agent string
	Kind  ActionKind

	Direction position.Direction // move, attach, detach, request
	Clockwise bool               // rotate

	BlockLocal        position.Position // connect: offset of own block
	PartnerAgent      string            // connect
	PartnerBlockLocal position.Position // connect: offset of partner's block

	TaskName string // submit

	ClearLocal position.Position // clear: offset of target cell
}
