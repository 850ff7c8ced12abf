package console

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/massim-go/engine/position"
	"github.com/massim-go/engine/sim"
)

type commandFunc func(c *Console, args []string) error

var commands = map[string]commandFunc{
	"step":     cmdStep,
	"action":   cmdAction,
	"snapshot": cmdSnapshot,
	"percept":  cmdPercept,
	"tasks":    cmdTasks,
	"result":   cmdResult,
	"help":     cmdHelp,
}

var usage = map[string]string{
	"step":     "step -- prepare the next tick and build percepts",
	"action":   "action <agent> <kind> [params...] -- dispatch one action",
	"snapshot": "snapshot -- print the full-state snapshot",
	"percept":  "percept <agent> -- print one agent's current percept",
	"tasks":    "tasks -- list currently open tasks",
	"result":   "result -- print team scores",
	"help":     "help -- list commands",
}

func cmdStep(c *Console, _ []string) error {
	percepts := c.gs.PrepareStep()
	fmt.Fprintf(c.out, "step %d: %d percepts built\n", c.gs.Step(), len(percepts))
	return nil
}

func cmdAction(c *Console, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: %s", usage["action"])
	}
	a, err := parseAction(args[0], args[1], args[2:])
	if err != nil {
		return err
	}
	results := c.gs.DispatchActions([]sim.Action{a})
	fmt.Fprintf(c.out, "%s %s -> %s\n", a.Agent, a.Kind, results[a.Agent])
	return nil
}

func cmdSnapshot(c *Console, _ []string) error {
	snap := c.gs.Snapshot()
	fmt.Fprintf(c.out, "step=%d entities=%d blocks=%d dispensers=%d tasks=%d\n",
		snap.Step, len(snap.Entities), len(snap.Blocks), len(snap.Dispensers), len(snap.Tasks))
	for _, e := range snap.Entities {
		fmt.Fprintf(c.out, "  entity %s (%s/%s) at %v energy=%d disabled_for=%d last=%s/%s\n",
			e.ID, e.AgentName, e.TeamName, e.Position, e.Energy, e.DisabledForSteps, e.LastAction, e.LastActionResult)
	}
	for _, b := range snap.Blocks {
		fmt.Fprintf(c.out, "  block %s type=%s at %v\n", b.ID, b.BlockType, b.Position)
	}
	return nil
}

func cmdPercept(c *Console, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: %s", usage["percept"])
	}
	p, ok := c.gs.Percept(args[0])
	if !ok {
		return fmt.Errorf("no such agent %q", args[0])
	}
	fmt.Fprintf(c.out, "agent=%s step=%d score=%d energy=%d disabled=%v things=%d tasks=%d last=%s/%s\n",
		p.Agent, p.Step, p.Score, p.Energy, p.Disabled, len(p.Things), len(p.OpenTasks), p.LastAction, p.LastActionResult)
	return nil
}

func cmdTasks(c *Console, _ []string) error {
	for _, t := range c.gs.Tasks() {
		fmt.Fprintf(c.out, "  %s reward=%d deadline=%d requirements=%d\n", t.Name, t.Reward, t.DeadlineStep, len(t.Requirements))
	}
	return nil
}

func cmdResult(c *Console, _ []string) error {
	for team, score := range c.gs.Result() {
		fmt.Fprintf(c.out, "  %s: %d\n", team, score)
	}
	return nil
}

func cmdHelp(c *Console, _ []string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	for _, name := range names {
		fmt.Fprintln(c.out, usage[name])
	}
	return nil
}

func parseAction(agent, kind string, params []string) (sim.Action, error) {
	a := sim.Action{Agent: agent}
	switch kind {
	case "move":
		a.Kind = sim.ActionMove
		dir, err := parseDirParam(params)
		if err != nil {
			return a, fmt.Errorf("move: %w", err)
		}
		a.Direction = dir
	case "rotate":
		a.Kind = sim.ActionRotate
		if len(params) != 1 || (params[0] != "cw" && params[0] != "ccw") {
			return a, fmt.Errorf("rotate: expected cw|ccw")
		}
		a.Clockwise = params[0] == "cw"
	case "attach":
		a.Kind = sim.ActionAttach
		dir, err := parseDirParam(params)
		if err != nil {
			return a, fmt.Errorf("attach: %w", err)
		}
		a.Direction = dir
	case "detach":
		a.Kind = sim.ActionDetach
		dir, err := parseDirParam(params)
		if err != nil {
			return a, fmt.Errorf("detach: %w", err)
		}
		a.Direction = dir
	case "request":
		a.Kind = sim.ActionRequest
		dir, err := parseDirParam(params)
		if err != nil {
			return a, fmt.Errorf("request: %w", err)
		}
		a.Direction = dir
	case "submit":
		a.Kind = sim.ActionSubmit
		if len(params) != 1 {
			return a, fmt.Errorf("submit: expected <task_name>")
		}
		a.TaskName = params[0]
	case "clear":
		a.Kind = sim.ActionClear
		p, err := parseOffset(params)
		if err != nil {
			return a, fmt.Errorf("clear: %w", err)
		}
		a.ClearLocal = p
	case "connect":
		a.Kind = sim.ActionConnect
		if len(params) != 5 {
			return a, fmt.Errorf("connect: expected <bx> <by> <partner_agent> <pbx> <pby>")
		}
		own, err := parseOffset(params[:2])
		if err != nil {
			return a, fmt.Errorf("connect: %w", err)
		}
		partner, err := parseOffset(params[3:])
		if err != nil {
			return a, fmt.Errorf("connect: %w", err)
		}
		a.BlockLocal = own
		a.PartnerAgent = params[2]
		a.PartnerBlockLocal = partner
	default:
		return a, fmt.Errorf("unknown action kind %q", kind)
	}
	return a, nil
}

func parseDirParam(params []string) (position.Direction, error) {
	if len(params) != 1 {
		return 0, fmt.Errorf("expected <n|s|e|w>")
	}
	dir, ok := position.ParseDirection(strings.ToLower(params[0]))
	if !ok {
		return 0, fmt.Errorf("invalid direction %q", params[0])
	}
	return dir, nil
}

func parseOffset(params []string) (position.Position, error) {
	if len(params) != 2 {
		return position.Position{}, fmt.Errorf("expected <x> <y>")
	}
	x, err := strconv.Atoi(params[0])
	if err != nil {
		return position.Position{}, fmt.Errorf("invalid x: %w", err)
	}
	y, err := strconv.Atoi(params[1])
	if err != nil {
		return position.Position{}, fmt.Errorf("invalid y: %w", err)
	}
	return position.Position{X: x, Y: y}, nil
}
