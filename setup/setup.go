// Package setup parses the scenario setup DSL of spec §6: whitespace
// separated commands, one per line, "#" introduces a comment. A malformed
// line is logged and skipped rather than aborting the whole file, per §6/§7.
package setup

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// CommandKind tags a parsed setup command.
type CommandKind uint8

const (
	CmdMove CommandKind = iota
	CmdAdd
	CmdCreateTask
	CmdAttach
)

// Requirement is one (offset, block type) entry in a "create task" pattern.
type Requirement struct {
	X, Y      int
	BlockType string
}

// Command is one parsed, validated setup-DSL line.
type Command struct {
	Kind CommandKind

	// move, add, attach (first point)
	X, Y int
	// attach (second point)
	X2, Y2 int

	// move
	Agent string

	// add
	ThingKind string // "block" or "dispenser"
	BlockType string

	// create task
	TaskName     string
	TaskDuration int
	Requirements []Requirement
}

// Parse parses every non-blank, non-comment line, logging and skipping any
// line that fails to parse.
func Parse(log *slog.Logger, lines []string) []Command {
	out := make([]Command, 0, len(lines))
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cmd, err := parseLine(line)
		if err != nil {
			if log != nil {
				log.Warn("setup: skipping malformed line", "line", i+1, "text", raw, "error", err)
			}
			continue
		}
		out = append(out, cmd)
	}
	return out
}

func parseLine(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, errors.New("empty line")
	}
	switch fields[0] {
	case "move":
		return parseMove(fields)
	case "add":
		return parseAdd(fields)
	case "create":
		return parseCreateTask(fields)
	case "attach":
		return parseAttach(fields)
	default:
		return Command{}, fmt.Errorf("unknown command %q", fields[0])
	}
}

func parseMove(fields []string) (Command, error) {
	if len(fields) != 4 {
		return Command{}, fmt.Errorf("move: expected 'move <x> <y> <agent>', got %d fields", len(fields))
	}
	x, err := strconv.Atoi(fields[1])
	if err != nil {
		return Command{}, fmt.Errorf("move: invalid x: %w", err)
	}
	y, err := strconv.Atoi(fields[2])
	if err != nil {
		return Command{}, fmt.Errorf("move: invalid y: %w", err)
	}
	return Command{Kind: CmdMove, X: x, Y: y, Agent: fields[3]}, nil
}

func parseAdd(fields []string) (Command, error) {
	if len(fields) != 5 {
		return Command{}, fmt.Errorf("add: expected 'add <x> <y> block|dispenser <type>', got %d fields", len(fields))
	}
	x, err := strconv.Atoi(fields[1])
	if err != nil {
		return Command{}, fmt.Errorf("add: invalid x: %w", err)
	}
	y, err := strconv.Atoi(fields[2])
	if err != nil {
		return Command{}, fmt.Errorf("add: invalid y: %w", err)
	}
	kind := fields[3]
	if kind != "block" && kind != "dispenser" {
		return Command{}, fmt.Errorf("add: unknown thing kind %q", kind)
	}
	return Command{Kind: CmdAdd, X: x, Y: y, ThingKind: kind, BlockType: fields[4]}, nil
}

func parseCreateTask(fields []string) (Command, error) {
	if len(fields) != 5 || fields[1] != "task" {
		return Command{}, fmt.Errorf("create: expected 'create task <name> <duration> <x,y,type>[;<x,y,type>]*'")
	}
	duration, err := strconv.Atoi(fields[3])
	if err != nil {
		return Command{}, fmt.Errorf("create task: invalid duration: %w", err)
	}
	reqs, err := parseRequirements(fields[4])
	if err != nil {
		return Command{}, err
	}
	return Command{Kind: CmdCreateTask, TaskName: fields[2], TaskDuration: duration, Requirements: reqs}, nil
}

func parseRequirements(token string) ([]Requirement, error) {
	parts := strings.Split(token, ";")
	reqs := make([]Requirement, 0, len(parts))
	for _, p := range parts {
		xyt := strings.Split(p, ",")
		if len(xyt) != 3 {
			return nil, fmt.Errorf("create task: malformed requirement %q", p)
		}
		x, err := strconv.Atoi(xyt[0])
		if err != nil {
			return nil, fmt.Errorf("create task: invalid x in %q: %w", p, err)
		}
		y, err := strconv.Atoi(xyt[1])
		if err != nil {
			return nil, fmt.Errorf("create task: invalid y in %q: %w", p, err)
		}
		reqs = append(reqs, Requirement{X: x, Y: y, BlockType: xyt[2]})
	}
	if len(reqs) == 0 {
		return nil, errors.New("create task: no requirements")
	}
	return reqs, nil
}

func parseAttach(fields []string) (Command, error) {
	if len(fields) != 5 {
		return Command{}, fmt.Errorf("attach: expected 'attach <x1> <y1> <x2> <y2>', got %d fields", len(fields))
	}
	x1, err := strconv.Atoi(fields[1])
	if err != nil {
		return Command{}, fmt.Errorf("attach: invalid x1: %w", err)
	}
	y1, err := strconv.Atoi(fields[2])
	if err != nil {
		return Command{}, fmt.Errorf("attach: invalid y1: %w", err)
	}
	x2, err := strconv.Atoi(fields[3])
	if err != nil {
		return Command{}, fmt.Errorf("attach: invalid x2: %w", err)
	}
	y2, err := strconv.Atoi(fields[4])
	if err != nil {
		return Command{}, fmt.Errorf("attach: invalid y2: %w", err)
	}
	return Command{Kind: CmdAttach, X: x1, Y: y1, X2: x2, Y2: y2}, nil
}
