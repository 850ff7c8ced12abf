// Package console provides a simple CLI command source for driving a
// sim.GameState interactively, adapted from the teacher's console.Console:
// an io.Reader-backed REPL with go-prompt completion when reading from
// os.Stdin, falling back to a plain line scanner for any other reader.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	prompt "github.com/c-bata/go-prompt"

	"github.com/massim-go/engine/sim"
)

const (
	defaultPromptPrefix = "sim> "
	maxHistoryEntries   = 128
)

// Console reads commands from an io.Reader (defaulting to os.Stdin) and
// applies them to a bound sim.GameState, writing results to an io.Writer
// (defaulting to os.Stdout).
type Console struct {
	gs      *sim.GameState
	log     *slog.Logger
	reader  io.Reader
	out     io.Writer
	history []string
}

// New returns a Console bound to gs.
func New(gs *sim.GameState, log *slog.Logger) *Console {
	if log == nil {
		log = slog.Default()
	}
	return &Console{gs: gs, log: log, reader: os.Stdin, out: os.Stdout}
}

// WithReader sets a custom reader for console input, for testing without
// os.Stdin.
func (c *Console) WithReader(r io.Reader) *Console {
	if r != nil {
		c.reader = r
	}
	return c
}

// WithOutput sets a custom writer for command output.
func (c *Console) WithOutput(w io.Writer) *Console {
	if w != nil {
		c.out = w
	}
	return c
}

// Run consumes commands until ctx is cancelled or the reader reaches EOF.
func (c *Console) Run(ctx context.Context) {
	if c.reader != os.Stdin {
		c.runScanner(ctx)
		return
	}
	c.runInteractive(ctx)
}

func (c *Console) runScanner(ctx context.Context) {
	scanner := bufio.NewScanner(c.reader)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				c.log.Error("console input error", "err", err)
			}
			return
		}
		c.execute(strings.TrimSpace(scanner.Text()))
	}
}

func (c *Console) runInteractive(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		line := prompt.Input(defaultPromptPrefix, c.complete,
			prompt.OptionTitle("massim-go console"),
			prompt.OptionHistory(c.history),
			prompt.OptionPrefix(defaultPromptPrefix),
			prompt.OptionCompletionOnDown(),
			prompt.OptionMaxSuggestion(12),
		)
		c.execute(strings.TrimSpace(line))
	}
}

func (c *Console) execute(line string) {
	if line == "" {
		return
	}
	c.history = append(c.history, line)
	if len(c.history) > maxHistoryEntries {
		c.history = c.history[len(c.history)-maxHistoryEntries:]
	}

	fields := strings.Fields(line)
	handler, ok := commands[fields[0]]
	if !ok {
		fmt.Fprintf(c.out, "unknown command %q (try \"help\")\n", fields[0])
		return
	}
	if err := handler(c, fields[1:]); err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
	}
}

func (c *Console) complete(doc prompt.Document) []prompt.Suggest {
	word := strings.TrimSpace(doc.GetWordBeforeCursor())
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	suggestions := make([]prompt.Suggest, 0, len(names))
	for _, name := range names {
		suggestions = append(suggestions, prompt.Suggest{Text: name, Description: usage[name]})
	}
	return prompt.FilterHasPrefix(suggestions, word, true)
}
