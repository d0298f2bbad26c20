package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"
)

// LineReader is the subset of *readline.Instance the console needs.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

// Handler executes console commands. Implementations must be safe to call
// from the console goroutine.
type Handler interface {
	// Toggle flips playback and returns the new toggle label.
	Toggle() string

	// Label returns the current toggle label.
	Label() string

	// Status returns a one-line status summary.
	Status() string
}

// Console is a line-oriented control surface for headless runs.
type Console interface {
	// Run reads commands until the input ends, a quit command is read, or ctx
	// is cancelled.
	//
	// Parameters:
	//   - ctx: cancelling it closes the reader and ends the loop
	//
	// Returns:
	//   - error: nil on quit, EOF, interrupt or cancellation, otherwise the read error
	Run(ctx context.Context) error
}

type console struct {
	logger zerolog.Logger
	out    io.Writer
	reader LineReader
	h      Handler

	closeOnce sync.Once
}

var _ Console = &console{}

// NewConsole creates a Console backed by a readline prompt on the terminal
// unless WithReader supplies another reader.
//
// Parameters:
//   - h: the command handler
//   - options: functional options for console configuration
//
// Returns:
//   - Console: the console
//   - error: error if the terminal prompt could not be created
func NewConsole(h Handler, options ...ConsoleBuilderOption) (Console, error) {
	c := &console{
		logger: zerolog.Nop(),
		h:      h,
	}
	for _, opt := range options {
		opt(c)
	}

	if c.reader == nil {
		rl, err := readline.NewEx(&readline.Config{
			Prompt: prompt(h.Label()),
			AutoComplete: readline.NewPrefixCompleter(
				readline.PcItem("toggle"),
				readline.PcItem("status"),
				readline.PcItem("help"),
				readline.PcItem("quit"),
			),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open console: %w", err)
		}
		c.reader = rl
		if c.out == nil {
			c.out = rl.Stdout()
		}
	}
	if c.out == nil {
		c.out = io.Discard
	}
	return c, nil
}

func prompt(label string) string {
	return fmt.Sprintf("[%s] >> ", label)
}

func (c *console) close() {
	c.closeOnce.Do(func() {
		_ = c.reader.Close()
	})
}

func (c *console) Run(ctx context.Context) error {
	defer c.close()

	stop := context.AfterFunc(ctx, c.close)
	defer stop()

	c.reader.SetPrompt(prompt(c.h.Label()))
	for {
		line, err := c.reader.Readline()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("console read failed: %w", err)
		}

		if quit := c.exec(strings.TrimSpace(line)); quit {
			return nil
		}
		c.reader.SetPrompt(prompt(c.h.Label()))
	}
}

// exec runs one command line. An empty line toggles, matching the window's
// single-key control.
func (c *console) exec(line string) bool {
	cmd := strings.ToLower(line)
	switch cmd {
	case "", "t", "toggle", "p", "play", "pause":
		label := c.h.Toggle()
		c.logger.Debug().Str("label", label).Msg("toggled from console")
	case "s", "status":
		fmt.Fprintln(c.out, c.h.Status())
	case "h", "help", "?":
		fmt.Fprintln(c.out, "commands: toggle (or empty line), status, help, quit")
	case "q", "quit", "exit":
		return true
	default:
		fmt.Fprintf(c.out, "unknown command %q (try help)\n", line)
	}
	return false
}
