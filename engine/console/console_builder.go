package console

import (
	"io"

	"github.com/rs/zerolog"
)

// ConsoleBuilderOption is a functional option for configuring a Console.
type ConsoleBuilderOption func(*console)

// WithLogger sets the console logger.
//
// Parameters:
//   - logger: the logger to use
//
// Returns:
//   - ConsoleBuilderOption: option function to apply
func WithLogger(logger zerolog.Logger) ConsoleBuilderOption {
	return func(c *console) {
		c.logger = logger.With().Str("component", "console").Logger()
	}
}

// WithReader replaces the terminal prompt with r.
//
// Parameters:
//   - r: the line source
//
// Returns:
//   - ConsoleBuilderOption: option function to apply
func WithReader(r LineReader) ConsoleBuilderOption {
	return func(c *console) {
		c.reader = r
	}
}

// WithOutput sets where command output is written.
//
// Parameters:
//   - w: the destination writer
//
// Returns:
//   - ConsoleBuilderOption: option function to apply
func WithOutput(w io.Writer) ConsoleBuilderOption {
	return func(c *console) {
		c.out = w
	}
}
