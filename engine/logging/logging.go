package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Setup builds the process logger writing to stderr.
//
// Parameters:
//   - level: the minimum level name (trace, debug, info, warn, error); unknown names fall back to info
//   - console: true for human-readable console output, false for JSON lines
//
// Returns:
//   - zerolog.Logger: the configured logger
func Setup(level string, console bool) zerolog.Logger {
	return SetupWithWriter(level, console, os.Stderr)
}

// SetupWithWriter builds a logger writing to w.
//
// Parameters:
//   - level: the minimum level name
//   - console: true to wrap w in a zerolog.ConsoleWriter
//   - w: the destination writer
//
// Returns:
//   - zerolog.Logger: the configured logger
func SetupWithWriter(level string, console bool, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	return zerolog.New(w).With().Timestamp().Logger().Level(lvl)
}
