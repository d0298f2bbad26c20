package profiler

import (
	"time"

	"github.com/rs/zerolog"
)

// ProfilerBuilderOption is a functional option for configuring a Profiler.
type ProfilerBuilderOption func(*Profiler)

// WithLogger sets the logger stats are reported to.
//
// Parameters:
//   - logger: the destination logger
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithLogger(logger zerolog.Logger) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.logger = logger.With().Str("component", "profiler").Logger()
	}
}

// WithInterval sets how often stats are logged. Values <= 0 are ignored.
//
// Parameters:
//   - d: the reporting interval
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithFrameObserver registers a function receiving every tick's duration.
//
// Parameters:
//   - fn: the observer, typically a histogram's Observe
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithFrameObserver(fn func(frame time.Duration)) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.observe = fn
	}
}

// WithClock replaces the time source.
//
// Parameters:
//   - now: the clock function
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.now = now
	}
}
