package stage

import (
	"github.com/Carmen-Shannon/oxy-stage/engine/loader"
	"github.com/Carmen-Shannon/oxy-stage/engine/sequencer"
	"github.com/rs/zerolog"
)

// StageBuilderOption is a functional option for configuring a Stage.
type StageBuilderOption func(*stage)

// WithLogger sets the logger shared by the stage's components.
//
// Parameters:
//   - logger: the logger to use
//
// Returns:
//   - StageBuilderOption: option function to apply
func WithLogger(logger zerolog.Logger) StageBuilderOption {
	return func(s *stage) {
		s.logger = logger
	}
}

// WithLoader replaces the default glTF loader.
//
// Parameters:
//   - l: the loader used by Load
//
// Returns:
//   - StageBuilderOption: option function to apply
func WithLoader(l loader.Loader) StageBuilderOption {
	return func(s *stage) {
		s.loader = l
	}
}

// WithObserver sets the observer receiving resolver, batch and loop events.
//
// Parameters:
//   - o: the observer, typically *telemetry.Metrics
//
// Returns:
//   - StageBuilderOption: option function to apply
func WithObserver(o sequencer.Observer) StageBuilderOption {
	return func(s *stage) {
		s.observer = o
	}
}

// WithToggleHook registers a function called on the loop after every toggle.
//
// Parameters:
//   - fn: receives the new playback flag
//
// Returns:
//   - StageBuilderOption: option function to apply
func WithToggleHook(fn func(playing bool)) StageBuilderOption {
	return func(s *stage) {
		s.onToggled = fn
	}
}

// WithTitleSink registers a function receiving the window title after every toggle.
//
// Parameters:
//   - fn: receives the title text; must be safe to call from the loop
//
// Returns:
//   - StageBuilderOption: option function to apply
func WithTitleSink(fn func(title string)) StageBuilderOption {
	return func(s *stage) {
		s.titleSink = fn
	}
}
