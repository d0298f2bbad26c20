package sequencer

import (
	"github.com/rs/zerolog"
)

// ResolverBuilderOption is a functional option for configuring a Resolver via NewResolver.
type ResolverBuilderOption func(*resolver)

// BatchPlayerBuilderOption is a functional option for configuring a BatchPlayer via NewBatchPlayer.
type BatchPlayerBuilderOption func(*batchPlayer)

// RunnerBuilderOption is a functional option for configuring a Runner via NewRunner.
type RunnerBuilderOption func(*runner)

// WithResolverLogger is an option builder that sets the logger used for unresolved clip warnings.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - ResolverBuilderOption: a function that applies the logger option to a resolver
func WithResolverLogger(logger zerolog.Logger) ResolverBuilderOption {
	return func(r *resolver) {
		r.logger = logger.With().Str("component", "resolver").Logger()
	}
}

// WithResolverObserver is an option builder that sets the event observer of a Resolver.
//
// Parameters:
//   - o: the observer
//
// Returns:
//   - ResolverBuilderOption: a function that applies the observer option to a resolver
func WithResolverObserver(o Observer) ResolverBuilderOption {
	return func(r *resolver) {
		if o != nil {
			r.observer = o
		}
	}
}

// WithPlayerLogger is an option builder that sets the logger used for playback events.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - BatchPlayerBuilderOption: a function that applies the logger option to a batch player
func WithPlayerLogger(logger zerolog.Logger) BatchPlayerBuilderOption {
	return func(p *batchPlayer) {
		p.logger = logger.With().Str("component", "batch_player").Logger()
	}
}

// WithPlayerObserver is an option builder that sets the event observer of a BatchPlayer.
//
// Parameters:
//   - o: the observer
//
// Returns:
//   - BatchPlayerBuilderOption: a function that applies the observer option to a batch player
func WithPlayerObserver(o Observer) BatchPlayerBuilderOption {
	return func(p *batchPlayer) {
		if o != nil {
			p.observer = o
		}
	}
}

// WithRunnerLogger is an option builder that sets the logger used for sequence events.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - RunnerBuilderOption: a function that applies the logger option to a runner
func WithRunnerLogger(logger zerolog.Logger) RunnerBuilderOption {
	return func(r *runner) {
		r.logger = logger.With().Str("component", "runner").Logger()
	}
}

// WithRunnerObserver is an option builder that sets the event observer of a Runner.
//
// Parameters:
//   - o: the observer
//
// Returns:
//   - RunnerBuilderOption: a function that applies the observer option to a runner
func WithRunnerObserver(o Observer) RunnerBuilderOption {
	return func(r *runner) {
		if o != nil {
			r.observer = o
		}
	}
}

// WithLoopCondition is an option builder that sets the predicate checked at the end of each pass.
//
// Parameters:
//   - fn: returns true when the queue should start over
//
// Returns:
//   - RunnerBuilderOption: a function that applies the loop condition to a runner
func WithLoopCondition(fn func() bool) RunnerBuilderOption {
	return func(r *runner) {
		r.loopWhile = fn
	}
}
