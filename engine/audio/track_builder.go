package audio

import (
	"github.com/rs/zerolog"
)

type trackOptions struct {
	loop   bool
	logger zerolog.Logger
}

// TrackBuilderOption is a functional option for configuring a Track.
type TrackBuilderOption func(*trackOptions)

func newTrackOptions(options []TrackBuilderOption) *trackOptions {
	o := &trackOptions{logger: zerolog.Nop()}
	for _, option := range options {
		option(o)
	}
	return o
}

// WithLoop is an option builder that makes the track start over when it reaches its end.
//
// Parameters:
//   - loop: whether to loop forever
//
// Returns:
//   - TrackBuilderOption: a function that applies the loop option
func WithLoop(loop bool) TrackBuilderOption {
	return func(o *trackOptions) {
		o.loop = loop
	}
}

// WithLogger is an option builder that sets the logger used by the track.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - TrackBuilderOption: a function that applies the logger option
func WithLogger(logger zerolog.Logger) TrackBuilderOption {
	return func(o *trackOptions) {
		o.logger = logger.With().Str("component", "audio").Logger()
	}
}
