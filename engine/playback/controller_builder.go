package playback

import (
	"github.com/rs/zerolog"
)

// ControllerBuilderOption is a functional option for configuring a Controller via NewController.
type ControllerBuilderOption func(*controller)

// WithLogger is an option builder that sets the logger used by the Controller.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - ControllerBuilderOption: a function that applies the logger option to a controller
func WithLogger(logger zerolog.Logger) ControllerBuilderOption {
	return func(c *controller) {
		c.logger = logger.With().Str("component", "playback").Logger()
	}
}

// WithToggleHook is an option builder that registers a function called after every toggle.
//
// Parameters:
//   - fn: receives the new playback flag
//
// Returns:
//   - ControllerBuilderOption: a function that applies the hook option to a controller
func WithToggleHook(fn func(playing bool)) ControllerBuilderOption {
	return func(c *controller) {
		c.onToggled = fn
	}
}
