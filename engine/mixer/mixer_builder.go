package mixer

// MixerBuilderOption is a functional option for configuring a Mixer via NewMixer.
type MixerBuilderOption func(*mixer)

// WithTimeScale is an option builder that sets the initial time scale of the Mixer.
// A Mixer built with a zero time scale starts frozen.
//
// Parameters:
//   - scale: the initial time scale
//
// Returns:
//   - MixerBuilderOption: a function that applies the time scale option to a mixer
func WithTimeScale(scale float32) MixerBuilderOption {
	return func(m *mixer) {
		m.timeScale = scale
	}
}
