package playback

import (
	"github.com/rs/zerolog"
)

// RunState is the externally visible playback state.
type RunState int

const (
	// StateIdle means nothing is playing and no sequence is in flight.
	StateIdle RunState = iota

	// StateRunning means playback is active.
	StateRunning

	// StatePaused means playback is inactive while a sequence is still in flight.
	StatePaused
)

func (s RunState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	default:
		return "idle"
	}
}

// Labels shown on the toggle control.
const (
	LabelPlay  = "Play"
	LabelPause = "Pause"
)

// AudioTrack is the soundtrack the controller starts and pauses. audio.Track satisfies it.
type AudioTrack interface {
	Play() error
	Pause()
	Paused() bool
}

// TimeBase is the animation clock the controller freezes. mixer.Mixer satisfies it.
type TimeBase interface {
	SetAdvancing(advancing bool)
}

// Sequence is the queue runner the controller starts. sequencer.Runner satisfies it.
type Sequence interface {
	Start() bool
	InFlight() bool
	SetLoopCondition(fn func() bool)
}

// controller is the implementation of the Controller interface.
type controller struct {
	audio    AudioTrack
	timeBase TimeBase
	sequence Sequence

	logger    zerolog.Logger
	onToggled func(playing bool)

	playing bool
}

// Controller owns the play/pause flag. It must be used from a single execution context.
type Controller interface {
	// Toggle flips between playing and paused.
	//
	// Going active starts the audio, un-freezes the time base and, when no sequence
	// is in flight, starts a new one. An in-flight sequence simply continues.
	// Going inactive pauses the audio and freezes the time base; nothing is discarded.
	// Before AttachSequence only the flag and the audio change.
	//
	// Returns:
	//   - RunState: the state after the toggle
	Toggle() RunState

	// AttachSequence connects the loaded scene. The time base is frozen or
	// un-frozen to match the current flag; no sequence is started.
	//
	// Parameters:
	//   - timeBase: the animation clock
	//   - sequence: the queue runner; its loop condition becomes the playback flag
	AttachSequence(timeBase TimeBase, sequence Sequence)

	// Attached reports whether AttachSequence has been called.
	Attached() bool

	// Playing returns the playback flag.
	Playing() bool

	// State returns the current run state.
	State() RunState

	// Label returns the text for the toggle control.
	Label() string
}

var _ Controller = &controller{}

// NewController creates a new Controller for the given soundtrack.
//
// Parameters:
//   - audio: the soundtrack
//   - options: a variadic list of ControllerBuilderOption functions to configure the Controller
//
// Returns:
//   - Controller: the new controller, inactive
func NewController(audio AudioTrack, options ...ControllerBuilderOption) Controller {
	c := &controller{
		audio:  audio,
		logger: zerolog.Nop(),
	}

	for _, option := range options {
		option(c)
	}
	return c
}

func (c *controller) Toggle() RunState {
	if c.playing {
		c.pause()
	} else {
		c.play()
	}

	if c.onToggled != nil {
		c.onToggled(c.playing)
	}
	state := c.State()
	c.logger.Info().Stringer("state", state).Str("label", c.Label()).Msg("playback toggled")
	return state
}

func (c *controller) play() {
	c.playing = true
	if err := c.audio.Play(); err != nil {
		c.logger.Error().Err(err).Msg("audio play failed")
	}

	if c.sequence == nil {
		c.logger.Debug().Msg("scene not loaded yet, animation start skipped")
		return
	}

	c.timeBase.SetAdvancing(true)
	if c.sequence.Start() {
		c.logger.Debug().Msg("sequence started")
	}
}

func (c *controller) pause() {
	c.playing = false
	c.audio.Pause()
	if c.timeBase != nil {
		c.timeBase.SetAdvancing(false)
	}
}

func (c *controller) AttachSequence(timeBase TimeBase, sequence Sequence) {
	c.timeBase = timeBase
	c.sequence = sequence
	sequence.SetLoopCondition(c.Playing)
	timeBase.SetAdvancing(c.playing)
}

func (c *controller) Attached() bool {
	return c.sequence != nil
}

func (c *controller) Playing() bool {
	return c.playing
}

func (c *controller) State() RunState {
	switch {
	case c.playing:
		return StateRunning
	case c.sequence != nil && c.sequence.InFlight():
		return StatePaused
	default:
		return StateIdle
	}
}

func (c *controller) Label() string {
	if c.playing {
		return LabelPause
	}
	return LabelPlay
}
