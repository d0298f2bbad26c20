package mixer

import (
	"math"

	"github.com/Carmen-Shannon/oxy-stage/engine/model"
)

// actionState is the per-action playback state advanced by the mixer.
type actionState struct {
	time float32
	loop LoopMode

	clamp, running, finished bool
}

// advance moves the state forward and reports whether a LoopOnce action reached its end.
func (s *actionState) advance(delta, duration float32) bool {
	if !s.running {
		return false
	}

	s.time += delta

	switch s.loop {
	case LoopOnce:
		if s.time >= duration {
			s.time = duration
			s.running = false
			s.finished = true
			return true
		}
	default:
		if duration > 0 && s.time > duration {
			s.time = float32(math.Mod(float64(s.time), float64(duration)))
		}
	}
	return false
}

// action is the implementation of the Action interface.
type action struct {
	mixer *mixer
	clip  *model.AnimationClip
	state actionState
}

// Action is one playback of a clip on a Mixer.
type Action interface {
	// Clip returns the clip being played.
	Clip() *model.AnimationClip

	// SetLoop sets the loop mode. Returns the action for chaining.
	SetLoop(mode LoopMode) Action

	// SetClampWhenFinished keeps the final pose applied after a LoopOnce action finishes.
	// Returns the action for chaining.
	SetClampWhenFinished(clamp bool) Action

	// Reset rewinds the action to the start of its clip and clears its finished state.
	// Returns the action for chaining.
	Reset() Action

	// Play starts (or resumes) the action on its mixer. Returns the action for chaining.
	Play() Action

	// Stop removes the action from its mixer without emitting a finished event.
	Stop()

	// Time returns the local time of the action in seconds.
	Time() float32

	// IsRunning reports whether the action is still advancing.
	IsRunning() bool

	// IsFinished reports whether a LoopOnce action has reached the end of its clip.
	IsFinished() bool
}

var _ Action = &action{}

func (a *action) Clip() *model.AnimationClip {
	return a.clip
}

func (a *action) SetLoop(mode LoopMode) Action {
	a.mixer.mu.Lock()
	defer a.mixer.mu.Unlock()
	a.state.loop = mode
	return a
}

func (a *action) SetClampWhenFinished(clamp bool) Action {
	a.mixer.mu.Lock()
	defer a.mixer.mu.Unlock()
	a.state.clamp = clamp
	return a
}

func (a *action) Reset() Action {
	a.mixer.mu.Lock()
	defer a.mixer.mu.Unlock()
	a.state.time = 0
	a.state.finished = false
	return a
}

func (a *action) Play() Action {
	a.mixer.mu.Lock()
	if !a.state.finished {
		a.state.running = true
	}
	a.mixer.mu.Unlock()

	a.mixer.start(a)
	return a
}

func (a *action) Stop() {
	a.mixer.mu.Lock()
	a.state.running = false
	a.mixer.mu.Unlock()

	a.mixer.stop(a)
}

func (a *action) Time() float32 {
	a.mixer.mu.Lock()
	defer a.mixer.mu.Unlock()
	return a.state.time
}

func (a *action) IsRunning() bool {
	a.mixer.mu.Lock()
	defer a.mixer.mu.Unlock()
	return a.state.running
}

func (a *action) IsFinished() bool {
	a.mixer.mu.Lock()
	defer a.mixer.mu.Unlock()
	return a.state.finished
}

// clipDuration is read with the mixer lock held.
func (a *action) clipDuration() float32 {
	if a.clip == nil {
		return 0
	}
	return a.clip.Duration
}
