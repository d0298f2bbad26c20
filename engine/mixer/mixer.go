package mixer

import (
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-stage/engine/model"
)

// LoopMode controls what an action does when it reaches the end of its clip.
type LoopMode int

const (
	// LoopRepeat wraps the action time back to the start of the clip.
	LoopRepeat LoopMode = iota

	// LoopOnce stops the action at the end of the clip and emits a finished event.
	LoopOnce
)

// ListenerID identifies a registered finished listener.
type ListenerID uint64

// FinishedListener receives an action that has just played to the end of a LoopOnce clip.
type FinishedListener func(action Action)

type listenerEntry struct {
	id ListenerID
	fn FinishedListener
}

// mixer is the implementation of the Mixer interface.
type mixer struct {
	mu sync.Mutex

	timeScale float32
	time      float64

	// active holds playing and clamped actions in the order they started.
	active []*action

	listeners      []listenerEntry
	nextListenerID ListenerID
}

// Mixer is the animation time base. It advances every playing action by the
// scaled frame delta and notifies listeners when a one-shot action finishes.
//
// A Mixer is owned by a single execution context. Listeners run synchronously
// inside Update and may add or remove listeners and actions while they run.
type Mixer interface {
	// CreateAction returns a new, stopped action for clip. Every call returns a
	// distinct action, so the same clip can play twice at once.
	//
	// Parameters:
	//   - clip: the clip the action plays
	//
	// Returns:
	//   - Action: the new action
	CreateAction(clip *model.AnimationClip) Action

	// AddFinishedListener registers fn for finished events.
	//
	// Parameters:
	//   - fn: the listener to call
	//
	// Returns:
	//   - ListenerID: the handle used to remove the listener
	AddFinishedListener(fn FinishedListener) ListenerID

	// RemoveFinishedListener detaches a listener. A listener removed while
	// events are being dispatched receives no further events, including the
	// remaining events of the same Update.
	//
	// Parameters:
	//   - id: the handle returned by AddFinishedListener
	RemoveFinishedListener(id ListenerID)

	// Update advances every running action by dt scaled by the time scale.
	// Nothing moves and no events fire while the time scale is zero.
	//
	// Parameters:
	//   - dt: the frame delta in seconds
	Update(dt float32)

	// SetTimeScale sets the multiplier applied to every Update delta.
	//
	// Parameters:
	//   - scale: the new time scale; zero freezes the mixer
	SetTimeScale(scale float32)

	// TimeScale returns the current time scale.
	TimeScale() float32

	// SetAdvancing freezes (false) or un-freezes (true) the mixer by setting the
	// time scale to 0 or 1. Action times are left untouched.
	//
	// Parameters:
	//   - advancing: whether Update should move time forward
	SetAdvancing(advancing bool)

	// Advancing reports whether the time scale is non-zero.
	Advancing() bool

	// Time returns the accumulated scaled time in seconds.
	Time() float64

	// ActiveActions returns the number of playing or clamped actions.
	ActiveActions() int

	// Evaluate samples every active action at its current time on top of the
	// given bind pose. Later actions override earlier ones on shared nodes.
	//
	// Parameters:
	//   - nodes: the scene nodes whose local transforms form the base pose
	//
	// Returns:
	//   - []model.Transform: one local transform per node
	Evaluate(nodes []model.Node) []model.Transform
}

var _ Mixer = &mixer{}

// NewMixer creates a new Mixer with the given options applied. The time scale defaults to 1.
//
// Parameters:
//   - options: a variadic list of MixerBuilderOption functions to configure the Mixer
//
// Returns:
//   - Mixer: the new mixer
func NewMixer(options ...MixerBuilderOption) Mixer {
	m := &mixer{
		timeScale: 1,
	}

	for _, option := range options {
		option(m)
	}
	return m
}

func (m *mixer) CreateAction(clip *model.AnimationClip) Action {
	return &action{
		mixer: m,
		clip:  clip,
		state: actionState{loop: LoopRepeat},
	}
}

func (m *mixer) AddFinishedListener(fn FinishedListener) ListenerID {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextListenerID++
	m.listeners = append(m.listeners, listenerEntry{id: m.nextListenerID, fn: fn})
	return m.nextListenerID
}

func (m *mixer) RemoveFinishedListener(id ListenerID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.listeners = slices.DeleteFunc(m.listeners, func(e listenerEntry) bool {
		return e.id == id
	})
}

func (m *mixer) Update(dt float32) {
	m.mu.Lock()
	if m.timeScale == 0 {
		m.mu.Unlock()
		return
	}

	delta := dt * m.timeScale
	m.time += float64(delta)

	var finished []*action
	kept := m.active[:0]
	for _, a := range m.active {
		if a.state.advance(delta, a.clipDuration()) {
			finished = append(finished, a)
			if !a.state.clamp {
				continue
			}
		}
		kept = append(kept, a)
	}
	clear(m.active[len(kept):])
	m.active = kept
	m.mu.Unlock()

	for _, a := range finished {
		m.dispatchFinished(a)
	}
}

// dispatchFinished delivers one event to the listeners registered at the time
// of the call, re-checking registration before each delivery.
func (m *mixer) dispatchFinished(a *action) {
	m.mu.Lock()
	targets := slices.Clone(m.listeners)
	m.mu.Unlock()

	for _, l := range targets {
		if !m.hasListener(l.id) {
			continue
		}
		l.fn(a)
	}
}

func (m *mixer) hasListener(id ListenerID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.ContainsFunc(m.listeners, func(e listenerEntry) bool {
		return e.id == id
	})
}

func (m *mixer) SetTimeScale(scale float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeScale = scale
}

func (m *mixer) TimeScale() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timeScale
}

func (m *mixer) SetAdvancing(advancing bool) {
	if advancing {
		m.SetTimeScale(1)
		return
	}
	m.SetTimeScale(0)
}

func (m *mixer) Advancing() bool {
	return m.TimeScale() != 0
}

func (m *mixer) Time() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.time
}

func (m *mixer) ActiveActions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

func (m *mixer) Evaluate(nodes []model.Node) []model.Transform {
	pose := make([]model.Transform, len(nodes))
	for i := range nodes {
		pose[i] = nodes[i].LocalTransform
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.active {
		if a.clip == nil {
			continue
		}
		for _, ch := range a.clip.Channels {
			if ch.NodeIndex < 0 || int(ch.NodeIndex) >= len(pose) {
				continue
			}
			sampleChannel(&pose[ch.NodeIndex], ch, a.state.time)
		}
	}
	return pose
}

// start puts a into the active list. Finished actions of the same clip are
// dropped so clamped poses do not pile up across repeated plays.
func (m *mixer) start(a *action) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.active = slices.DeleteFunc(m.active, func(o *action) bool {
		return o != a && o.clip == a.clip && o.state.finished
	})
	if !slices.Contains(m.active, a) {
		m.active = append(m.active, a)
	}
}

func (m *mixer) stop(a *action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = slices.DeleteFunc(m.active, func(o *action) bool {
		return o == a
	})
}
