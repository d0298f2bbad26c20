package sequencer

import (
	"time"

	"github.com/Carmen-Shannon/oxy-stage/engine/loop"
	"github.com/Carmen-Shannon/oxy-stage/engine/mixer"
	"github.com/Carmen-Shannon/oxy-stage/engine/model"
)

// ClipLibrary finds clips by exact name. model.Model satisfies it.
type ClipLibrary interface {
	FindAnimation(name string) (*model.AnimationClip, bool)
}

// TimeBase is the part of mixer.Mixer the batch player drives.
type TimeBase interface {
	CreateAction(clip *model.AnimationClip) mixer.Action
	AddFinishedListener(fn mixer.FinishedListener) mixer.ListenerID
	RemoveFinishedListener(id mixer.ListenerID)
}

// Scheduler runs deferred continuations. loop.Loop satisfies it.
type Scheduler interface {
	After(d time.Duration, fn func()) loop.TimerID
}

// Observer receives sequencing events for metrics. Every method is optional
// through NopObserver.
type Observer interface {
	ClipUnresolved(name string)
	BatchStarted(clips int)
	BatchCompleted()
	SequenceLooped()
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) ClipUnresolved(string) {}
func (NopObserver) BatchStarted(int)      {}
func (NopObserver) BatchCompleted()       {}
func (NopObserver) SequenceLooped()       {}
