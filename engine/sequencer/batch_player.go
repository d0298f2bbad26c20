package sequencer

import (
	"github.com/Carmen-Shannon/oxy-stage/engine/mixer"
	"github.com/rs/zerolog"
)

// batchPlayer is the implementation of the BatchPlayer interface.
type batchPlayer struct {
	timeBase  TimeBase
	scheduler Scheduler
	logger    zerolog.Logger
	observer  Observer
}

// BatchPlayer plays every resolved clip of a batch at once and reports when all have finished.
type BatchPlayer interface {
	// PlayBatch starts one fresh one-shot action per resolved clip, each clamped
	// on its last pose. When every one of those actions has finished, and then
	// the batch delay has elapsed, onAllFinished runs once on the scheduler.
	// A batch without resolved clips only waits out its delay.
	//
	// Parameters:
	//   - batch: the batch to play
	//   - onAllFinished: the continuation; never called synchronously
	PlayBatch(batch *Batch, onAllFinished func())
}

var _ BatchPlayer = &batchPlayer{}

// NewBatchPlayer creates a new BatchPlayer with the given options applied.
//
// Parameters:
//   - timeBase: the mixer that owns the actions
//   - scheduler: runs the post-batch delay
//   - options: a variadic list of BatchPlayerBuilderOption functions to configure the BatchPlayer
//
// Returns:
//   - BatchPlayer: the new batch player
func NewBatchPlayer(timeBase TimeBase, scheduler Scheduler, options ...BatchPlayerBuilderOption) BatchPlayer {
	p := &batchPlayer{
		timeBase:  timeBase,
		scheduler: scheduler,
		logger:    zerolog.Nop(),
		observer:  NopObserver{},
	}

	for _, option := range options {
		option(p)
	}
	return p
}

func (p *batchPlayer) PlayBatch(batch *Batch, onAllFinished func()) {
	clips := batch.Resolved()
	p.observer.BatchStarted(len(clips))

	fired := false
	complete := func() {
		if fired {
			return
		}
		fired = true
		p.scheduler.After(batch.Delay, func() {
			p.observer.BatchCompleted()
			onAllFinished()
		})
	}

	if len(clips) == 0 {
		p.logger.Debug().Dur("delay", batch.Delay).Msg("rest step")
		complete()
		return
	}

	// seen[a] is false until a's finished event has been counted.
	seen := make(map[mixer.Action]bool, len(clips))
	names := make([]string, 0, len(clips))
	finished := 0

	var listener mixer.ListenerID
	listener = p.timeBase.AddFinishedListener(func(a mixer.Action) {
		counted, ours := seen[a]
		if !ours || counted {
			return
		}
		seen[a] = true
		finished++
		if finished < len(seen) {
			return
		}

		p.timeBase.RemoveFinishedListener(listener)
		p.logger.Info().Strs("clips", names).Msgf("Finished animations: %v", names)
		complete()
	})

	actions := make([]mixer.Action, 0, len(clips))
	for _, clip := range clips {
		a := p.timeBase.CreateAction(clip)
		a.SetLoop(mixer.LoopOnce).SetClampWhenFinished(true).Reset()
		seen[a] = false
		names = append(names, clip.Name)
		actions = append(actions, a)
	}

	for _, a := range actions {
		p.logger.Info().Str("clip", a.Clip().Name).Msgf("Playing animation: %s", a.Clip().Name)
		a.Play()
	}
}
