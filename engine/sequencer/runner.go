package sequencer

import (
	"github.com/rs/zerolog"
)

// RunnerState is the position of a Runner in its drain/loop cycle.
type RunnerState int

const (
	// StateExhausted means no pass is running; the next Start begins one.
	StateExhausted RunnerState = iota

	// StateDraining means a pass is consuming its queue copy.
	StateDraining

	// StateRestarting means a pass ended while looping was wanted and the next
	// pass is scheduled but has not begun.
	StateRestarting
)

func (s RunnerState) String() string {
	switch s {
	case StateDraining:
		return "draining"
	case StateRestarting:
		return "restarting"
	default:
		return "exhausted"
	}
}

// runner is the implementation of the Runner interface.
type runner struct {
	queue     Queue
	player    BatchPlayer
	scheduler Scheduler
	logger    zerolog.Logger
	observer  Observer

	loopWhile func() bool

	state    RunnerState
	pending  Queue
	position int
	passes   int
	loops    int
}

// Runner plays a queue batch by batch and starts it over while its loop
// condition holds. All methods must be called from the scheduler's context.
type Runner interface {
	// Start begins a pass over a fresh copy of the configured queue.
	// It does nothing while a pass is draining or a restart is pending.
	//
	// Returns:
	//   - bool: true if a new pass was started
	Start() bool

	// InFlight reports whether a pass is draining or a restart is pending.
	InFlight() bool

	// State returns the current runner state.
	State() RunnerState

	// Position returns how many batches of the current pass have been started.
	Position() int

	// Passes returns how many passes have been started.
	Passes() int

	// Loops returns how many automatic restarts have happened.
	Loops() int

	// SetLoopCondition sets the predicate checked when a pass ends. A nil
	// predicate never loops.
	//
	// Parameters:
	//   - fn: returns true when the queue should start over
	SetLoopCondition(fn func() bool)
}

var _ Runner = &runner{}

// NewRunner creates a new Runner over the configured queue.
//
// Parameters:
//   - queue: the configured queue; never modified
//   - player: plays each batch
//   - scheduler: runs the restart continuation
//   - options: a variadic list of RunnerBuilderOption functions to configure the Runner
//
// Returns:
//   - Runner: the new runner
func NewRunner(queue Queue, player BatchPlayer, scheduler Scheduler, options ...RunnerBuilderOption) Runner {
	r := &runner{
		queue:     queue,
		player:    player,
		scheduler: scheduler,
		logger:    zerolog.Nop(),
		observer:  NopObserver{},
		state:     StateExhausted,
	}

	for _, option := range options {
		option(r)
	}
	return r
}

func (r *runner) Start() bool {
	if r.InFlight() {
		return false
	}
	r.begin()
	return true
}

func (r *runner) InFlight() bool {
	return r.state != StateExhausted
}

func (r *runner) State() RunnerState {
	return r.state
}

func (r *runner) Position() int {
	return r.position
}

func (r *runner) Passes() int {
	return r.passes
}

func (r *runner) Loops() int {
	return r.loops
}

func (r *runner) SetLoopCondition(fn func() bool) {
	r.loopWhile = fn
}

func (r *runner) begin() {
	r.pending = r.queue.Copy()
	r.position = 0
	r.passes++
	r.state = StateDraining
	r.logger.Debug().Int("pass", r.passes).Int("batches", len(r.pending)).Msg("sequence started")
	r.next()
}

// next hands the front batch to the player, or ends the pass when none is left.
func (r *runner) next() {
	if len(r.pending) == 0 {
		r.exhausted()
		return
	}

	b := r.pending[0]
	r.pending[0] = nil
	r.pending = r.pending[1:]
	r.position++
	r.player.PlayBatch(b, r.next)
}

func (r *runner) exhausted() {
	r.state = StateExhausted
	r.logger.Info().Int("pass", r.passes).Msg("All animations finished")

	if r.loopWhile == nil || !r.loopWhile() {
		return
	}

	r.state = StateRestarting
	r.scheduler.After(0, func() {
		r.loops++
		r.observer.SequenceLooped()
		r.begin()
	})
}
