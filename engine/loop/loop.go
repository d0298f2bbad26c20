package loop

import (
	"slices"
	"sync"
	"time"
)

// TimerID identifies a pending timer scheduled with After.
type TimerID uint64

// FrameHook runs once per Advance with the step delta.
type FrameHook func(dt time.Duration)

type timer struct {
	id  TimerID
	due time.Duration
	fn  func()
}

// loop is the implementation of the Loop interface.
type loop struct {
	mu sync.Mutex

	now     time.Duration
	nextID  TimerID
	posted  []func()
	timers  []timer
	starts  []FrameHook
	hooks   []FrameHook
	advance sync.Mutex
}

// Loop is a single-owner cooperative scheduler driven by explicit time steps.
//
// All callbacks run on the goroutine that calls Advance, one at a time, so state
// touched only from callbacks needs no further locking. Post is the only entry
// point meant for other goroutines.
//
// Work scheduled while Advance is running (posted functions and timers) waits for
// the next Advance, even when its delay is zero. A chain of zero-delay steps
// therefore makes one step of progress per tick.
type Loop interface {
	// Post queues fn to run at the start of the next Advance. Safe for concurrent use.
	//
	// Parameters:
	//   - fn: the function to run on the loop
	Post(fn func())

	// After schedules fn to run on the first Advance at which d has elapsed
	// from the current loop time.
	//
	// Parameters:
	//   - d: the delay; non-positive delays run on the next Advance
	//   - fn: the function to run
	//
	// Returns:
	//   - TimerID: the handle used to cancel the timer
	After(d time.Duration, fn func()) TimerID

	// Cancel removes a pending timer.
	//
	// Parameters:
	//   - id: the handle returned by After
	//
	// Returns:
	//   - bool: true if the timer was pending
	Cancel(id TimerID) bool

	// OnTickStart registers a hook called at the start of every Advance, before
	// posted functions and timers. Whatever those start therefore sees no time
	// until the following Advance.
	//
	// Parameters:
	//   - hook: the tick-start hook
	OnTickStart(hook FrameHook)

	// OnFrame registers a hook called at the end of every Advance with the step delta.
	//
	// Parameters:
	//   - hook: the frame hook
	OnFrame(hook FrameHook)

	// Advance moves loop time forward by dt and runs, in order: every tick-start
	// hook, functions posted before the call, timers scheduled before the call that
	// are now due (earliest first, ties in scheduling order), then every frame hook.
	//
	// Parameters:
	//   - dt: the time step
	Advance(dt time.Duration)

	// Now returns the loop time.
	Now() time.Duration

	// Pending returns the number of posted functions and timers not yet run.
	Pending() int
}

var _ Loop = &loop{}

// NewLoop creates an empty Loop at time zero.
//
// Returns:
//   - Loop: the new loop
func NewLoop() Loop {
	return &loop{}
}

func (l *loop) Post(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.posted = append(l.posted, fn)
}

func (l *loop) After(d time.Duration, fn func()) TimerID {
	l.mu.Lock()
	defer l.mu.Unlock()

	if d < 0 {
		d = 0
	}
	l.nextID++
	l.timers = append(l.timers, timer{id: l.nextID, due: l.now + d, fn: fn})
	return l.nextID
}

func (l *loop) Cancel(id TimerID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	before := len(l.timers)
	l.timers = slices.DeleteFunc(l.timers, func(t timer) bool { return t.id == id })
	return len(l.timers) != before
}

func (l *loop) OnTickStart(hook FrameHook) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.starts = append(l.starts, hook)
}

func (l *loop) OnFrame(hook FrameHook) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hooks = append(l.hooks, hook)
}

func (l *loop) Advance(dt time.Duration) {
	l.advance.Lock()
	defer l.advance.Unlock()

	l.mu.Lock()
	if dt > 0 {
		l.now += dt
	}
	now := l.now
	mark := l.nextID
	posted := l.posted
	l.posted = nil
	starts := slices.Clone(l.starts)
	l.mu.Unlock()

	for _, h := range starts {
		h(dt)
	}

	for _, fn := range posted {
		fn()
	}

	for _, t := range l.takeDue(now, mark) {
		// a callback earlier in this batch may have cancelled t
		if !l.claim(t.id) {
			continue
		}
		t.fn()
	}

	l.mu.Lock()
	hooks := slices.Clone(l.hooks)
	l.mu.Unlock()
	for _, h := range hooks {
		h(dt)
	}
}

// takeDue returns the timers due at now that were scheduled before mark, sorted
// by due time and then by id. They stay registered until claimed.
func (l *loop) takeDue(now time.Duration, mark TimerID) []timer {
	l.mu.Lock()
	defer l.mu.Unlock()

	var due []timer
	for _, t := range l.timers {
		if t.id <= mark && t.due <= now {
			due = append(due, t)
		}
	}
	slices.SortFunc(due, func(a, b timer) int {
		if a.due != b.due {
			if a.due < b.due {
				return -1
			}
			return 1
		}
		if a.id < b.id {
			return -1
		}
		return 1
	})
	return due
}

// claim removes a timer and reports whether it was still pending.
func (l *loop) claim(id TimerID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := slices.IndexFunc(l.timers, func(t timer) bool { return t.id == id })
	if i < 0 {
		return false
	}
	l.timers = slices.Delete(l.timers, i, i+1)
	return true
}

func (l *loop) Now() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.now
}

func (l *loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.posted) + len(l.timers)
}
