package engine

import (
	"context"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-stage/engine/loop"
	"github.com/Carmen-Shannon/oxy-stage/engine/profiler"
)

func TestHeadlessRunAdvancesLoop(t *testing.T) {
	l := loop.NewLoop()
	ticks := 0
	p := profiler.NewProfiler(profiler.WithFrameObserver(func(time.Duration) { ticks++ }))
	e := NewEngine(WithLoop(l), WithTickRate(500), WithProfiling(true), WithProfiler(p))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		e.Run(ctx)
		close(done)
	}()

	ran := make(chan time.Duration, 1)
	l.After(10*time.Millisecond, func() { ran <- l.Now() })

	select {
	case now := <-ran:
		if now < 10*time.Millisecond {
			t.Errorf("timer ran at loop time %v, want >= 10ms", now)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("loop timer never ran")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	// profiler ticks happen on the engine goroutine, which has exited
	if ticks == 0 {
		t.Error("profiler was never ticked")
	}
}

func TestQuitIsIdempotent(t *testing.T) {
	e := NewEngine()
	e.Quit()
	e.Quit()

	select {
	case <-e.Done():
	default:
		t.Fatal("Done() not closed after Quit")
	}

	done := make(chan struct{})
	go func() {
		e.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run after Quit did not return")
	}
}

func TestPostFromOtherGoroutine(t *testing.T) {
	e := NewEngine(WithTickRate(1000))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go e.Run(ctx)

	got := make(chan struct{})
	go e.Loop().Post(func() { close(got) })

	select {
	case <-got:
	case <-time.After(5 * time.Second):
		t.Fatal("posted function never ran")
	}
}
