package engine

import (
	"context"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-stage/engine/loop"
	"github.com/Carmen-Shannon/oxy-stage/engine/profiler"
	"github.com/Carmen-Shannon/oxy-stage/engine/window"
	"github.com/rs/zerolog"
)

// engine implements the Engine interface.
// Coordinates the tick goroutine and, when present, the window thread.
type engine struct {
	wg sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	loop   loop.Loop
	window window.Window
	logger zerolog.Logger

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	renderCallback func(deltaTime float32)
}

// Engine drives a loop.Loop from wall-clock ticks and optionally runs a window.
type Engine interface {
	// Loop returns the loop advanced on every tick.
	//
	// Returns:
	//   - loop.Loop: the loop
	Loop() loop.Loop

	// Window returns the window, or nil when running headless.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// SetRenderCallback registers the function called each window frame on the
	// window thread. Unused when headless.
	//
	// Parameters:
	//   - callback: function receiving the frame delta in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// Run starts the tick goroutine and blocks. With a window it runs the
	// message loop on the calling goroutine until the window closes; headless it
	// waits for ctx or Quit. Either way the engine is shut down on return.
	//
	// Parameters:
	//   - ctx: cancelling it stops the engine
	Run(ctx context.Context)

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()

	// Done is closed once Quit has been called.
	//
	// Returns:
	//   - <-chan struct{}: the quit channel
	Done() <-chan struct{}
}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, tick rate, window, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		quitChannel:    make(chan struct{}),
		logger:         zerolog.Nop(),
		engineTickRate: time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.loop == nil {
		e.loop = loop.NewLoop()
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}
	return e
}

func (e *engine) Loop() loop.Loop {
	return e.loop
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Done() <-chan struct{} {
	return e.quitChannel
}

func (e *engine) Run(ctx context.Context) {
	stop := context.AfterFunc(ctx, e.signalQuit)
	defer stop()

	e.wg.Add(1)
	go e.handleEngine()

	if e.window != nil {
		go func() {
			<-e.quitChannel
			e.window.RequestClose()
		}()
		e.runWindow()
		e.signalQuit()
	} else {
		<-e.quitChannel
	}

	e.wg.Wait()
}

// runWindow pumps window messages on the calling goroutine, calling the render
// callback once per iteration.
func (e *engine) runWindow() {
	lastRender := time.Now()
	e.window.SetUpdateCallback(func() {
		now := time.Now()
		dt := float32(now.Sub(lastRender).Seconds())
		lastRender = now

		if e.renderCallback != nil {
			e.renderCallback(dt)
		}
	})
	e.window.ProcessMessages()
}

// Quit signals all engine goroutines to stop and shuts down the engine.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// handleEngine runs the fixed-rate tick loop in its own goroutine.
// Each tick advances the loop by the measured wall time since the previous tick.
// Recovers from panics so the window thread can shut down cleanly.
func (e *engine) handleEngine() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Interface("panic", r).Msg("engine goroutine recovered from panic")
			e.signalQuit()
		}
	}()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := now.Sub(lastTick)
			lastTick = now

			e.loop.Advance(dt)

			if e.profilingEnabled && e.profiler != nil {
				e.profiler.Tick()
			}
		}
	}
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}
