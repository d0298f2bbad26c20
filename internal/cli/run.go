package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Carmen-Shannon/oxy-stage/engine"
	"github.com/Carmen-Shannon/oxy-stage/engine/audio"
	"github.com/Carmen-Shannon/oxy-stage/engine/console"
	"github.com/Carmen-Shannon/oxy-stage/engine/loader"
	"github.com/Carmen-Shannon/oxy-stage/engine/logging"
	"github.com/Carmen-Shannon/oxy-stage/engine/loop"
	"github.com/Carmen-Shannon/oxy-stage/engine/playback"
	"github.com/Carmen-Shannon/oxy-stage/engine/profiler"
	"github.com/Carmen-Shannon/oxy-stage/engine/renderer"
	"github.com/Carmen-Shannon/oxy-stage/engine/stage"
	"github.com/Carmen-Shannon/oxy-stage/engine/telemetry"
	"github.com/Carmen-Shannon/oxy-stage/engine/window"
	"github.com/Carmen-Shannon/oxy-stage/internal/config"
	"github.com/chzyer/readline"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	runHeadless bool
	runHTTPAddr string
	runProfile  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the stage and wait for the play toggle",
	Long: `Loads the configured asset and soundtrack and opens the stage window.
Space, Enter or P toggles playback. With --headless no window is opened and
playback is toggled from the console prompt or with POST /toggle.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runHeadless, "headless", false, "run without a window")
	runCmd.Flags().StringVar(&runHTTPAddr, "http", "", "serve /status, /toggle and /metrics on this address")
	runCmd.Flags().BoolVar(&runProfile, "profile", false, "log tick rate and memory statistics")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if runHeadless {
		cfg.Window.Enabled = false
	}
	if runHTTPAddr != "" {
		cfg.HTTP.Addr = runHTTPAddr
	}
	if runProfile {
		cfg.Engine.Profiling = true
	}

	logger := logging.Setup(cfg.Log.Level, cfg.Log.Console)
	metrics := telemetry.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	track := openTrack(cfg.Audio, logger)
	defer track.Close()

	l := loop.NewLoop()
	l.OnFrame(func(dt time.Duration) {
		metrics.FrameSeconds.Observe(dt.Seconds())
	})

	stageOpts := []stage.StageBuilderOption{
		stage.WithLogger(logger),
		stage.WithLoader(loader.NewLoader(loader.BackendTypeGLTF, loader.WithLogger(logger))),
		stage.WithObserver(metrics),
		stage.WithToggleHook(metrics.Toggled),
	}

	engineOpts := []engine.EngineBuilderOption{
		engine.WithLoop(l),
		engine.WithLogger(logger),
		engine.WithTickRate(float64(cfg.Engine.TickRate)),
		engine.WithProfiling(cfg.Engine.Profiling),
		engine.WithProfiler(profiler.NewProfiler(profiler.WithLogger(logger))),
	}

	var (
		win window.Window
		rnd renderer.Renderer
	)
	if cfg.Window.Enabled {
		var err error
		win, rnd, err = openWindow(cfg.Window, logger)
		if err != nil {
			return err
		}
		defer win.Close()
		defer rnd.Release()

		stageOpts = append(stageOpts, stage.WithTitleSink(win.SetTitle))
		engineOpts = append(engineOpts, engine.WithWindow(win))
	}

	st := stage.NewStage(cfg, l, track, stageOpts...)
	defer st.Stop()
	eng := engine.NewEngine(engineOpts...)

	if win != nil {
		win.SetKeyDownCallback(func(keyCode uint32) {
			switch keyCode {
			case window.KeySpace, window.KeyEnter, window.KeyP:
				st.RequestToggle()
			case window.KeyQ:
				eng.Quit()
			}
		})
		eng.SetRenderCallback(func(float32) {
			if err := rnd.RenderFrame(); err != nil {
				logger.Debug().Err(err).Msg("frame skipped")
			}
		})
	}

	if cfg.HTTP.Addr != "" {
		go func() {
			if err := stage.Serve(ctx, cfg.HTTP.Addr, stage.NewRouter(st, metrics, logger), logger); err != nil {
				logger.Error().Err(err).Msg("http control surface stopped")
			}
		}()
	}

	if win == nil {
		startConsole(ctx, st, eng, logger)
	}

	st.Load()
	logger.Info().
		Str("asset", cfg.Asset.Path).
		Int("batches", len(cfg.Queue)).
		Bool("window", win != nil).
		Msg("stage ready, waiting for play")

	eng.Run(ctx)
	return nil
}

// openTrack opens the configured soundtrack, falling back to a silent track so
// a missing or broken file never stops the animation.
func openTrack(c config.AudioConfig, logger zerolog.Logger) audio.Track {
	backend, err := audio.ParseBackend(c.Backend)
	if err != nil {
		logger.Warn().Err(err).Msg("using silent audio")
		backend = audio.BackendSilent
	}

	opts := []audio.TrackBuilderOption{audio.WithLoop(c.Loop), audio.WithLogger(logger)}
	track, err := audio.NewTrack(backend, c.Path, opts...)
	if err != nil {
		logger.Warn().Err(err).Str("path", c.Path).Msg("soundtrack unavailable, using silent audio")
		return audio.NewSilentTrack(opts...)
	}
	return track
}

func openWindow(c config.WindowConfig, logger zerolog.Logger) (window.Window, renderer.Renderer, error) {
	clearColor, err := config.ParseColor(c.ClearColor)
	if err != nil {
		return nil, nil, err
	}

	win, err := window.NewWindow(
		window.WithTitle(stage.Title(c.Title, playback.LabelPlay)),
		window.WithSize(c.Width, c.Height),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("%w (use --headless to run without a window)", err)
	}

	rnd, err := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithClearColor(clearColor),
		renderer.WithPresentMode(renderer.PresentModeVSync),
	)
	if err != nil {
		_ = win.Close()
		return nil, nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	win.SetResizeCallback(func(width, height int) {
		if err := rnd.Resize(width, height); err != nil {
			logger.Warn().Err(err).Int("width", width).Int("height", height).Msg("resize failed")
		}
	})
	return win, rnd, nil
}

// startConsole runs the toggle prompt when stdin is a terminal. Leaving the
// prompt quits the engine.
func startConsole(ctx context.Context, st stage.Stage, eng engine.Engine, logger zerolog.Logger) {
	if !readline.IsTerminal(int(os.Stdin.Fd())) {
		logger.Info().Msg("stdin is not a terminal, console disabled")
		return
	}

	c, err := console.NewConsole(stage.ConsoleHandler(st, 2*time.Second), console.WithLogger(logger))
	if err != nil {
		logger.Warn().Err(err).Msg("console unavailable")
		return
	}

	go func() {
		if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("console stopped")
		}
		eng.Quit()
	}()
}
