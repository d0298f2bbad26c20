package stage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-stage/engine/loader"
	"github.com/Carmen-Shannon/oxy-stage/engine/loop"
	"github.com/Carmen-Shannon/oxy-stage/engine/mixer"
	"github.com/Carmen-Shannon/oxy-stage/engine/model"
	"github.com/Carmen-Shannon/oxy-stage/engine/playback"
	"github.com/Carmen-Shannon/oxy-stage/engine/sequencer"
	"github.com/Carmen-Shannon/oxy-stage/internal/config"
	"github.com/rs/zerolog"
)

// ErrStopped is returned by the request methods once the stage has stopped.
var ErrStopped = errors.New("stage stopped")

// Status is a point-in-time snapshot of the stage.
type Status struct {
	State         string   `json:"state"`
	Label         string   `json:"label"`
	Playing       bool     `json:"playing"`
	Loaded        bool     `json:"loaded"`
	LoadError     string   `json:"load_error,omitempty"`
	Asset         string   `json:"asset"`
	Runner        string   `json:"runner"`
	Position      int      `json:"position"`
	QueueLength   int      `json:"queue_length"`
	Passes        int      `json:"passes"`
	Loops         int      `json:"loops"`
	ActiveActions int      `json:"active_actions"`
	MixerTime     float64  `json:"mixer_time"`
	AnimatedNodes int      `json:"animated_nodes"`
	Unresolved    []string `json:"unresolved"`
}

// stage is the implementation of the Stage interface.
type stage struct {
	cfg *config.Config

	loop       loop.Loop
	loader     loader.Loader
	mixer      mixer.Mixer
	controller playback.Controller
	queue      sequencer.Queue
	observer   sequencer.Observer

	logger    zerolog.Logger
	titleSink func(title string)
	onToggled func(playing bool)

	// loop-owned
	model      model.Model
	runner     sequencer.Runner
	unresolved []string
	loadErr    error
	animated   int

	snapshot atomic.Pointer[Status]
	done     chan struct{}
	stopOnce sync.Once
}

// Stage is the assembled presentation: one asset, one soundtrack and one
// animation queue behind a single play/pause toggle.
//
// Methods without the Request prefix must be called on the loop. The Request
// methods and Status are safe from any goroutine.
type Stage interface {
	// Load starts loading the configured asset on the loader's worker pool.
	// When it finishes the clips are resolved and the sequence is attached on the loop.
	Load()

	// Toggle flips playback. Loop only.
	//
	// Returns:
	//   - Status: the snapshot after the toggle
	Toggle() Status

	// RequestToggle schedules a toggle on the loop without waiting.
	RequestToggle()

	// RequestToggleWait schedules a toggle on the loop and waits for it.
	//
	// Parameters:
	//   - ctx: bounds the wait
	//
	// Returns:
	//   - Status: the snapshot after the toggle
	//   - error: ctx.Err() or ErrStopped if the toggle did not run
	RequestToggleWait(ctx context.Context) (Status, error)

	// Status returns the latest snapshot, refreshed every loop frame.
	//
	// Returns:
	//   - Status: the snapshot
	Status() Status

	// Label returns the current toggle label.
	//
	// Returns:
	//   - string: "Play" or "Pause"
	Label() string

	// Stop makes pending and future requests fail with ErrStopped and stops the
	// loader's worker pool.
	Stop()
}

var _ Stage = &stage{}

// NewStage assembles a stage from configuration. The stage registers its frame
// hook on the loop; nothing runs until the loop is advanced.
//
// Parameters:
//   - cfg: the validated configuration
//   - l: the loop that owns all stage state
//   - track: the soundtrack
//   - options: functional options for stage configuration
//
// Returns:
//   - Stage: the assembled stage
func NewStage(cfg *config.Config, l loop.Loop, track playback.AudioTrack, options ...StageBuilderOption) Stage {
	s := &stage{
		cfg:      cfg,
		loop:     l,
		logger:   zerolog.Nop(),
		observer: sequencer.NopObserver{},
		done:     make(chan struct{}),
	}
	for _, opt := range options {
		opt(s)
	}

	if s.loader == nil {
		s.loader = loader.NewLoader(loader.BackendTypeGLTF, loader.WithLogger(s.logger))
	}

	s.queue = QueueFromConfig(cfg.Queue)
	s.mixer = mixer.NewMixer(mixer.WithTimeScale(0))
	s.controller = playback.NewController(track,
		playback.WithLogger(s.logger),
		playback.WithToggleHook(s.toggled),
	)

	l.OnTickStart(s.advance)
	l.OnFrame(s.frame)
	s.refresh()
	return s
}

// QueueFromConfig converts configured batches into a sequencer queue.
//
// Parameters:
//   - batches: the configured batches in play order
//
// Returns:
//   - sequencer.Queue: one batch per entry
func QueueFromConfig(batches []config.BatchConfig) sequencer.Queue {
	q := make(sequencer.Queue, 0, len(batches))
	for _, b := range batches {
		q = append(q, sequencer.NewBatch(b.Delay(), b.Names...))
	}
	return q
}

func (s *stage) Load() {
	path := s.cfg.Asset.Path
	s.logger.Info().Str("asset", path).Msg("loading asset")
	s.loader.LoadAsync(path, func(m model.Model, err error) {
		s.loop.Post(func() { s.attach(m, err) })
	})
}

// attach runs on the loop once the asset load finishes.
func (s *stage) attach(m model.Model, err error) {
	defer s.refresh()

	if err != nil {
		s.loadErr = err
		s.logger.Error().Err(err).Str("asset", s.cfg.Asset.Path).Msg("asset load failed")
		return
	}

	m.SetRootScale(s.cfg.Asset.RootScale)
	s.model = m

	report := sequencer.NewResolver(
		sequencer.WithResolverLogger(s.logger),
		sequencer.WithResolverObserver(s.observer),
	).Resolve(s.queue, m)
	s.unresolved = report.Missing
	s.logger.Info().
		Str("model", m.Name()).
		Int("clips", m.AnimationCount()).
		Int("resolved", report.Resolved).
		Int("missing", len(report.Missing)).
		Msg("asset ready")

	player := sequencer.NewBatchPlayer(s.mixer, s.loop,
		sequencer.WithPlayerLogger(s.logger),
		sequencer.WithPlayerObserver(s.observer),
	)
	s.runner = sequencer.NewRunner(s.queue, player, s.loop,
		sequencer.WithRunnerLogger(s.logger),
		sequencer.WithRunnerObserver(s.observer),
	)
	s.controller.AttachSequence(s.mixer, s.runner)
}

// advance moves the mixer by the loop step before the tick's toggles and batch
// continuations run, so actions they start begin at time zero. A frozen mixer
// ignores the step.
func (s *stage) advance(dt time.Duration) {
	s.mixer.Update(float32(dt.Seconds()))
}

// frame samples the current pose and publishes the snapshot.
func (s *stage) frame(time.Duration) {
	if s.model != nil {
		s.animated = posedNodes(s.model.Nodes(), s.mixer.Evaluate(s.model.Nodes()))
	}
	s.refresh()
}

// posedNodes counts the nodes whose pose differs from their bind transform.
func posedNodes(nodes []model.Node, pose []model.Transform) int {
	n := 0
	for i := range nodes {
		if pose[i] != nodes[i].LocalTransform {
			n++
		}
	}
	return n
}

func (s *stage) toggled(playing bool) {
	if s.onToggled != nil {
		s.onToggled(playing)
	}
}

func (s *stage) Toggle() Status {
	s.controller.Toggle()
	s.refresh()
	if s.titleSink != nil {
		s.titleSink(Title(s.cfg.Window.Title, s.controller.Label()))
	}
	return *s.snapshot.Load()
}

func (s *stage) RequestToggle() {
	s.loop.Post(func() { s.Toggle() })
}

func (s *stage) RequestToggleWait(ctx context.Context) (Status, error) {
	select {
	case <-s.done:
		return Status{}, ErrStopped
	default:
	}

	reply := make(chan Status, 1)
	s.loop.Post(func() { reply <- s.Toggle() })

	select {
	case st := <-reply:
		return st, nil
	case <-ctx.Done():
		return Status{}, ctx.Err()
	case <-s.done:
		return Status{}, ErrStopped
	}
}

func (s *stage) Status() Status {
	return *s.snapshot.Load()
}

func (s *stage) Label() string {
	return s.Status().Label
}

func (s *stage) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.loader.Close()
	})
}

// refresh publishes a new snapshot. Loop only.
func (s *stage) refresh() {
	st := &Status{
		State:         s.controller.State().String(),
		Label:         s.controller.Label(),
		Playing:       s.controller.Playing(),
		Loaded:        s.model != nil,
		Asset:         s.cfg.Asset.Path,
		Runner:        sequencer.StateExhausted.String(),
		QueueLength:   s.queue.Len(),
		ActiveActions: s.mixer.ActiveActions(),
		MixerTime:     s.mixer.Time(),
		AnimatedNodes: s.animated,
		Unresolved:    append([]string{}, s.unresolved...),
	}
	if s.loadErr != nil {
		st.LoadError = s.loadErr.Error()
	}
	if s.runner != nil {
		st.Runner = s.runner.State().String()
		st.Position = s.runner.Position()
		st.Passes = s.runner.Passes()
		st.Loops = s.runner.Loops()
	}
	s.snapshot.Store(st)
}

// Title formats the window title for a toggle label.
//
// Parameters:
//   - base: the configured title
//   - label: the toggle label
//
// Returns:
//   - string: the title bar text
func Title(base, label string) string {
	return fmt.Sprintf("%s [%s]", base, label)
}
