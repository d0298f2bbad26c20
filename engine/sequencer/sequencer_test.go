package sequencer

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-stage/engine/loop"
	"github.com/Carmen-Shannon/oxy-stage/engine/mixer"
	"github.com/Carmen-Shannon/oxy-stage/engine/model"
)

const step = 10 * time.Millisecond

type library map[string]*model.AnimationClip

func (l library) FindAnimation(name string) (*model.AnimationClip, bool) {
	c, ok := l[name]
	return c, ok
}

func clip(name string, seconds float32) *model.AnimationClip {
	return &model.AnimationClip{Name: name, Duration: seconds}
}

// countingTimeBase counts created actions.
type countingTimeBase struct {
	mixer.Mixer
	created int
}

func (c *countingTimeBase) CreateAction(clip *model.AnimationClip) mixer.Action {
	c.created++
	return c.Mixer.CreateAction(clip)
}

type harness struct {
	loop  loop.Loop
	mixer *countingTimeBase
}

func newHarness() *harness {
	h := &harness{loop: loop.NewLoop(), mixer: &countingTimeBase{Mixer: mixer.NewMixer()}}
	h.loop.OnFrame(func(dt time.Duration) {
		h.mixer.Update(float32(dt.Seconds()))
	})
	return h
}

// run advances the loop in fixed steps for d.
func (h *harness) run(d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += step {
		h.loop.Advance(step)
	}
}

func resolvedBatch(delay time.Duration, clips ...*model.AnimationClip) *Batch {
	b := &Batch{Delay: delay, resolved: true}
	for _, c := range clips {
		b.Refs = append(b.Refs, ClipRef{Name: c.Name, Clip: c})
	}
	return b
}

func TestBatchCompletesOnceAfterAllClips(t *testing.T) {
	h := newHarness()
	p := NewBatchPlayer(h.mixer, h.loop)

	a, b := clip("A", 0.1), clip("B", 0.3)
	var fired int
	p.PlayBatch(resolvedBatch(0, a, b, a), func() { fired++ })

	if h.mixer.created != 3 {
		t.Fatalf("created = %d, want 3 (duplicates get their own action)", h.mixer.created)
	}

	h.run(250 * time.Millisecond)
	if fired != 0 {
		t.Fatalf("fired = %d before the longest clip finished, want 0", fired)
	}

	h.run(100 * time.Millisecond)
	if fired != 1 {
		t.Fatalf("fired = %d after every clip finished, want 1", fired)
	}

	h.run(time.Second)
	if fired != 1 {
		t.Errorf("fired = %d later on, want exactly 1", fired)
	}
}

func TestBatchIgnoresForeignFinishedEvents(t *testing.T) {
	h := newHarness()
	p := NewBatchPlayer(h.mixer, h.loop)

	for i := 0; i < 3; i++ {
		h.mixer.Mixer.CreateAction(clip("other", 0.05)).SetLoop(mixer.LoopOnce).Play()
	}

	var fired int
	p.PlayBatch(resolvedBatch(0, clip("A", 0.3)), func() { fired++ })

	h.run(200 * time.Millisecond)
	if fired != 0 {
		t.Fatalf("fired = %d after unrelated actions finished, want 0", fired)
	}
	h.run(200 * time.Millisecond)
	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}
}

func TestBatchWaitsDelayAfterFinishing(t *testing.T) {
	h := newHarness()
	p := NewBatchPlayer(h.mixer, h.loop)

	var fired bool
	p.PlayBatch(resolvedBatch(200*time.Millisecond, clip("A", 0.1)), func() { fired = true })

	h.run(250 * time.Millisecond)
	if fired {
		t.Fatal("fired before the delay elapsed")
	}
	h.run(100 * time.Millisecond)
	if !fired {
		t.Error("did not fire after clip and delay")
	}
}

func TestRestStepWaitsExactlyItsDelay(t *testing.T) {
	h := newHarness()
	p := NewBatchPlayer(h.mixer, h.loop)

	var fired int
	p.PlayBatch(NewBatch(500*time.Millisecond), func() { fired++ })

	h.loop.Advance(499 * time.Millisecond)
	if fired != 0 {
		t.Fatal("rest step fired before its delay")
	}
	h.loop.Advance(time.Millisecond)
	if fired != 1 {
		t.Fatalf("fired = %d at exactly the delay, want 1", fired)
	}
	if h.mixer.created != 0 {
		t.Errorf("created = %d, want 0 for a rest step", h.mixer.created)
	}
}

func TestBatchFrozenTimeBaseDoesNotComplete(t *testing.T) {
	h := newHarness()
	p := NewBatchPlayer(h.mixer, h.loop)

	var fired int
	p.PlayBatch(resolvedBatch(0, clip("A", 0.2)), func() { fired++ })

	h.run(100 * time.Millisecond)
	h.mixer.SetAdvancing(false)
	h.run(5 * time.Second)
	if fired != 0 {
		t.Fatalf("fired = %d while frozen, want 0", fired)
	}

	h.mixer.SetAdvancing(true)
	h.run(150 * time.Millisecond)
	if fired != 1 {
		t.Errorf("fired = %d after resume, want 1", fired)
	}
	if h.mixer.created != 1 {
		t.Errorf("created = %d, want 1 (resume keeps the in-flight action)", h.mixer.created)
	}
}

// recordingPlayer completes every batch on the next tick and records visit order.
type recordingPlayer struct {
	scheduler Scheduler
	visited   []*Batch
}

func (p *recordingPlayer) PlayBatch(b *Batch, done func()) {
	p.visited = append(p.visited, b)
	p.scheduler.After(b.Delay, done)
}

func TestRunnerVisitsBatchesInOrderEachPass(t *testing.T) {
	l := loop.NewLoop()
	q := Queue{NewBatch(0, "1"), NewBatch(0, "2"), NewBatch(0, "3"), NewBatch(0, "4")}
	original := q.Copy()

	p := &recordingPlayer{scheduler: l}
	r := NewRunner(q, p, l)
	passes := 0
	r.SetLoopCondition(func() bool {
		passes++
		return passes < 3
	})

	if !r.Start() {
		t.Fatal("Start() = false on an idle runner")
	}
	for i := 0; i < 100 && r.InFlight(); i++ {
		l.Advance(step)
	}
	if r.InFlight() {
		t.Fatal("runner still in flight after its last pass")
	}

	if len(p.visited) != 3*len(q) {
		t.Fatalf("visited %d batches, want %d", len(p.visited), 3*len(q))
	}
	for i, b := range p.visited {
		if want := q[i%len(q)]; b != want {
			t.Fatalf("visit %d = %v, want %v", i, b.Names(), want.Names())
		}
	}
	if r.Loops() != 2 || r.Passes() != 3 {
		t.Errorf("Loops() = %d, Passes() = %d, want 2, 3", r.Loops(), r.Passes())
	}

	for i := range original {
		if q[i] != original[i] {
			t.Fatalf("configured queue changed at %d", i)
		}
	}
}

func TestRunnerStartIsNoopWhileInFlight(t *testing.T) {
	l := loop.NewLoop()
	p := &recordingPlayer{scheduler: l}
	r := NewRunner(Queue{NewBatch(100 * time.Millisecond)}, p, l)

	if !r.Start() {
		t.Fatal("first Start() = false")
	}
	if r.Start() {
		t.Error("second Start() = true while draining")
	}
	if len(p.visited) != 1 {
		t.Errorf("visited = %d, want 1", len(p.visited))
	}
	if r.State() != StateDraining || r.Position() != 1 {
		t.Errorf("State() = %v, Position() = %d, want draining, 1", r.State(), r.Position())
	}
}

func TestRunnerStopsWithoutLoopCondition(t *testing.T) {
	l := loop.NewLoop()
	p := &recordingPlayer{scheduler: l}
	r := NewRunner(Queue{NewBatch(0)}, p, l)

	r.Start()
	l.Advance(step)
	l.Advance(step)
	if r.State() != StateExhausted {
		t.Fatalf("State() = %v, want exhausted", r.State())
	}

	if !r.Start() {
		t.Fatal("Start() after exhaustion = false")
	}
	if len(p.visited) != 2 {
		t.Errorf("visited = %d, want 2", len(p.visited))
	}
}

func TestRunnerRestartIsDeferred(t *testing.T) {
	l := loop.NewLoop()
	p := &recordingPlayer{scheduler: l}
	r := NewRunner(Queue{NewBatch(0)}, p, l, WithLoopCondition(func() bool { return true }))

	r.Start()
	l.Advance(step)
	if r.State() != StateRestarting {
		t.Fatalf("State() = %v right after exhaustion, want restarting", r.State())
	}
	if !r.InFlight() {
		t.Error("InFlight() = false while a restart is pending")
	}
	if len(p.visited) != 1 {
		t.Errorf("visited = %d before the restart ran, want 1", len(p.visited))
	}

	l.Advance(step)
	if r.State() != StateDraining || len(p.visited) != 2 {
		t.Errorf("State() = %v, visited = %d, want draining, 2", r.State(), len(p.visited))
	}
}

func TestResolverDropsMissingNames(t *testing.T) {
	lib := library{"A": clip("A", 0.1)}
	q := Queue{NewBatch(0, "A", "B")}

	report := NewResolver().Resolve(q, lib)
	if report.Resolved != 1 {
		t.Errorf("Resolved = %d, want 1", report.Resolved)
	}
	if len(report.Missing) != 1 || report.Missing[0] != "B" {
		t.Errorf("Missing = %v, want [B]", report.Missing)
	}
	if !errors.Is(report.Err(), ErrUnresolvedClip) {
		t.Errorf("Err() = %v, want ErrUnresolvedClip", report.Err())
	}

	clips := q[0].Resolved()
	if len(clips) != 1 || clips[0].Name != "A" {
		t.Fatalf("Resolved() = %v, want [A]", clips)
	}

	again := NewResolver().Resolve(q, lib)
	if again.Skipped != 1 || again.Resolved != 0 || len(again.Missing) != 0 {
		t.Errorf("second Resolve = %+v, want one skipped batch", again)
	}
	if again.Err() != nil {
		t.Errorf("second Resolve Err() = %v, want nil", again.Err())
	}
}

type countingObserver struct {
	NopObserver
	unresolved, started, completed, looped int
}

func (o *countingObserver) ClipUnresolved(string) { o.unresolved++ }
func (o *countingObserver) BatchStarted(int)      { o.started++ }
func (o *countingObserver) BatchCompleted()       { o.completed++ }
func (o *countingObserver) SequenceLooped()       { o.looped++ }

func TestMissingClipStaysExcludedAcrossLoops(t *testing.T) {
	h := newHarness()
	obs := &countingObserver{}
	q := Queue{NewBatch(0, "A", "B")}
	NewResolver(WithResolverObserver(obs)).Resolve(q, library{"A": clip("A", 0.1)})

	p := NewBatchPlayer(h.mixer, h.loop, WithPlayerObserver(obs))
	r := NewRunner(q, p, h.loop, WithRunnerObserver(obs), WithLoopCondition(func() bool { return true }))
	r.Start()

	if h.mixer.created != 1 {
		t.Fatalf("created = %d on the first pass, want 1", h.mixer.created)
	}

	for i := 0; i < 200 && r.Loops() < 2; i++ {
		h.loop.Advance(step)
	}
	if r.Loops() < 2 {
		t.Fatal("runner did not loop twice")
	}
	if h.mixer.created != r.Passes() {
		t.Errorf("created = %d after %d passes, want one action per pass", h.mixer.created, r.Passes())
	}
	if got := q[0].Names(); len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Errorf("configured batch names = %v, want [A B]", got)
	}
	if obs.unresolved != 1 || obs.looped != r.Loops() || obs.started != r.Passes() {
		t.Errorf("observer = %+v for %d passes", obs, r.Passes())
	}
}

func TestRunnerRestQueue(t *testing.T) {
	h := newHarness()
	p := NewBatchPlayer(h.mixer, h.loop)
	r := NewRunner(Queue{NewBatch(500 * time.Millisecond)}, p, h.loop)

	r.Start()
	h.loop.Advance(499 * time.Millisecond)
	if r.State() != StateDraining {
		t.Fatalf("State() = %v before the delay elapsed, want draining", r.State())
	}
	h.loop.Advance(time.Millisecond)
	if r.State() != StateExhausted {
		t.Fatalf("State() = %v after the delay, want exhausted", r.State())
	}
	if h.mixer.created != 0 {
		t.Errorf("created = %d, want 0", h.mixer.created)
	}
}
