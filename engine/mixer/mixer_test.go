package mixer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-stage/engine/model"
)

func testClip(name string, duration float32) *model.AnimationClip {
	return &model.AnimationClip{
		Name:     name,
		Duration: duration,
		Channels: []model.AnimationChannel{{
			NodeIndex: 0,
			PositionKeys: []model.VectorKeyframe{
				{Time: 0, Value: [3]float32{0, 0, 0}},
				{Time: duration, Value: [3]float32{2, 4, 6}},
			},
		}},
	}
}

func TestLoopOnceFinishesAndClamps(t *testing.T) {
	m := NewMixer()
	clip := testClip("21", 1)

	var events int
	m.AddFinishedListener(func(a Action) { events++ })

	a := m.CreateAction(clip).SetLoop(LoopOnce).SetClampWhenFinished(true).Play()

	m.Update(0.6)
	if events != 0 {
		t.Fatalf("events after 0.6s = %d, want 0", events)
	}
	m.Update(0.6)
	if events != 1 {
		t.Fatalf("events after 1.2s = %d, want 1", events)
	}
	if got := a.Time(); got != 1 {
		t.Errorf("Time() = %v, want 1 (clamped)", got)
	}
	if !a.IsFinished() || a.IsRunning() {
		t.Errorf("IsFinished = %v, IsRunning = %v, want true, false", a.IsFinished(), a.IsRunning())
	}

	m.Update(5)
	if events != 1 {
		t.Errorf("events after extra updates = %d, want 1", events)
	}
	if got := m.ActiveActions(); got != 1 {
		t.Errorf("ActiveActions() = %d, want 1 for a clamped action", got)
	}
}

func TestUnclampedActionLeavesMixer(t *testing.T) {
	m := NewMixer()
	m.CreateAction(testClip("21", 0.5)).SetLoop(LoopOnce).Play()
	m.Update(1)
	if got := m.ActiveActions(); got != 0 {
		t.Errorf("ActiveActions() = %d, want 0", got)
	}
}

func TestFrozenMixerDoesNotAdvance(t *testing.T) {
	m := NewMixer()
	var events int
	m.AddFinishedListener(func(a Action) { events++ })

	a := m.CreateAction(testClip("21", 1)).SetLoop(LoopOnce).Play()
	m.Update(0.5)
	m.SetAdvancing(false)
	if m.Advancing() {
		t.Fatal("Advancing() = true after SetAdvancing(false)")
	}

	for i := 0; i < 10; i++ {
		m.Update(1)
	}
	if events != 0 {
		t.Errorf("events while frozen = %d, want 0", events)
	}
	if got := a.Time(); got != 0.5 {
		t.Errorf("Time() while frozen = %v, want 0.5", got)
	}

	m.SetAdvancing(true)
	m.Update(0.5)
	if events != 1 {
		t.Errorf("events after resume = %d, want 1", events)
	}
}

func TestDuplicateClipsPlayIndependently(t *testing.T) {
	m := NewMixer()
	clip := testClip("21", 1)

	seen := map[Action]int{}
	m.AddFinishedListener(func(a Action) { seen[a]++ })

	a := m.CreateAction(clip)
	b := m.CreateAction(clip)
	if a == b {
		t.Fatal("CreateAction returned the same action twice")
	}
	a.SetLoop(LoopOnce).Play()
	b.SetLoop(LoopOnce).Play()

	m.Update(2)
	if seen[a] != 1 || seen[b] != 1 {
		t.Errorf("finished counts = %d, %d, want 1, 1", seen[a], seen[b])
	}
}

func TestListenerRemovedDuringDispatch(t *testing.T) {
	m := NewMixer()
	var calls int
	var id ListenerID
	id = m.AddFinishedListener(func(a Action) {
		calls++
		m.RemoveFinishedListener(id)
	})

	m.CreateAction(testClip("21", 1)).SetLoop(LoopOnce).Play()
	m.CreateAction(testClip("22", 1)).SetLoop(LoopOnce).Play()
	m.Update(2)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestLoopRepeatWraps(t *testing.T) {
	m := NewMixer()
	var events int
	m.AddFinishedListener(func(a Action) { events++ })

	a := m.CreateAction(testClip("21", 1)).Play()
	m.Update(2.5)
	if got := a.Time(); got < 0.49 || got > 0.51 {
		t.Errorf("Time() = %v, want 0.5", got)
	}
	if events != 0 {
		t.Errorf("events = %d, want 0 for a repeating action", events)
	}
}

func TestZeroDurationClipFinishesOnFirstUpdate(t *testing.T) {
	m := NewMixer()
	var events int
	m.AddFinishedListener(func(a Action) { events++ })

	m.CreateAction(testClip("21", 0)).SetLoop(LoopOnce).Play()
	m.Update(0.016)
	if events != 1 {
		t.Errorf("events = %d, want 1", events)
	}
}

func TestReplayEvictsFinishedAction(t *testing.T) {
	m := NewMixer()
	clip := testClip("21", 1)

	m.CreateAction(clip).SetLoop(LoopOnce).SetClampWhenFinished(true).Play()
	m.Update(2)
	m.CreateAction(clip).SetLoop(LoopOnce).SetClampWhenFinished(true).Play()

	if got := m.ActiveActions(); got != 1 {
		t.Errorf("ActiveActions() = %d, want 1", got)
	}
}

func TestEvaluate(t *testing.T) {
	m := NewMixer()
	nodes := []model.Node{
		{Name: "note", ParentIndex: -1, LocalTransform: model.IdentityTransform()},
		{Name: "other", ParentIndex: -1, LocalTransform: model.IdentityTransform()},
	}

	m.CreateAction(testClip("21", 2)).SetLoop(LoopOnce).Play()
	m.Update(1)

	pose := m.Evaluate(nodes)
	if got := pose[0].Translation; got != [3]float32{1, 2, 3} {
		t.Errorf("pose[0].Translation = %v, want [1 2 3]", got)
	}
	if got := pose[1]; got != model.IdentityTransform() {
		t.Errorf("pose[1] = %+v, want identity", got)
	}
}

func TestSampleQuaternionShortestArc(t *testing.T) {
	keys := []model.QuaternionKeyframe{
		{Time: 0, Value: [4]float32{0, 0, 0, 1}},
		{Time: 1, Value: [4]float32{0, 0, 0, -1}},
	}
	got := sampleQuaternion(keys, 0.5)
	if got != [4]float32{0, 0, 0, 1} {
		t.Errorf("sampleQuaternion = %v, want identity", got)
	}
}
