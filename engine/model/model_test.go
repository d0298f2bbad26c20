package model

import "testing"

func TestFindAnimationFirstMatchWins(t *testing.T) {
	first := &AnimationClip{Name: "21", Duration: 1}
	second := &AnimationClip{Name: "21", Duration: 2}
	m := NewModel(WithAnimations([]*AnimationClip{
		{Name: "20"},
		first,
		second,
	}))

	clip, ok := m.FindAnimation("21")
	if !ok {
		t.Fatal("FindAnimation(21) = not found, want found")
	}
	if clip != first {
		t.Errorf("FindAnimation(21) returned duration %v, want %v", clip.Duration, first.Duration)
	}

	if _, ok := m.FindAnimation("2"); ok {
		t.Error("FindAnimation(2) = found, want exact-name miss")
	}
	if got := m.GetAnimationIndex("missing"); got != -1 {
		t.Errorf("GetAnimationIndex(missing) = %d, want -1", got)
	}
}

func TestSetRootScale(t *testing.T) {
	nodes := []Node{
		{Name: "root", ParentIndex: -1, Children: []int32{1}, LocalTransform: IdentityTransform()},
		{Name: "key", ParentIndex: 0, LocalTransform: IdentityTransform()},
	}
	m := NewModel(WithNodes(nodes, []int32{0}))

	m.SetRootScale([3]float32{2, 2, 1})

	got := m.Nodes()
	if got[0].LocalTransform.Scale != [3]float32{2, 2, 1} {
		t.Errorf("root scale = %v, want [2 2 1]", got[0].LocalTransform.Scale)
	}
	if got[1].LocalTransform.Scale != [3]float32{1, 1, 1} {
		t.Errorf("child scale = %v, want [1 1 1]", got[1].LocalTransform.Scale)
	}
}
