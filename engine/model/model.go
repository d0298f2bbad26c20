package model

import (
	"sync"
)

// model is the implementation of the Model interface.
type model struct {
	mu              sync.RWMutex
	name            string
	nodes           []Node
	rootNodeIndices []int32
	animations      []*AnimationClip
}

// Model defines the interface for a loaded scene asset.
// A Model holds the scene graph and the clip library produced by the Loader
// after importing an asset file. The clip library is read-only once built.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Nodes returns a copy of the flattened scene graph.
	//
	// Returns:
	//   - []Node: the scene nodes
	Nodes() []Node

	// RootNodeIndices returns the indices of nodes with no parent.
	//
	// Returns:
	//   - []int32: the root node indices
	RootNodeIndices() []int32

	// SetRootScale replaces the scale of every root node, scaling the whole scene graph.
	//
	// Parameters:
	//   - scale: the scale to apply as [3]float32 (x, y, z)
	SetRootScale(scale [3]float32)

	// Animations retrieves all animation clips bundled with this model.
	//
	// Returns:
	//   - []*AnimationClip: the animation clips
	Animations() []*AnimationClip

	// AnimationCount returns the number of available animation clips.
	//
	// Returns:
	//   - int: the animation count
	AnimationCount() int

	// AnimationNames returns the names of all animation clips in library order.
	//
	// Returns:
	//   - []string: the animation clip names
	AnimationNames() []string

	// GetAnimationIndex returns the index of an animation by name, or -1 if not found.
	//
	// Parameters:
	//   - name: the animation clip name to search for
	//
	// Returns:
	//   - int: the animation index, or -1 if not found
	GetAnimationIndex(name string) int

	// FindAnimation performs an exact-name lookup in the clip library.
	// When several clips share a name the first one in library order wins.
	//
	// Parameters:
	//   - name: the animation clip name to search for
	//
	// Returns:
	//   - *AnimationClip: the matching clip, or nil
	//   - bool: true if a clip with that name exists
	FindAnimation(name string) (*AnimationClip, bool)
}

var _ Model = &model{}

// NewModel creates a new Model with the provided options applied.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Nodes() []Node {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Node, len(m.nodes))
	copy(out, m.nodes)
	return out
}

func (m *model) RootNodeIndices() []int32 {
	return m.rootNodeIndices
}

func (m *model) SetRootScale(scale [3]float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, idx := range m.rootNodeIndices {
		if idx < 0 || int(idx) >= len(m.nodes) {
			continue
		}
		m.nodes[idx].LocalTransform.Scale = scale
	}
}

func (m *model) Animations() []*AnimationClip {
	return m.animations
}

func (m *model) AnimationCount() int {
	return len(m.animations)
}

func (m *model) AnimationNames() []string {
	names := make([]string, len(m.animations))
	for i, clip := range m.animations {
		names[i] = clip.Name
	}
	return names
}

func (m *model) GetAnimationIndex(name string) int {
	for i, clip := range m.animations {
		if clip.Name == name {
			return i
		}
	}
	return -1
}

func (m *model) FindAnimation(name string) (*AnimationClip, bool) {
	idx := m.GetAnimationIndex(name)
	if idx < 0 {
		return nil, false
	}
	return m.animations[idx], true
}
