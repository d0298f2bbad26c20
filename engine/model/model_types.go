package model

// --- Scene Graph Types ---

// Transform represents a decomposed node transform.
type Transform struct {
	// Translation is the position offset.
	Translation [3]float32

	// Rotation is the orientation as a quaternion (x, y, z, w).
	Rotation [4]float32

	// Scale is the scale factor along each axis.
	Scale [3]float32
}

// IdentityTransform returns a Transform with no translation, no rotation, and unit scale.
//
// Returns:
//   - Transform: the identity transform
func IdentityTransform() Transform {
	return Transform{
		Rotation: [4]float32{0, 0, 0, 1},
		Scale:    [3]float32{1, 1, 1},
	}
}

// Node represents a single node in the scene graph of a loaded asset.
type Node struct {
	// Name is the node's identifier (for debugging and animation targeting).
	Name string

	// ParentIndex is the index of the parent node (-1 for root nodes).
	ParentIndex int32

	// Children are the indices of this node's direct children.
	Children []int32

	// LocalTransform is the node's transform relative to its parent.
	LocalTransform Transform
}

// --- Animation Types ---

// AnimationClip represents a single named, prerecorded animation track bound to the scene's nodes.
type AnimationClip struct {
	// Name is the animation identifier.
	Name string

	// Duration is the total length of the animation in seconds.
	Duration float32

	// TicksPerSecond is the sample rate of the animation.
	TicksPerSecond float32

	// Channels contains animation data for each animated node.
	Channels []AnimationChannel
}

// AnimationChannel contains keyframe data for a single node.
type AnimationChannel struct {
	// NodeIndex is the index of the scene node this channel animates.
	NodeIndex int32

	// PositionKeys are keyframes for translation.
	PositionKeys []VectorKeyframe

	// RotationKeys are keyframes for rotation (quaternion).
	RotationKeys []QuaternionKeyframe

	// ScaleKeys are keyframes for scale.
	ScaleKeys []VectorKeyframe
}

// VectorKeyframe stores a 3D vector value at a specific time.
type VectorKeyframe struct {
	// Time is the keyframe timestamp in seconds.
	Time float32

	// Value is the 3D vector value at this keyframe.
	Value [3]float32
}

// QuaternionKeyframe stores a quaternion rotation at a specific time.
type QuaternionKeyframe struct {
	// Time is the keyframe timestamp in seconds.
	Time float32

	// Value is the quaternion value at this keyframe (x, y, z, w).
	Value [4]float32
}

// --- Import Types ---

// ImportedModel represents a scene loaded from an external format.
// This is the universal format that importers (glTF, GLB) produce.
type ImportedModel struct {
	// Name is the model identifier.
	Name string

	// Nodes is the flattened scene graph.
	Nodes []Node

	// RootNodeIndices are indices of nodes with no parent.
	RootNodeIndices []int32

	// Animations are all animation clips bundled with the model.
	Animations []*AnimationClip
}
