package loader

import (
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-stage/engine/model"
)

// gltfAnimationExtractorImpl is the implementation of the gltfAnimationExtractor interface.
type gltfAnimationExtractorImpl struct {
	parser gltfParser
}

// gltfAnimationExtractor converts glTF animations into named clips whose channels
// target scene nodes by index.
type gltfAnimationExtractor interface {
	// ExtractAnimation extracts a single animation by index.
	//
	// Parameters:
	//   - animIndex: the index of the animation in the document
	//
	// Returns:
	//   - *model.AnimationClip: the extracted animation clip
	//   - error: error if extraction fails
	ExtractAnimation(animIndex int) (*model.AnimationClip, error)

	// ExtractAllAnimations extracts every animation in document order.
	// Document order is kept so that name lookups resolve to the first clip of a name.
	//
	// Returns:
	//   - []*model.AnimationClip: all extracted animation clips
	//   - error: error if extraction fails
	ExtractAllAnimations() ([]*model.AnimationClip, error)
}

var _ gltfAnimationExtractor = &gltfAnimationExtractorImpl{}

// newGLTFAnimationExtractor creates a new animation extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfAnimationExtractor: the animation extractor
func newGLTFAnimationExtractor(parser gltfParser) gltfAnimationExtractor {
	return &gltfAnimationExtractorImpl{parser: parser}
}

func (e *gltfAnimationExtractorImpl) ExtractAnimation(animIndex int) (*model.AnimationClip, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}
	if animIndex < 0 || animIndex >= len(doc.Animations) {
		return nil, fmt.Errorf("animation index %d out of range", animIndex)
	}

	anim := &doc.Animations[animIndex]

	// translation, rotation and scale channels of one node merge into one AnimationChannel
	byNode := make(map[int32]*model.AnimationChannel)
	var maxTime float32

	for i := range anim.Channels {
		ch := &anim.Channels[i]
		if ch.Target.Node == nil || ch.Target.Path == gltfAnimPathWeights {
			continue
		}
		nodeIndex := *ch.Target.Node
		if nodeIndex < 0 || nodeIndex >= len(doc.Nodes) {
			return nil, fmt.Errorf("animation %q channel %d: node index %d out of range", anim.Name, i, nodeIndex)
		}
		if ch.Sampler < 0 || ch.Sampler >= len(anim.Samplers) {
			return nil, fmt.Errorf("animation %q channel %d: invalid sampler index %d", anim.Name, i, ch.Sampler)
		}
		sampler := &anim.Samplers[ch.Sampler]

		times, err := e.parser.ReadScalarAccessor(sampler.Input)
		if err != nil {
			return nil, fmt.Errorf("animation %q channel %d: failed to read timestamps: %w", anim.Name, i, err)
		}
		if n := len(times); n > 0 && times[n-1] > maxTime {
			maxTime = times[n-1]
		}

		out, ok := byNode[int32(nodeIndex)]
		if !ok {
			out = &model.AnimationChannel{NodeIndex: int32(nodeIndex)}
			byNode[int32(nodeIndex)] = out
		}

		switch ch.Target.Path {
		case gltfAnimPathTranslation, gltfAnimPathScale:
			values, err := e.parser.ReadVec3Accessor(sampler.Output)
			if err != nil {
				return nil, fmt.Errorf("animation %q channel %d: failed to read %s values: %w", anim.Name, i, ch.Target.Path, err)
			}
			keys := make([]model.VectorKeyframe, min(len(times), len(values)))
			for j := range keys {
				keys[j] = model.VectorKeyframe{Time: times[j], Value: values[j]}
			}
			if ch.Target.Path == gltfAnimPathTranslation {
				out.PositionKeys = keys
			} else {
				out.ScaleKeys = keys
			}

		case gltfAnimPathRotation:
			values, err := e.parser.ReadVec4Accessor(sampler.Output)
			if err != nil {
				return nil, fmt.Errorf("animation %q channel %d: failed to read rotation values: %w", anim.Name, i, err)
			}
			keys := make([]model.QuaternionKeyframe, min(len(times), len(values)))
			for j := range keys {
				keys[j] = model.QuaternionKeyframe{Time: times[j], Value: values[j]}
			}
			out.RotationKeys = keys
		}
	}

	channels := make([]model.AnimationChannel, 0, len(byNode))
	for _, ch := range byNode {
		channels = append(channels, *ch)
	}
	slices.SortFunc(channels, func(a, b model.AnimationChannel) int {
		return int(a.NodeIndex - b.NodeIndex)
	})

	name := anim.Name
	if name == "" {
		name = fmt.Sprintf("animation_%d", animIndex)
	}

	return &model.AnimationClip{
		Name:           name,
		Duration:       maxTime,
		TicksPerSecond: 1.0, // glTF keyframe times are seconds
		Channels:       channels,
	}, nil
}

func (e *gltfAnimationExtractorImpl) ExtractAllAnimations() ([]*model.AnimationClip, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}

	clips := make([]*model.AnimationClip, len(doc.Animations))
	for i := range doc.Animations {
		clip, err := e.ExtractAnimation(i)
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
		clips[i] = clip
	}
	return clips, nil
}
