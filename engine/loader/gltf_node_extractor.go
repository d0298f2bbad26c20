package loader

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-stage/engine/model"
)

// gltfNodeExtractorImpl is the implementation of the gltfNodeExtractor interface.
type gltfNodeExtractorImpl struct {
	parser gltfParser
}

// gltfNodeExtractor converts the glTF node hierarchy into engine nodes.
type gltfNodeExtractor interface {
	// ExtractNodes returns every node of the document with parent links and
	// decomposed local transforms, plus the root node indices of the default scene.
	//
	// Returns:
	//   - []model.Node: nodes in document order
	//   - []int32: root node indices
	//   - error: error if the hierarchy is malformed
	ExtractNodes() ([]model.Node, []int32, error)
}

var _ gltfNodeExtractor = &gltfNodeExtractorImpl{}

// newGLTFNodeExtractor creates a node extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfNodeExtractor: the node extractor
func newGLTFNodeExtractor(parser gltfParser) gltfNodeExtractor {
	return &gltfNodeExtractorImpl{parser: parser}
}

func (e *gltfNodeExtractorImpl) ExtractNodes() ([]model.Node, []int32, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, nil, fmt.Errorf("no document loaded")
	}

	nodes := make([]model.Node, len(doc.Nodes))
	for i := range doc.Nodes {
		src := &doc.Nodes[i]
		name := src.Name
		if name == "" {
			name = fmt.Sprintf("node_%d", i)
		}
		nodes[i] = model.Node{
			Name:           name,
			ParentIndex:    -1,
			LocalTransform: gltfExtractNodeTransform(src),
		}
	}

	for i := range doc.Nodes {
		for _, c := range doc.Nodes[i].Children {
			if c < 0 || c >= len(nodes) {
				return nil, nil, fmt.Errorf("node %d: child index %d out of range", i, c)
			}
			if nodes[c].ParentIndex >= 0 {
				return nil, nil, fmt.Errorf("node %d has more than one parent", c)
			}
			nodes[c].ParentIndex = int32(i)
			nodes[i].Children = append(nodes[i].Children, int32(c))
		}
	}

	return nodes, e.rootIndices(doc, nodes), nil
}

// rootIndices prefers the default scene's root list, then the first scene,
// then every parentless node.
func (e *gltfNodeExtractorImpl) rootIndices(doc *gltfDocument, nodes []model.Node) []int32 {
	sceneIndex := 0
	if doc.Scene != nil {
		sceneIndex = *doc.Scene
	}

	var roots []int32
	if sceneIndex >= 0 && sceneIndex < len(doc.Scenes) {
		for _, n := range doc.Scenes[sceneIndex].Nodes {
			if n >= 0 && n < len(nodes) && nodes[n].ParentIndex < 0 {
				roots = append(roots, int32(n))
			}
		}
		if len(roots) > 0 {
			return roots
		}
	}

	for i := range nodes {
		if nodes[i].ParentIndex < 0 {
			roots = append(roots, int32(i))
		}
	}
	return roots
}

// gltfExtractNodeTransform reads the TRS transform of a node, decomposing Matrix when present.
func gltfExtractNodeTransform(node *gltfNode) model.Transform {
	if node.Matrix != nil {
		return gltfDecomposeMatrix(*node.Matrix)
	}

	t := model.IdentityTransform()
	if node.Translation != nil {
		t.Translation = *node.Translation
	}
	if node.Rotation != nil {
		t.Rotation = *node.Rotation
	}
	if node.Scale != nil {
		t.Scale = *node.Scale
	}
	return t
}

// gltfDecomposeMatrix splits a column-major 4x4 matrix into translation, rotation and scale.
// Shear is not supported.
func gltfDecomposeMatrix(m [16]float32) model.Transform {
	t := model.Transform{Translation: [3]float32{m[12], m[13], m[14]}}

	for col := 0; col < 3; col++ {
		t.Scale[col] = float32(math.Sqrt(float64(m[col*4]*m[col*4] + m[col*4+1]*m[col*4+1] + m[col*4+2]*m[col*4+2])))
	}

	// r[row][col], columns normalized by their scale.
	var r [3][3]float32
	for col := 0; col < 3; col++ {
		s := t.Scale[col]
		if s < 1e-4 {
			s = 1
		}
		for row := 0; row < 3; row++ {
			r[row][col] = m[col*4+row] / s
		}
	}

	t.Rotation = gltfRotationToQuaternion(r)
	return t
}

// gltfRotationToQuaternion converts a rotation matrix to a normalized (x, y, z, w) quaternion.
func gltfRotationToQuaternion(r [3][3]float32) [4]float32 {
	var x, y, z, w float64
	r00, r01, r02 := float64(r[0][0]), float64(r[0][1]), float64(r[0][2])
	r10, r11, r12 := float64(r[1][0]), float64(r[1][1]), float64(r[1][2])
	r20, r21, r22 := float64(r[2][0]), float64(r[2][1]), float64(r[2][2])

	switch trace := r00 + r11 + r22; {
	case trace > 0:
		s := math.Sqrt(trace+1) * 2
		w, x, y, z = 0.25*s, (r21-r12)/s, (r02-r20)/s, (r10-r01)/s
	case r00 > r11 && r00 > r22:
		s := math.Sqrt(1+r00-r11-r22) * 2
		w, x, y, z = (r21-r12)/s, 0.25*s, (r01+r10)/s, (r02+r20)/s
	case r11 > r22:
		s := math.Sqrt(1+r11-r00-r22) * 2
		w, x, y, z = (r02-r20)/s, (r01+r10)/s, 0.25*s, (r12+r21)/s
	default:
		s := math.Sqrt(1+r22-r00-r11) * 2
		w, x, y, z = (r10-r01)/s, (r02+r20)/s, (r12+r21)/s, 0.25*s
	}

	if l := math.Sqrt(x*x + y*y + z*z + w*w); l > 1e-4 {
		x, y, z, w = x/l, y/l, z/l, w/l
	}
	return [4]float32{float32(x), float32(y), float32(z), float32(w)}
}
