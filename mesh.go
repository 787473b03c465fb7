package bz2xsi

import "github.com/go-gl/mathgl/mgl64"

// Mesh holds the geometry of a frame. Mesh faces index Vertices directly;
// normal, UV, and vertex-color faces are indexed lists over their own
// vertex pools, the way the file format stores them.
type Mesh struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"` // Mesh name, defaults to the frame name

	Vertices []mgl64.Vec3 `json:"vertices,omitempty" yaml:"vertices,omitempty"` // Position pool
	Faces    [][]int      `json:"faces,omitempty" yaml:"faces,omitempty"`       // Polygon vertex indices

	NormalVertices []mgl64.Vec3 `json:"normalVertices,omitempty" yaml:"normalVertices,omitempty"` // Normal pool
	NormalFaces    [][]int      `json:"normalFaces,omitempty" yaml:"normalFaces,omitempty"`       // Per-face normal indices

	UVVertices []mgl64.Vec2 `json:"uvVertices,omitempty" yaml:"uvVertices,omitempty"` // Texture coordinate pool
	UVFaces    [][]int      `json:"uvFaces,omitempty" yaml:"uvFaces,omitempty"`       // Per-face UV indices

	FaceMaterials []Material `json:"faceMaterials,omitempty" yaml:"faceMaterials,omitempty"` // One material per face

	VertexColors     []mgl64.Vec4 `json:"vertexColors,omitempty" yaml:"vertexColors,omitempty"`         // RGBA color pool
	VertexColorFaces [][]int      `json:"vertexColorFaces,omitempty" yaml:"vertexColorFaces,omitempty"` // Per-face color indices
}

// MaterialIndices collapses per-face materials into a unique material list
// plus one index per face, the shape MeshMaterialList is written in.
func (m *Mesh) MaterialIndices() ([]int, []Material) {
	var materials []Material
	indices := make([]int, 0, len(m.FaceMaterials))

	for _, mat := range m.FaceMaterials {
		idx := -1
		for i, seen := range materials {
			if seen == mat {
				idx = i
				break
			}
		}
		if idx < 0 {
			idx = len(materials)
			materials = append(materials, mat)
		}

		indices = append(indices, idx)
	}

	return indices, materials
}
