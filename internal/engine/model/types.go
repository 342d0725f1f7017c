// Package model provides the plain geometry values exchanged between
// renderables and the renderer: vertices, instance placements and meshes.
package model

// Vertex is a single mesh vertex.
type Vertex struct {
	Position [3]float32
}

// Instance places and tints one copy of a mesh.
// Direction rotates the mesh in the ground (XY) plane and is expected to be
// a unit vector; (1, 0) leaves the mesh unrotated.
type Instance struct {
	Position  [3]float32
	Direction [2]float32
	Color     [3]float32
}

// NewInstance returns an unrotated instance at position with the given color.
func NewInstance(position, color [3]float32) Instance {
	return Instance{
		Position:  position,
		Direction: [2]float32{1, 0},
		Color:     color,
	}
}

// Byte sizes of the GPU layouts of Vertex and Instance.
const (
	VertexStride   = 3 * 4
	InstanceStride = (3 + 2 + 3) * 4
)
