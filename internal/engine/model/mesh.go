package model

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrIndexOutOfRange is returned when a triangle index does not name a vertex.
	ErrIndexOutOfRange = errors.New("triangle index out of range")

	// ErrIncompleteTriangle is returned when the index count is not a multiple of 3.
	ErrIncompleteTriangle = errors.New("index count is not a multiple of 3")
)

// Thing is an owned triangle mesh. A Thing never shares its backing arrays
// with the caller that built it: NewThing and Clone both copy.
type Thing struct {
	vertices []Vertex
	indices  []uint16
}

// NewThing creates a mesh from copies of vertices and indices.
func NewThing(vertices []Vertex, indices []uint16) Thing {
	return Thing{
		vertices: slices.Clone(vertices),
		indices:  slices.Clone(indices),
	}
}

// Clone returns a deep copy of the mesh.
func (t Thing) Clone() Thing {
	return NewThing(t.vertices, t.indices)
}

// Vertices returns the mesh vertices. The slice must not be modified.
func (t Thing) Vertices() []Vertex {
	return t.vertices
}

// Indices returns the triangle list indices. The slice must not be modified.
func (t Thing) Indices() []uint16 {
	return t.indices
}

// TriangleCount returns the number of triangles in the mesh.
func (t Thing) TriangleCount() int {
	return len(t.indices) / 3
}

// Empty reports whether the mesh has nothing to draw.
func (t Thing) Empty() bool {
	return len(t.indices) == 0
}

// Validate checks that the index list forms whole triangles and that every
// index refers to an existing vertex.
func (t Thing) Validate() error {
	if len(t.indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices", ErrIncompleteTriangle, len(t.indices))
	}
	for i, idx := range t.indices {
		if int(idx) >= len(t.vertices) {
			return fmt.Errorf("%w: index %d at position %d, %d vertices",
				ErrIndexOutOfRange, idx, i, len(t.vertices))
		}
	}
	return nil
}

// Cube returns an axis-aligned cube of the given edge length centered on the origin.
func Cube(size float32) Thing {
	h := size / 2
	vertices := []Vertex{
		{Position: [3]float32{-h, -h, -h}},
		{Position: [3]float32{h, -h, -h}},
		{Position: [3]float32{h, h, -h}},
		{Position: [3]float32{-h, h, -h}},
		{Position: [3]float32{-h, -h, h}},
		{Position: [3]float32{h, -h, h}},
		{Position: [3]float32{h, h, h}},
		{Position: [3]float32{-h, h, h}},
	}
	indices := []uint16{
		0, 2, 1, 0, 3, 2, // bottom
		4, 5, 6, 4, 6, 7, // top
		0, 1, 5, 0, 5, 4, // front
		1, 2, 6, 1, 6, 5, // right
		2, 3, 7, 2, 7, 6, // back
		3, 0, 4, 3, 4, 7, // left
	}
	return Thing{vertices: vertices, indices: indices}
}

// Band builds a flat strip of the given width following path at height z.
// Each path segment becomes one quad; paths with fewer than two points yield
// an empty mesh.
func Band(path [][2]float32, width, z float32) Thing {
	if len(path) < 2 {
		return Thing{}
	}

	half := width / 2
	vertices := make([]Vertex, 0, (len(path)-1)*4)
	indices := make([]uint16, 0, (len(path)-1)*6)

	for i := 0; i+1 < len(path); i++ {
		a, b := path[i], path[i+1]
		dx, dy := b[0]-a[0], b[1]-a[1]
		l := length2(dx, dy)
		if l == 0 {
			continue
		}
		// Left-hand normal of the segment
		nx, ny := -dy/l*half, dx/l*half

		base := uint16(len(vertices))
		vertices = append(vertices,
			Vertex{Position: [3]float32{a[0] + nx, a[1] + ny, z}},
			Vertex{Position: [3]float32{a[0] - nx, a[1] - ny, z}},
			Vertex{Position: [3]float32{b[0] - nx, b[1] - ny, z}},
			Vertex{Position: [3]float32{b[0] + nx, b[1] + ny, z}},
		)
		indices = append(indices,
			base, base+1, base+2,
			base, base+2, base+3,
		)
	}

	return Thing{vertices: vertices, indices: indices}
}

// Arrow returns a flat triangle at height z pointing along +X, centered on
// the origin. Instance directions turn it in the ground plane.
func Arrow(length, width, z float32) Thing {
	l, w := length/2, width/2
	return Thing{
		vertices: []Vertex{
			{Position: [3]float32{l, 0, z}},
			{Position: [3]float32{-l, w, z}},
			{Position: [3]float32{-l, -w, z}},
		},
		indices: []uint16{0, 1, 2},
	}
}
