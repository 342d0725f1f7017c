package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangle() Thing {
	return NewThing(
		[]Vertex{
			{Position: [3]float32{0, 0, 0}},
			{Position: [3]float32{1, 0, 0}},
			{Position: [3]float32{0, 1, 0}},
		},
		[]uint16{0, 1, 2},
	)
}

func TestNewThingCopiesInput(t *testing.T) {
	vertices := []Vertex{{Position: [3]float32{1, 2, 3}}}
	indices := []uint16{0, 0, 0}

	thing := NewThing(vertices, indices)
	vertices[0].Position[0] = 99
	indices[0] = 7

	assert.Equal(t, float32(1), thing.Vertices()[0].Position[0])
	assert.Equal(t, uint16(0), thing.Indices()[0])
}

func TestCloneIsDeep(t *testing.T) {
	orig := triangle()
	clone := orig.Clone()

	// Mutate the original's backing arrays directly.
	orig.vertices[0].Position[2] = 5
	orig.indices[2] = 1

	assert.Equal(t, float32(0), clone.Vertices()[0].Position[2])
	assert.Equal(t, uint16(2), clone.Indices()[2])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		thing   Thing
		wantErr error
	}{
		{name: "triangle", thing: triangle()},
		{name: "empty", thing: Thing{}},
		{name: "cube", thing: Cube(1)},
		{
			name: "index out of range",
			thing: NewThing(
				[]Vertex{{}, {}, {}},
				[]uint16{0, 1, 3},
			),
			wantErr: ErrIndexOutOfRange,
		},
		{
			name:    "incomplete triangle",
			thing:   NewThing([]Vertex{{}, {}, {}}, []uint16{0, 1}),
			wantErr: ErrIncompleteTriangle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.thing.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCube(t *testing.T) {
	c := Cube(2)
	require.NoError(t, c.Validate())
	assert.Len(t, c.Vertices(), 8)
	assert.Equal(t, 12, c.TriangleCount())

	b := c.Bounds()
	assert.Equal(t, [3]float32{-1, -1, -1}, b.Min)
	assert.Equal(t, [3]float32{1, 1, 1}, b.Max)
}

func TestBand(t *testing.T) {
	path := [][2]float32{{0, 0}, {10, 0}, {10, 10}}
	band := Band(path, 2, 0.5)

	require.NoError(t, band.Validate())
	assert.Len(t, band.Vertices(), 8)
	assert.Equal(t, 4, band.TriangleCount())

	b := band.Bounds()
	assert.InDelta(t, -1, b.Min[1], 1e-6)
	assert.InDelta(t, 11, b.Max[0], 1e-6)
	assert.Equal(t, float32(0.5), b.Min[2])
	assert.Equal(t, float32(0.5), b.Max[2])
}

func TestBandDegenerate(t *testing.T) {
	assert.True(t, Band(nil, 1, 0).Empty())
	assert.True(t, Band([][2]float32{{1, 1}}, 1, 0).Empty())
	assert.True(t, Band([][2]float32{{1, 1}, {1, 1}}, 1, 0).Empty())
}

func TestNewInstance(t *testing.T) {
	inst := NewInstance([3]float32{1, 2, 3}, [3]float32{0.5, 0.5, 0.5})
	assert.Equal(t, [2]float32{1, 0}, inst.Direction)

	d := DirectionFromAngle(0)
	assert.InDelta(t, 1, d[0], 1e-6)
	assert.InDelta(t, 0, d[1], 1e-6)
}

func TestPathDistance(t *testing.T) {
	path := [][2]float32{{0, 0}, {10, 0}, {10, 10}}

	assert.InDelta(t, 2, PathDistance(path, [2]float32{5, 2}), 1e-6)
	assert.InDelta(t, 1, PathDistance(path, [2]float32{11, 5}), 1e-6)
	assert.InDelta(t, 5, PathDistance(path, [2]float32{-3, 4}), 1e-6, "clamped to the first point")
	assert.InDelta(t, 5, PathDistance([][2]float32{{0, 0}}, [2]float32{3, 4}), 1e-6)
	assert.True(t, PathDistance(nil, [2]float32{}) > 1e30)
}

func TestArrow(t *testing.T) {
	arrow := Arrow(2, 1, 0.25)
	require.NoError(t, arrow.Validate())
	assert.Equal(t, 1, arrow.TriangleCount())

	b := arrow.Bounds()
	assert.Equal(t, [3]float32{-1, -0.5, 0.25}, b.Min)
	assert.Equal(t, [3]float32{1, 0.5, 0.25}, b.Max)
}
