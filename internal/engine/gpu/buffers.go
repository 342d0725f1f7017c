package gpu

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/monet/internal/engine/model"
)

// Attribute locations in the solid program.
const (
	attrPosition          = 0
	attrInstancePosition  = 1
	attrInstanceDirection = 2
	attrInstanceColor     = 3
)

// meshBuffers holds the GL objects for one cached mesh.
type meshBuffers struct {
	generation uint64
	vao        uint32
	vbo        uint32
	ebo        uint32
	ivbo       uint32
	indexCount int32
	capacity   int
}

func newMeshBuffers() *meshBuffers {
	mb := &meshBuffers{}
	gl.GenVertexArrays(1, &mb.vao)
	gl.GenBuffers(1, &mb.vbo)
	gl.GenBuffers(1, &mb.ebo)
	gl.GenBuffers(1, &mb.ivbo)

	gl.BindVertexArray(mb.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, mb.vbo)
	gl.VertexAttribPointer(attrPosition, 3, gl.FLOAT, false, model.VertexStride, nil)
	gl.EnableVertexAttribArray(attrPosition)

	gl.BindBuffer(gl.ARRAY_BUFFER, mb.ivbo)
	gl.VertexAttribPointer(attrInstancePosition, 3, gl.FLOAT, false, model.InstanceStride, nil)
	gl.EnableVertexAttribArray(attrInstancePosition)
	gl.VertexAttribDivisor(attrInstancePosition, 1)

	gl.VertexAttribPointer(attrInstanceDirection, 2, gl.FLOAT, false, model.InstanceStride, gl.PtrOffset(12))
	gl.EnableVertexAttribArray(attrInstanceDirection)
	gl.VertexAttribDivisor(attrInstanceDirection, 1)

	gl.VertexAttribPointer(attrInstanceColor, 3, gl.FLOAT, false, model.InstanceStride, gl.PtrOffset(20))
	gl.EnableVertexAttribArray(attrInstanceColor)
	gl.VertexAttribDivisor(attrInstanceColor, 1)

	// The element buffer binding is part of the VAO state.
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, mb.ebo)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return mb
}

// upload replaces the vertex and index data.
func (mb *meshBuffers) upload(generation uint64, vertices []model.Vertex, indices []uint16) {
	mb.generation = generation
	mb.indexCount = int32(len(indices))

	gl.BindVertexArray(mb.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, mb.vbo)
	if len(vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*model.VertexStride, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)
	}
	if len(indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*2, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// draw streams the instances and issues one instanced draw.
func (mb *meshBuffers) draw(instances []model.Instance) {
	gl.BindVertexArray(mb.vao)

	size := len(instances) * model.InstanceStride
	gl.BindBuffer(gl.ARRAY_BUFFER, mb.ivbo)
	if len(instances) > mb.capacity {
		gl.BufferData(gl.ARRAY_BUFFER, size, unsafe.Pointer(&instances[0]), gl.STREAM_DRAW)
		mb.capacity = len(instances)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, unsafe.Pointer(&instances[0]))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	gl.DrawElementsInstanced(gl.TRIANGLES, mb.indexCount, gl.UNSIGNED_SHORT, nil, int32(len(instances)))
}

func (mb *meshBuffers) release() {
	gl.DeleteBuffers(1, &mb.vbo)
	gl.DeleteBuffers(1, &mb.ebo)
	gl.DeleteBuffers(1, &mb.ivbo)
	gl.DeleteVertexArrays(1, &mb.vao)
}
