package gpu

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/monet/internal/engine/overlay"
	"github.com/Faultbox/monet/internal/engine/shader"
)

// margin between the text panel and the window corner, in pixels.
const margin = 8

// textLayer draws the debug text texture in the top-left corner.
type textLayer struct {
	program *shader.Program
	cache   *overlay.Cache
	vao     uint32
	vbo     uint32
	texture uint32
	texW    int
	texH    int
}

func newTextLayer(style overlay.Style) (*textLayer, error) {
	program, err := shader.Overlay()
	if err != nil {
		return nil, err
	}
	t := &textLayer{program: program, cache: overlay.NewCache(style)}

	// Unit quad: position xy, texcoord uv. Image rows run top-down.
	quad := []float32{
		0, 0, 0, 1,
		1, 0, 1, 1,
		1, 1, 1, 0,
		0, 0, 0, 1,
		1, 1, 1, 0,
		0, 1, 0, 0,
	}

	gl.GenVertexArrays(1, &t.vao)
	gl.BindVertexArray(t.vao)
	gl.GenBuffers(1, &t.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, t.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quad)*4, unsafe.Pointer(&quad[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 4*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, 4*4, gl.PtrOffset(2*4))
	gl.EnableVertexAttribArray(1)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	gl.GenTextures(1, &t.texture)
	gl.BindTexture(gl.TEXTURE_2D, t.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return t, nil
}

func (t *textLayer) draw(text string, width, height int) {
	t.cache.Update(text)
	img := t.cache.Image()
	if img == nil || width == 0 || height == 0 {
		return
	}

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, t.texture)
	if t.cache.TakeDirty() {
		t.texW, t.texH = img.Bounds().Dx(), img.Bounds().Dy()
		gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(t.texW), int32(t.texH), 0,
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	}

	w := 2 * float32(t.texW) / float32(width)
	h := 2 * float32(t.texH) / float32(height)
	x := -1 + 2*float32(margin)/float32(width)
	y := 1 - 2*float32(margin)/float32(height) - h

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	t.program.Use()
	gl.Uniform4f(t.program.Uniform("uRect"), x, y, w, h)
	gl.Uniform1i(t.program.Uniform("uTexture"), 0)
	gl.BindVertexArray(t.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)

	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
}

func (t *textLayer) release() {
	gl.DeleteTextures(1, &t.texture)
	gl.DeleteBuffers(1, &t.vbo)
	gl.DeleteVertexArrays(1, &t.vao)
	t.program.Delete()
}
