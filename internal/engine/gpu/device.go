// Package gpu implements renderer.Device on OpenGL 4.1 core.
package gpu

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/monet/internal/engine/overlay"
	"github.com/Faultbox/monet/internal/engine/renderer"
	"github.com/Faultbox/monet/internal/engine/scene"
	"github.com/Faultbox/monet/internal/engine/shader"
)

// ErrGL is returned when the driver reports an error after a frame.
var ErrGL = errors.New("opengl error")

// Surface is the window a Device presents to.
type Surface interface {
	DrawableSize() (width, height int)
	SwapBuffers()
}

// CaptureFunc receives the finished frame as bottom-up RGBA rows.
type CaptureFunc func(pixels []byte, width, height int)

// Options configures a Device.
type Options struct {
	// Overlay draws scene debug text. Disable to skip the overlay pass.
	Overlay bool
	Style   overlay.Style
	Logger  *zap.Logger
}

// Device draws renderer frames with instanced OpenGL calls.
// IMPORTANT: New and every method must run on the thread owning the GL context.
type Device struct {
	surface Surface
	log     *zap.Logger

	solid  *shader.Program
	meshes map[renderer.MeshKey]*meshBuffers

	overlayOn bool
	text      *textLayer

	capture CaptureFunc
}

// New initializes OpenGL and compiles the device programs.
func New(surface Surface, opts Options) (*Device, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Style.Face == nil {
		opts.Style = overlay.DefaultStyle()
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	opts.Logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	solid, err := shader.Solid()
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	d := &Device{
		surface:   surface,
		log:       opts.Logger,
		solid:     solid,
		meshes:    make(map[renderer.MeshKey]*meshBuffers),
		overlayOn: opts.Overlay,
	}

	d.text, err = newTextLayer(opts.Style)
	if err != nil {
		solid.Delete()
		return nil, err
	}

	return d, nil
}

// Size returns the drawable size in pixels.
func (d *Device) Size() (int, int) {
	return d.surface.DrawableSize()
}

// SetOverlay turns the debug text pass on or off.
func (d *Device) SetOverlay(on bool) {
	d.overlayOn = on
}

// Overlay reports whether debug text is drawn.
func (d *Device) Overlay() bool {
	return d.overlayOn
}

// CaptureNext reads back the next presented frame and hands it to fn.
func (d *Device) CaptureNext(fn CaptureFunc) {
	d.capture = fn
}

// Draw implements renderer.Device.
func (d *Device) Draw(frame *renderer.Frame) error {
	width, height := d.Size()
	gl.Viewport(0, 0, int32(width), int32(height))

	c := frame.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	d.solid.Use()
	gl.UniformMatrix4fv(d.solid.Uniform("uView"), 1, false, &frame.View[0])
	gl.UniformMatrix4fv(d.solid.Uniform("uProjection"), 1, false, &frame.Projection[0])

	seen := make(map[renderer.MeshKey]struct{}, len(frame.Draws))
	for i := range frame.Draws {
		dc := &frame.Draws[i]
		seen[dc.Key] = struct{}{}
		if len(dc.Instances) == 0 || len(dc.Indices) == 0 {
			continue
		}
		mb := d.buffersFor(dc)
		mb.draw(dc.Instances)
	}
	gl.BindVertexArray(0)
	d.evict(frame.Scene, seen)

	if d.overlayOn {
		d.text.draw(frame.DebugText, width, height)
	}

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("%w: 0x%x", ErrGL, code)
	}

	if d.capture != nil {
		fn := d.capture
		d.capture = nil
		fn(readPixels(width, height), width, height)
	}

	d.surface.SwapBuffers()
	return nil
}

// Close releases programs and buffers.
func (d *Device) Close() {
	d.log.Info("closing device", zap.Int("meshes", len(d.meshes)))
	for key, mb := range d.meshes {
		mb.release()
		delete(d.meshes, key)
	}
	d.text.release()
	d.solid.Delete()
}

// buffersFor returns the buffers for a draw, uploading the mesh when it is
// new or its generation changed.
func (d *Device) buffersFor(dc *renderer.DrawCall) *meshBuffers {
	mb, ok := d.meshes[dc.Key]
	if ok && mb.generation == dc.Generation {
		return mb
	}
	if !ok {
		mb = newMeshBuffers()
		d.meshes[dc.Key] = mb
	}
	mb.upload(dc.Generation, dc.Vertices, dc.Indices)
	d.log.Debug("mesh uploaded",
		zap.Stringer("kind", dc.Key.Kind),
		zap.Uint64("id", dc.Key.ID),
		zap.Uint32("scene", uint32(dc.Key.Scene)),
		zap.Int("vertices", len(dc.Vertices)),
	)
	return mb
}

// evict frees buffers of sc that the frame no longer draws.
func (d *Device) evict(sc scene.ID, seen map[renderer.MeshKey]struct{}) {
	for key, mb := range d.meshes {
		if key.Scene != sc {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		mb.release()
		delete(d.meshes, key)
	}
}

func readPixels(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&pixels[0]))
	return pixels
}
