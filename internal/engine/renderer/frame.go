package renderer

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/monet/internal/engine/model"
	"github.com/Faultbox/monet/internal/engine/scene"
)

// ErrDevice wraps failures reported by a Device.
var ErrDevice = errors.New("device failure")

// DrawKind tells batch draws from thing draws.
type DrawKind uint8

const (
	DrawBatch DrawKind = iota
	DrawThing
)

func (k DrawKind) String() string {
	if k == DrawThing {
		return "thing"
	}
	return "batch"
}

// MeshKey identifies a mesh across frames for buffer caching.
type MeshKey struct {
	Scene scene.ID
	Kind  DrawKind
	ID    uint64
}

// DrawCall is one instanced draw of one mesh.
type DrawCall struct {
	Key MeshKey
	// Generation changes when the mesh behind Key is replaced, so cached
	// vertex and index buffers can be reused until then.
	Generation uint64
	Vertices   []model.Vertex
	Indices    []uint16
	Instances  []model.Instance
}

// Frame is everything a Device needs to draw one scene.
// Slices alias renderer-owned storage and are only valid during Device.Draw.
type Frame struct {
	Scene      scene.ID
	View       mgl32.Mat4
	Projection mgl32.Mat4
	ClearColor [4]float32
	Draws      []DrawCall
	DebugText  string
}

// InstanceCount returns the total number of instances drawn in the frame.
func (f *Frame) InstanceCount() int {
	n := 0
	for _, d := range f.Draws {
		n += len(d.Instances)
	}
	return n
}

// Device draws frames to an output surface.
type Device interface {
	// Size returns the current surface size in pixels.
	Size() (width, height int)
	// Draw clears the surface, issues every draw call, overlays the debug
	// text and presents the result.
	Draw(frame *Frame) error
	// Close releases device resources.
	Close()
}

// BuildFrame translates a scene into a frame for a surface of the given size.
// Batches are drawn in ascending batch id order, then things in ascending
// thing id order.
func BuildFrame(s *scene.Scene, width, height int, clearColor [4]float32) (*Frame, error) {
	if err := s.Eye.Validate(); err != nil {
		return nil, fmt.Errorf("scene %d: %w", s.ID, err)
	}

	f := &Frame{
		Scene:      s.ID,
		View:       s.Eye.ViewMatrix(),
		Projection: s.Eye.ProjectionMatrix(width, height),
		ClearColor: clearColor,
		DebugText:  s.DebugText,
	}

	batchIDs := s.BatchIDs()
	thingIDs := s.ThingIDs()
	f.Draws = make([]DrawCall, 0, len(batchIDs)+len(thingIDs))

	for _, id := range batchIDs {
		b, _ := s.Batch(id)
		proto := b.Prototype()
		f.Draws = append(f.Draws, DrawCall{
			Key:        MeshKey{Scene: s.ID, Kind: DrawBatch, ID: uint64(id)},
			Generation: b.Generation(),
			Vertices:   proto.Vertices(),
			Indices:    proto.Indices(),
			Instances:  b.Instances,
		})
	}

	for _, id := range thingIDs {
		t, _ := s.Thing(id)
		f.Draws = append(f.Draws, DrawCall{
			Key:        MeshKey{Scene: s.ID, Kind: DrawThing, ID: uint64(id)},
			Generation: t.Generation(),
			Vertices:   t.Mesh.Vertices(),
			Indices:    t.Mesh.Indices(),
			Instances:  []model.Instance{t.Instance},
		})
	}

	return f, nil
}
