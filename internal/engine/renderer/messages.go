package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/monet/internal/actor"
	"github.com/Faultbox/monet/internal/engine/camera"
	"github.com/Faultbox/monet/internal/engine/model"
	"github.com/Faultbox/monet/internal/engine/scene"
)

// Control drives the per-frame protocol. It is sent by the frame driver.
type Control int

const (
	// ControlSetup asks every registered renderable to set itself up.
	ControlSetup Control = iota
	// ControlRender clears batch instances and asks renderables to contribute.
	ControlRender
	// ControlSubmit draws every scene to the device.
	ControlSubmit
)

func (c Control) String() string {
	switch c {
	case ControlSetup:
		return "setup"
	case ControlRender:
		return "render"
	case ControlSubmit:
		return "submit"
	default:
		return "unknown"
	}
}

// SetupInScene is sent to a renderable once per Setup for each scene it is
// registered in.
type SetupInScene struct {
	Renderer actor.Address
	SceneID  scene.ID
}

// RenderToScene is sent to a renderable every Render for each scene it is
// registered in.
type RenderToScene struct {
	Renderer actor.Address
	SceneID  scene.ID
}

// AddBatch creates or replaces a batch. Use NewAddBatch to build one.
type AddBatch struct {
	SceneID scene.ID
	BatchID scene.BatchID
	Thing   model.Thing
}

// NewAddBatch builds an AddBatch carrying its own copy of thing.
func NewAddBatch(sceneID scene.ID, batchID scene.BatchID, thing model.Thing) AddBatch {
	return AddBatch{SceneID: sceneID, BatchID: batchID, Thing: thing.Clone()}
}

// AddInstance appends one placement to an existing batch.
type AddInstance struct {
	SceneID  scene.ID
	BatchID  scene.BatchID
	Instance model.Instance
}

// UpdateThing creates or replaces a unique thing. Use NewUpdateThing to build one.
type UpdateThing struct {
	SceneID  scene.ID
	ThingID  scene.ThingID
	Thing    model.Thing
	Instance model.Instance
}

// NewUpdateThing builds an UpdateThing carrying its own copy of thing.
func NewUpdateThing(sceneID scene.ID, thingID scene.ThingID, thing model.Thing, inst model.Instance) UpdateThing {
	return UpdateThing{SceneID: sceneID, ThingID: thingID, Thing: thing.Clone(), Instance: inst}
}

// RemoveThing drops a unique thing.
type RemoveThing struct {
	SceneID scene.ID
	ThingID scene.ThingID
}

// MoveEye moves a scene camera by a camera-relative delta:
// X along the ground-projected look direction, Y along its counter-clockwise
// in-plane orthogonal and Z along world up.
type MoveEye struct {
	SceneID scene.ID
	Delta   mgl32.Vec3
}

// SetEye places a scene camera absolutely.
type SetEye struct {
	SceneID scene.ID
	Eye     camera.Eye
}

// AddScene creates a scene. A nil Eye uses camera.DefaultEye.
type AddScene struct {
	SceneID scene.ID
	Eye     *camera.Eye
}

// RemoveScene drops a scene with all its content and participants.
type RemoveScene struct {
	SceneID scene.ID
}

// RegisterRenderable adds a renderable to a scene's participant list.
type RegisterRenderable struct {
	SceneID scene.ID
	Addr    actor.Address
}

// UnregisterRenderable removes a renderable from a scene's participant list.
type UnregisterRenderable struct {
	SceneID scene.ID
	Addr    actor.Address
}

// SetDebugText replaces a scene's overlay text.
type SetDebugText struct {
	SceneID scene.ID
	Text    string
}
