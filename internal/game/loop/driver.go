// Package loop runs the frame protocol against a renderer actor.
//
// A frame is Control{Render}, a drain until every renderable has answered,
// then Control{Submit} and a second drain. Drain is the barrier that keeps
// late geometry from leaking into the next frame.
package loop

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/monet/internal/actor"
	"github.com/Faultbox/monet/internal/engine/camera"
	"github.com/Faultbox/monet/internal/engine/renderer"
	"github.com/Faultbox/monet/internal/engine/scene"
)

// Driver sends frame controls for one scene and mirrors its eye so callers
// can pick against the current view without asking the renderer.
type Driver struct {
	system   *actor.System
	renderer actor.Address
	scene    scene.ID
	eye      camera.Eye
	log      *zap.Logger

	debugText string
	frames    uint64
}

// New creates a driver for sceneID, which the caller has created with eye.
func New(system *actor.System, rendererAddr actor.Address, sceneID scene.ID, eye camera.Eye, log *zap.Logger) *Driver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Driver{
		system:   system,
		renderer: rendererAddr,
		scene:    sceneID,
		eye:      eye,
		log:      log,
	}
}

// Eye returns the mirrored eye of the driven scene.
func (d *Driver) Eye() camera.Eye {
	return d.eye
}

// Frames returns the number of completed frames.
func (d *Driver) Frames() uint64 {
	return d.frames
}

// Setup asks every renderable to set up and waits for their answers.
func (d *Driver) Setup(ctx context.Context) error {
	if err := d.control(ctx, renderer.ControlSetup); err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	d.log.Info("scene set up", zap.Uint32("scene", uint32(d.scene)))
	return nil
}

// MoveEye queues a camera-relative move. It takes effect on the next frame.
func (d *Driver) MoveEye(delta mgl32.Vec3) error {
	if delta == (mgl32.Vec3{}) {
		return nil
	}
	if err := d.system.Send(d.renderer, renderer.MoveEye{SceneID: d.scene, Delta: delta}); err != nil {
		return err
	}
	d.eye.Move(delta)
	return nil
}

// SetEye queues an absolute camera placement.
func (d *Driver) SetEye(eye camera.Eye) error {
	if err := eye.Validate(); err != nil {
		return err
	}
	if err := d.system.Send(d.renderer, renderer.SetEye{SceneID: d.scene, Eye: eye}); err != nil {
		return err
	}
	d.eye = eye
	return nil
}

// SetDebugText queues new overlay text when it differs from the last text sent.
func (d *Driver) SetDebugText(text string) error {
	if text == d.debugText {
		return nil
	}
	if err := d.system.Send(d.renderer, renderer.SetDebugText{SceneID: d.scene, Text: text}); err != nil {
		return err
	}
	d.debugText = text
	return nil
}

// Send queues msg for any actor, for input routed to renderables.
func (d *Driver) Send(to actor.Address, msg actor.Message) error {
	return d.system.Send(to, msg)
}

// Frame runs one render and submit cycle.
func (d *Driver) Frame(ctx context.Context) error {
	if err := d.control(ctx, renderer.ControlRender); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := d.control(ctx, renderer.ControlSubmit); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	d.frames++
	return nil
}

func (d *Driver) control(ctx context.Context, c renderer.Control) error {
	if err := d.system.Send(d.renderer, c); err != nil {
		return err
	}
	return d.system.Drain(ctx)
}
