// Package renderer coordinates frame-synchronous scene rendering.
//
// The Renderer is an actor. It owns every scene and never calls into
// renderables: it notifies them with SetupInScene and RenderToScene and they
// answer with AddBatch, AddInstance and UpdateThing messages. The frame
// driver must drain all reactions to ControlRender before sending
// ControlSubmit (see actor.System.Drain).
package renderer

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/monet/internal/actor"
	"github.com/Faultbox/monet/internal/engine/camera"
	"github.com/Faultbox/monet/internal/engine/scene"
)

// Phase is the renderer's position in the frame protocol.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSetup
	PhaseCleared
	PhasePopulating
	PhaseSubmitting
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSetup:
		return "setup"
	case PhaseCleared:
		return "cleared"
	case PhasePopulating:
		return "populating"
	case PhaseSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// Options configures a Renderer.
type Options struct {
	// ClearColor is the RGBA color each frame starts from.
	ClearColor [4]float32
	// Logger receives renderer diagnostics. Nil disables logging.
	Logger *zap.Logger
}

// DefaultOptions returns a white clear color and no logging.
func DefaultOptions() Options {
	return Options{ClearColor: [4]float32{1, 1, 1, 1}}
}

// Renderer owns all scenes and the device they are drawn to.
type Renderer struct {
	device Device
	log    *zap.Logger

	// mu guards everything below. Handlers run on one goroutine; the lock
	// only orders them against inspection from other goroutines.
	mu         sync.RWMutex
	scenes     map[scene.ID]*scene.Scene
	clearColor [4]float32
	phase      Phase
	frames     uint64
}

// New creates a renderer drawing to device.
func New(device Device, opts Options) *Renderer {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Renderer{
		device:     device,
		log:        opts.Logger,
		scenes:     make(map[scene.ID]*scene.Scene),
		clearColor: opts.ClearColor,
	}
}

// Close releases the device.
func (r *Renderer) Close() {
	r.log.Info("closing renderer", zap.Uint64("frames", r.frames))
	if r.device != nil {
		r.device.Close()
	}
}

// Phase returns the current protocol phase.
func (r *Renderer) Phase() Phase {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.phase
}

// Frames returns the number of scene frames submitted so far.
func (r *Renderer) Frames() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frames
}

// SetClearColor changes the color frames are cleared to.
func (r *Renderer) SetClearColor(c [4]float32) {
	r.mu.Lock()
	r.clearColor = c
	r.mu.Unlock()
}

// SceneIDs returns the ids of all scenes in ascending order.
func (r *Renderer) SceneIDs() []scene.ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.scenes))
}

// Scene returns a copy of the scene with the given id.
func (r *Renderer) Scene(id scene.ID) (scene.Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.scenes[id]
	if !ok {
		return scene.Snapshot{}, false
	}
	return s.Snapshot(), true
}

// Receive handles one message. It implements actor.Handler.
func (r *Renderer) Receive(ctx *actor.Context, msg actor.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch m := msg.(type) {
	case Control:
		return r.control(ctx, m)
	case AddBatch:
		return r.addBatch(m)
	case AddInstance:
		return r.addInstance(m)
	case UpdateThing:
		return r.updateThing(m)
	case RemoveThing:
		s, err := r.scene(m.SceneID)
		if err != nil {
			return err
		}
		s.RemoveThing(m.ThingID)
		return nil
	case MoveEye:
		s, err := r.scene(m.SceneID)
		if err != nil {
			return err
		}
		s.Eye.Move(m.Delta)
		return nil
	case SetEye:
		return r.setEye(m)
	case AddScene:
		return r.addScene(m)
	case RemoveScene:
		return r.removeScene(m)
	case RegisterRenderable:
		return r.registerRenderable(m)
	case UnregisterRenderable:
		s, err := r.scene(m.SceneID)
		if err != nil {
			return err
		}
		return s.Unregister(m.Addr)
	case SetDebugText:
		s, err := r.scene(m.SceneID)
		if err != nil {
			return err
		}
		s.DebugText = m.Text
		return nil
	default:
		return fmt.Errorf("renderer: unexpected message %T", msg)
	}
}

func (r *Renderer) setPhase(p Phase) {
	if r.phase == p {
		return
	}
	r.log.Debug("phase",
		zap.Stringer("from", r.phase),
		zap.Stringer("to", p),
	)
	r.phase = p
}

func (r *Renderer) control(ctx *actor.Context, c Control) error {
	switch c {
	case ControlSetup:
		r.setPhase(PhaseSetup)
		return r.notify(ctx, func(id scene.ID) actor.Message {
			return SetupInScene{Renderer: ctx.Self(), SceneID: id}
		})

	case ControlRender:
		for _, s := range r.scenes {
			s.ClearInstances()
		}
		r.setPhase(PhaseCleared)
		if err := r.notify(ctx, func(id scene.ID) actor.Message {
			return RenderToScene{Renderer: ctx.Self(), SceneID: id}
		}); err != nil {
			return err
		}
		r.setPhase(PhasePopulating)
		return nil

	case ControlSubmit:
		r.setPhase(PhaseSubmitting)
		defer r.setPhase(PhaseIdle)
		return r.submit()

	default:
		return fmt.Errorf("renderer: unknown control %d", int(c))
	}
}

// notify sends one message per (scene, renderable) pair, scenes in
// ascending id order and renderables in registration order.
func (r *Renderer) notify(ctx *actor.Context, build func(scene.ID) actor.Message) error {
	for _, id := range slices.Sorted(maps.Keys(r.scenes)) {
		for _, addr := range r.scenes[id].Renderables() {
			if err := ctx.Send(addr, build(id)); err != nil {
				return fmt.Errorf("notifying scene %d: %w", id, err)
			}
		}
	}
	return nil
}

func (r *Renderer) submit() error {
	width, height := r.device.Size()
	for _, id := range slices.Sorted(maps.Keys(r.scenes)) {
		s := r.scenes[id]
		frame, err := BuildFrame(s, width, height, r.clearColor)
		if err != nil {
			return err
		}
		if err := r.device.Draw(frame); err != nil {
			r.log.Error("frame failed",
				zap.Uint32("scene", uint32(id)),
				zap.Error(err),
			)
			return fmt.Errorf("%w: scene %d: %w", ErrDevice, id, err)
		}
		r.frames++

		st := s.Stats()
		r.log.Debug("frame submitted",
			zap.Uint32("scene", uint32(id)),
			zap.Uint64("frame", r.frames),
			zap.Int("draws", len(frame.Draws)),
			zap.Int("batches", st.Batches),
			zap.Int("instances", st.Instances),
			zap.Int("things", st.Things),
		)
	}
	return nil
}

func (r *Renderer) scene(id scene.ID) (*scene.Scene, error) {
	s, ok := r.scenes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", scene.ErrUnknownScene, id)
	}
	return s, nil
}

func (r *Renderer) addBatch(m AddBatch) error {
	s, err := r.scene(m.SceneID)
	if err != nil {
		return err
	}
	if err := m.Thing.Validate(); err != nil {
		return fmt.Errorf("scene %d batch %d: %w", m.SceneID, m.BatchID, err)
	}
	s.SetBatch(m.BatchID, m.Thing)
	return nil
}

func (r *Renderer) addInstance(m AddInstance) error {
	s, err := r.scene(m.SceneID)
	if err != nil {
		return err
	}
	return s.AddInstance(m.BatchID, m.Instance)
}

func (r *Renderer) updateThing(m UpdateThing) error {
	s, err := r.scene(m.SceneID)
	if err != nil {
		return err
	}
	if err := m.Thing.Validate(); err != nil {
		return fmt.Errorf("scene %d thing %d: %w", m.SceneID, m.ThingID, err)
	}
	s.SetThing(m.ThingID, m.Thing, m.Instance)
	return nil
}

func (r *Renderer) setEye(m SetEye) error {
	s, err := r.scene(m.SceneID)
	if err != nil {
		return err
	}
	if err := m.Eye.Validate(); err != nil {
		return fmt.Errorf("scene %d: %w", m.SceneID, err)
	}
	s.Eye = m.Eye
	return nil
}

func (r *Renderer) addScene(m AddScene) error {
	if _, ok := r.scenes[m.SceneID]; ok {
		return fmt.Errorf("%w: %d", scene.ErrDuplicateScene, m.SceneID)
	}
	eye := camera.DefaultEye()
	if m.Eye != nil {
		eye = *m.Eye
	}
	if err := eye.Validate(); err != nil {
		return fmt.Errorf("scene %d: %w", m.SceneID, err)
	}
	r.scenes[m.SceneID] = scene.New(m.SceneID, eye)
	r.log.Info("scene added", zap.Uint32("scene", uint32(m.SceneID)))
	return nil
}

func (r *Renderer) removeScene(m RemoveScene) error {
	s, err := r.scene(m.SceneID)
	if err != nil {
		return err
	}
	delete(r.scenes, m.SceneID)
	r.log.Info("scene removed",
		zap.Uint32("scene", uint32(m.SceneID)),
		zap.Int("renderables", len(s.Renderables())),
	)
	return nil
}

func (r *Renderer) registerRenderable(m RegisterRenderable) error {
	s, err := r.scene(m.SceneID)
	if err != nil {
		return err
	}
	if err := s.Register(m.Addr); err != nil {
		return err
	}
	r.log.Info("renderable registered",
		zap.Uint32("scene", uint32(m.SceneID)),
		zap.Uint32("address", uint32(m.Addr)),
	)
	return nil
}
