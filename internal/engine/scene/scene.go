// Package scene provides the renderer-owned storage for one drawable scene:
// its eye, instanced batches, unique things and registered renderables.
//
// A Scene is not safe for concurrent use. It is owned by the renderer and
// mutated only from the renderer's message handlers.
package scene

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/Faultbox/monet/internal/actor"
	"github.com/Faultbox/monet/internal/engine/camera"
	"github.com/Faultbox/monet/internal/engine/model"
)

// ID identifies a scene.
type ID uint32

// BatchID identifies a batch within a scene.
type BatchID uint64

// ThingID identifies a unique thing within a scene.
type ThingID uint64

var (
	// ErrUnknownScene is returned for messages naming a scene that does not exist.
	ErrUnknownScene = errors.New("unknown scene")

	// ErrDuplicateScene is returned when adding a scene id that is already in use.
	ErrDuplicateScene = errors.New("scene already exists")

	// ErrUnknownBatch is returned when instancing a batch that was never added.
	ErrUnknownBatch = errors.New("unknown batch")

	// ErrDuplicateRenderable is returned when a renderable is registered twice in one scene.
	ErrDuplicateRenderable = errors.New("renderable already registered")

	// ErrUnknownRenderable is returned when unregistering an address that is not registered.
	ErrUnknownRenderable = errors.New("renderable not registered")
)

// Batch is a prototype mesh drawn once per instance in a single draw call.
type Batch struct {
	prototype  model.Thing
	Instances  []model.Instance
	generation uint64
}

// Prototype returns the batch mesh.
func (b *Batch) Prototype() model.Thing {
	return b.prototype
}

// Generation changes whenever the prototype is replaced.
func (b *Batch) Generation() uint64 {
	return b.generation
}

// Thing is a unique mesh with its single placement.
type Thing struct {
	Mesh       model.Thing
	Instance   model.Instance
	generation uint64
}

// Generation changes whenever the mesh is replaced.
func (t *Thing) Generation() uint64 {
	return t.generation
}

// Scene is a camera plus everything drawn through it.
type Scene struct {
	ID        ID
	Eye       camera.Eye
	DebugText string

	batches     map[BatchID]*Batch
	things      map[ThingID]*Thing
	renderables []actor.Address

	// Bumped on every prototype or mesh replacement so GPU caches can
	// tell a replaced mesh from a retained one.
	generation uint64
}

// New creates an empty scene.
func New(id ID, eye camera.Eye) *Scene {
	return &Scene{
		ID:      id,
		Eye:     eye,
		batches: make(map[BatchID]*Batch),
		things:  make(map[ThingID]*Thing),
	}
}

// SetBatch inserts or replaces a batch with a copy of prototype and no instances.
func (s *Scene) SetBatch(id BatchID, prototype model.Thing) {
	s.generation++
	s.batches[id] = &Batch{
		prototype:  prototype.Clone(),
		generation: s.generation,
	}
}

// AddInstance appends one instance to an existing batch.
func (s *Scene) AddInstance(id BatchID, inst model.Instance) error {
	b, ok := s.batches[id]
	if !ok {
		return fmt.Errorf("%w: scene %d batch %d", ErrUnknownBatch, s.ID, id)
	}
	b.Instances = append(b.Instances, inst)
	return nil
}

// ClearInstances empties the instance list of every batch.
// Backing arrays are kept for reuse by the next frame.
func (s *Scene) ClearInstances() {
	for _, b := range s.batches {
		b.Instances = b.Instances[:0]
	}
}

// Batch returns the batch with the given id.
func (s *Scene) Batch(id BatchID) (*Batch, bool) {
	b, ok := s.batches[id]
	return b, ok
}

// BatchIDs returns batch ids in ascending order.
func (s *Scene) BatchIDs() []BatchID {
	return slices.Sorted(maps.Keys(s.batches))
}

// SetThing replaces the thing at id with a copy of mesh placed at inst.
func (s *Scene) SetThing(id ThingID, mesh model.Thing, inst model.Instance) {
	s.generation++
	s.things[id] = &Thing{
		Mesh:       mesh.Clone(),
		Instance:   inst,
		generation: s.generation,
	}
}

// RemoveThing drops the thing at id. It reports whether it existed.
func (s *Scene) RemoveThing(id ThingID) bool {
	_, ok := s.things[id]
	delete(s.things, id)
	return ok
}

// Thing returns the thing with the given id.
func (s *Scene) Thing(id ThingID) (*Thing, bool) {
	t, ok := s.things[id]
	return t, ok
}

// ThingIDs returns thing ids in ascending order.
func (s *Scene) ThingIDs() []ThingID {
	return slices.Sorted(maps.Keys(s.things))
}

// Register appends a renderable to the participant list.
func (s *Scene) Register(addr actor.Address) error {
	if slices.Contains(s.renderables, addr) {
		return fmt.Errorf("%w: scene %d address %d", ErrDuplicateRenderable, s.ID, addr)
	}
	s.renderables = append(s.renderables, addr)
	return nil
}

// Unregister removes a renderable from the participant list.
func (s *Scene) Unregister(addr actor.Address) error {
	i := slices.Index(s.renderables, addr)
	if i < 0 {
		return fmt.Errorf("%w: scene %d address %d", ErrUnknownRenderable, s.ID, addr)
	}
	s.renderables = slices.Delete(s.renderables, i, i+1)
	return nil
}

// Renderables returns the participant list in registration order.
// The slice must not be modified.
func (s *Scene) Renderables() []actor.Address {
	return s.renderables
}

// Stats summarizes what the scene will draw.
type Stats struct {
	Batches     int
	Instances   int
	Things      int
	Renderables int
}

// Stats returns the current draw totals.
func (s *Scene) Stats() Stats {
	st := Stats{
		Batches:     len(s.batches),
		Things:      len(s.things),
		Renderables: len(s.renderables),
	}
	for _, b := range s.batches {
		st.Instances += len(b.Instances)
	}
	return st
}
