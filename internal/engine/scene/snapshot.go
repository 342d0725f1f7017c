package scene

import (
	"slices"

	"github.com/Faultbox/monet/internal/actor"
	"github.com/Faultbox/monet/internal/engine/camera"
	"github.com/Faultbox/monet/internal/engine/model"
)

// Snapshot is a deep copy of a scene, independent of later mutations.
type Snapshot struct {
	ID          ID
	Eye         camera.Eye
	DebugText   string
	Batches     map[BatchID]BatchSnapshot
	Things      map[ThingID]ThingSnapshot
	Renderables []actor.Address
}

// BatchSnapshot is a copied batch.
type BatchSnapshot struct {
	Prototype model.Thing
	Instances []model.Instance
}

// ThingSnapshot is a copied thing.
type ThingSnapshot struct {
	Mesh     model.Thing
	Instance model.Instance
}

// Snapshot copies the scene.
func (s *Scene) Snapshot() Snapshot {
	snap := Snapshot{
		ID:          s.ID,
		Eye:         s.Eye,
		DebugText:   s.DebugText,
		Batches:     make(map[BatchID]BatchSnapshot, len(s.batches)),
		Things:      make(map[ThingID]ThingSnapshot, len(s.things)),
		Renderables: slices.Clone(s.renderables),
	}
	for id, b := range s.batches {
		snap.Batches[id] = BatchSnapshot{
			Prototype: b.prototype.Clone(),
			Instances: slices.Clone(b.Instances),
		}
	}
	for id, t := range s.things {
		snap.Things[id] = ThingSnapshot{
			Mesh:     t.Mesh.Clone(),
			Instance: t.Instance,
		}
	}
	return snap
}
