package entity

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/monet/internal/actor"
	"github.com/Faultbox/monet/internal/engine/model"
	"github.com/Faultbox/monet/internal/engine/renderer"
	"github.com/Faultbox/monet/internal/engine/scene"
)

// MarkerConfig describes a ring of orbiting arrows.
type MarkerConfig struct {
	Batch  scene.BatchID
	Count  int
	Radius float32
	Height float32
	Speed  float32 // radians per second
	Color  [3]float32
	Clock  Clock
}

// DefaultMarkerConfig is six red arrows circling the grid.
func DefaultMarkerConfig() MarkerConfig {
	return MarkerConfig{
		Batch:  2,
		Count:  6,
		Radius: 6,
		Height: 0.05,
		Speed:  0.5,
		Color:  [3]float32{0.85, 0.2, 0.2},
		Clock:  WallClock(),
	}
}

// Marker places arrows on a circle, each pointing along its orbit.
type Marker struct {
	cfg MarkerConfig
}

// NewMarker creates a marker.
func NewMarker(cfg MarkerConfig) *Marker {
	if cfg.Clock == nil {
		cfg.Clock = WallClock()
	}
	return &Marker{cfg: cfg}
}

// Receive implements actor.Handler.
func (mk *Marker) Receive(ctx *actor.Context, msg actor.Message) error {
	switch m := msg.(type) {
	case renderer.SetupInScene:
		return ctx.Send(m.Renderer, renderer.NewAddBatch(m.SceneID, mk.cfg.Batch, model.Arrow(0.8, 0.5, mk.cfg.Height)))
	case renderer.RenderToScene:
		return mk.render(ctx, m)
	default:
		return fmt.Errorf("marker: unexpected message %T", msg)
	}
}

// Placements returns the arrow instances at clock time t.
func (mk *Marker) Placements(t float32) []model.Instance {
	out := make([]model.Instance, 0, mk.cfg.Count)
	for i := 0; i < mk.cfg.Count; i++ {
		angle := t*mk.cfg.Speed + 2*math32.Pi*float32(i)/float32(mk.cfg.Count)
		inst := model.NewInstance(
			[3]float32{mk.cfg.Radius * math32.Cos(angle), mk.cfg.Radius * math32.Sin(angle), 0},
			mk.cfg.Color,
		)
		// Counter-clockwise tangent.
		inst.Direction = model.DirectionFromAngle(angle + math32.Pi/2)
		out = append(out, inst)
	}
	return out
}

func (mk *Marker) render(ctx *actor.Context, m renderer.RenderToScene) error {
	for _, inst := range mk.Placements(mk.cfg.Clock()) {
		if err := ctx.Send(m.Renderer, renderer.AddInstance{
			SceneID:  m.SceneID,
			BatchID:  mk.cfg.Batch,
			Instance: inst,
		}); err != nil {
			return err
		}
	}
	return nil
}
