package entity

import (
	"fmt"

	"github.com/Faultbox/monet/internal/actor"
	"github.com/Faultbox/monet/internal/engine/model"
	"github.com/Faultbox/monet/internal/engine/renderer"
	"github.com/Faultbox/monet/internal/engine/scene"
)

// GridConfig lays out a Grid.
type GridConfig struct {
	Batch   scene.BatchID
	Columns int
	Rows    int
	Spacing float32 // distance between cell centers
	Size    float32 // cube edge length
	Speed   float32 // wave speed in radians per second
	Clock   Clock
}

// DefaultGridConfig is an 8x8 grid of half-unit cubes.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		Batch:   1,
		Columns: 8,
		Rows:    8,
		Spacing: 1,
		Size:    0.5,
		Speed:   2,
		Clock:   WallClock(),
	}
}

// Grid is a field of cubes sharing one prototype, recolored every frame by
// a wave running across the grid.
type Grid struct {
	cfg GridConfig
}

// NewGrid creates a grid.
func NewGrid(cfg GridConfig) *Grid {
	if cfg.Clock == nil {
		cfg.Clock = WallClock()
	}
	return &Grid{cfg: cfg}
}

// Cells returns the number of instances the grid adds per frame.
func (g *Grid) Cells() int {
	return g.cfg.Columns * g.cfg.Rows
}

// Receive implements actor.Handler.
func (g *Grid) Receive(ctx *actor.Context, msg actor.Message) error {
	switch m := msg.(type) {
	case renderer.SetupInScene:
		return ctx.Send(m.Renderer, renderer.NewAddBatch(m.SceneID, g.cfg.Batch, model.Cube(g.cfg.Size)))
	case renderer.RenderToScene:
		return g.render(ctx, m)
	default:
		return fmt.Errorf("grid: unexpected message %T", msg)
	}
}

func (g *Grid) render(ctx *actor.Context, m renderer.RenderToScene) error {
	t := g.cfg.Clock() * g.cfg.Speed

	// Center the grid on the origin, resting on the ground plane.
	x0 := -float32(g.cfg.Columns-1) * g.cfg.Spacing / 2
	y0 := -float32(g.cfg.Rows-1) * g.cfg.Spacing / 2
	z := g.cfg.Size / 2

	for row := 0; row < g.cfg.Rows; row++ {
		for col := 0; col < g.cfg.Columns; col++ {
			phase := t + 0.5*float32(col+row)
			inst := model.NewInstance(
				[3]float32{x0 + float32(col)*g.cfg.Spacing, y0 + float32(row)*g.cfg.Spacing, z},
				[3]float32{wave(phase), wave(phase + 2), wave(phase + 4)},
			)
			if err := ctx.Send(m.Renderer, renderer.AddInstance{
				SceneID:  m.SceneID,
				BatchID:  g.cfg.Batch,
				Instance: inst,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}
