package entity

import (
	"fmt"
	"slices"

	"github.com/Faultbox/monet/internal/actor"
	"github.com/Faultbox/monet/internal/engine/model"
	"github.com/Faultbox/monet/internal/engine/renderer"
	"github.com/Faultbox/monet/internal/engine/scene"
)

// DragPhase is the stage of a pointer drag.
type DragPhase int

const (
	DragStart DragPhase = iota
	DragMove
	DragEnd
)

// Drag reports a pointer position on the ground plane during a drag.
type Drag struct {
	Phase DragPhase
	Point [2]float32
}

// HandleConfig describes a Handle.
type HandleConfig struct {
	Thing     scene.ThingID
	Path      [][2]float32
	Width     float32
	Height    float32 // z of the band
	Color     [3]float32
	Highlight [3]float32
	// ClickRadius is the largest press-to-release distance treated as a
	// click, which toggles the highlight instead of leaving the band moved.
	ClickRadius float32
}

// DefaultHandleConfig is an L-shaped band next to the grid.
func DefaultHandleConfig() HandleConfig {
	return HandleConfig{
		Thing:       1,
		Path:        [][2]float32{{-4, 5}, {2, 5}, {4, 3}},
		Width:       0.6,
		Height:      0.02,
		Color:       [3]float32{0.2, 0.35, 0.8},
		Highlight:   [3]float32{0.95, 0.7, 0.1},
		ClickRadius: 0.3,
	}
}

// Handle is a draggable band. It is drawn as a unique thing and rebuilt
// whenever its path or color changes.
type Handle struct {
	cfg  HandleConfig
	path [][2]float32

	highlighted bool
	grabbed     bool
	pressedAt   [2]float32
	last        [2]float32

	version uint64
	sent    map[scene.ID]uint64
}

// NewHandle creates a handle.
func NewHandle(cfg HandleConfig) *Handle {
	return &Handle{
		cfg:     cfg,
		path:    slices.Clone(cfg.Path),
		version: 1,
		sent:    make(map[scene.ID]uint64),
	}
}

// Receive implements actor.Handler.
func (h *Handle) Receive(ctx *actor.Context, msg actor.Message) error {
	switch m := msg.(type) {
	case renderer.SetupInScene:
		return h.send(ctx, m.Renderer, m.SceneID)
	case renderer.RenderToScene:
		if h.sent[m.SceneID] == h.version {
			return nil
		}
		return h.send(ctx, m.Renderer, m.SceneID)
	case Drag:
		h.drag(m)
		return nil
	default:
		return fmt.Errorf("handle: unexpected message %T", msg)
	}
}

// Contains reports whether p lies on the band.
func (h *Handle) Contains(p [2]float32) bool {
	return model.PathDistance(h.path, p) <= h.cfg.Width/2
}

func (h *Handle) drag(d Drag) {
	switch d.Phase {
	case DragStart:
		h.grabbed = h.Contains(d.Point)
		h.pressedAt = d.Point
		h.last = d.Point

	case DragMove:
		if !h.grabbed {
			return
		}
		h.translate(d.Point[0]-h.last[0], d.Point[1]-h.last[1])
		h.last = d.Point

	case DragEnd:
		if !h.grabbed {
			return
		}
		h.grabbed = false
		h.translate(d.Point[0]-h.last[0], d.Point[1]-h.last[1])
		dx, dy := d.Point[0]-h.pressedAt[0], d.Point[1]-h.pressedAt[1]
		if dx*dx+dy*dy <= h.cfg.ClickRadius*h.cfg.ClickRadius {
			h.highlighted = !h.highlighted
			h.version++
		}
	}
}

func (h *Handle) translate(dx, dy float32) {
	if dx == 0 && dy == 0 {
		return
	}
	for i := range h.path {
		h.path[i][0] += dx
		h.path[i][1] += dy
	}
	h.version++
}

func (h *Handle) send(ctx *actor.Context, to actor.Address, sc scene.ID) error {
	color := h.cfg.Color
	if h.highlighted {
		color = h.cfg.Highlight
	}
	mesh := model.Band(h.path, h.cfg.Width, h.cfg.Height)
	msg := renderer.NewUpdateThing(sc, h.cfg.Thing, mesh, model.NewInstance([3]float32{}, color))
	if err := ctx.Send(to, msg); err != nil {
		return err
	}
	h.sent[sc] = h.version
	return nil
}
