package model

import "github.com/chewxy/math32"

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Bounds returns the bounding box of the mesh vertices.
// An empty mesh has zero bounds.
func (t Thing) Bounds() Bounds {
	if len(t.vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: t.vertices[0].Position, Max: t.vertices[0].Position}
	for _, v := range t.vertices[1:] {
		for i := 0; i < 3; i++ {
			b.Min[i] = math32.Min(b.Min[i], v.Position[i])
			b.Max[i] = math32.Max(b.Max[i], v.Position[i])
		}
	}
	return b
}

// DirectionFromAngle returns the unit ground-plane direction for an angle in radians.
func DirectionFromAngle(angle float32) [2]float32 {
	return [2]float32{math32.Cos(angle), math32.Sin(angle)}
}

func length2(x, y float32) float32 {
	return math32.Hypot(x, y)
}

// PathDistance returns the distance from p to the nearest segment of path.
// A single-point path measures to that point; an empty path is infinitely far.
func PathDistance(path [][2]float32, p [2]float32) float32 {
	switch len(path) {
	case 0:
		return math32.Inf(1)
	case 1:
		return length2(p[0]-path[0][0], p[1]-path[0][1])
	}

	best := math32.Inf(1)
	for i := 0; i+1 < len(path); i++ {
		a, b := path[i], path[i+1]
		dx, dy := b[0]-a[0], b[1]-a[1]
		t := float32(0)
		if l2 := dx*dx + dy*dy; l2 > 0 {
			t = ((p[0]-a[0])*dx + (p[1]-a[1])*dy) / l2
			t = math32.Max(0, math32.Min(1, t))
		}
		cx, cy := a[0]+t*dx, a[1]+t*dy
		best = math32.Min(best, length2(p[0]-cx, p[1]-cy))
	}
	return best
}
