// Package picking turns window coordinates into world-space rays and ground points.
package picking

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/monet/internal/engine/model"
)

// parallelEpsilon bounds |direction.z| below which a ray misses the ground.
const parallelEpsilon = 1e-4

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3 // Normalized direction
}

// ScreenToRay converts window pixel coordinates (origin top-left) to a
// world-space ray through the near and far clip planes.
// ok is false when view*projection is not invertible or the viewport is empty.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, view, projection mgl32.Mat4) (Ray, bool) {
	if viewportW <= 0 || viewportH <= 0 {
		return Ray{}, false
	}
	viewProj := projection.Mul4(view)
	if viewProj.Det() == 0 {
		return Ray{}, false
	}
	inv := viewProj.Inv()

	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // Flip Y

	near := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})
	if near.W() == 0 || far.W() == 0 {
		return Ray{}, false
	}

	origin := near.Vec3().Mul(1 / near.W())
	dir := far.Vec3().Mul(1 / far.W()).Sub(origin)
	if dir.Len() == 0 {
		return Ray{}, false
	}
	return Ray{Origin: origin, Direction: dir.Normalize()}, true
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectGround intersects the ray with the horizontal plane z = height.
// ok is false when the ray is parallel to the plane or the plane lies behind it.
func (r Ray) IntersectGround(height float32) (p [2]float32, ok bool) {
	if math32.Abs(r.Direction.Z()) < parallelEpsilon {
		return p, false
	}
	t := (height - r.Origin.Z()) / r.Direction.Z()
	if t < 0 {
		return p, false
	}
	hit := r.At(t)
	return [2]float32{hit.X(), hit.Y()}, true
}

// IntersectBounds tests the ray against an axis-aligned box with the slab
// method. It returns the entry distance, or the exit distance when the ray
// starts inside the box.
func (r Ray) IntersectBounds(box model.Bounds) (t float32, hit bool) {
	tmin := float32(-math32.MaxFloat32)
	tmax := float32(math32.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		o, d := r.Origin[axis], r.Direction[axis]
		if d == 0 {
			if o < box.Min[axis] || o > box.Max[axis] {
				return 0, false
			}
			continue
		}
		t1 := (box.Min[axis] - o) / d
		t2 := (box.Max[axis] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math32.Max(tmin, t1)
		tmax = math32.Min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// GroundPoint projects a window pixel onto the plane z = height as seen
// through view and projection.
func GroundPoint(screenX, screenY float32, width, height int, view, projection mgl32.Mat4, planeZ float32) ([2]float32, bool) {
	ray, ok := ScreenToRay(screenX, screenY, float32(width), float32(height), view, projection)
	if !ok {
		return [2]float32{}, false
	}
	return ray.IntersectGround(planeZ)
}
