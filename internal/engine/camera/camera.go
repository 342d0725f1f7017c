// Package camera provides the scene eye and its view transforms.
//
// World space is right-handed with +Z up. The ground plane is XY.
package camera

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Clip planes used for every perspective projection, in scene units.
const (
	Near float32 = 0.1
	Far  float32 = 1000.0
)

// collinearEpsilon bounds |up x forward| below which the eye is degenerate.
const collinearEpsilon = 1e-6

// ErrDegenerateEye is returned when an eye cannot produce a view matrix.
var ErrDegenerateEye = errors.New("degenerate eye")

// Eye is a scene camera.
type Eye struct {
	Position    mgl32.Vec3
	Target      mgl32.Vec3
	Up          mgl32.Vec3
	FieldOfView float32 // vertical, radians
}

// DefaultEye returns an eye at (-5, -5, 5) looking at the origin with +Z up.
func DefaultEye() Eye {
	return Eye{
		Position:    mgl32.Vec3{-5, -5, 5},
		Target:      mgl32.Vec3{0, 0, 0},
		Up:          mgl32.Vec3{0, 0, 1},
		FieldOfView: 0.3 * math32.Pi,
	}
}

// Direction returns the unnormalized look direction.
func (e Eye) Direction() mgl32.Vec3 {
	return e.Target.Sub(e.Position)
}

// Distance returns the distance from position to target.
func (e Eye) Distance() float32 {
	return e.Direction().Len()
}

// Validate checks the eye can produce a view and projection.
func (e Eye) Validate() error {
	dir := e.Direction()
	if dir.Len() == 0 {
		return fmt.Errorf("%w: position equals target %v", ErrDegenerateEye, e.Position)
	}
	if e.Up.Len() == 0 {
		return fmt.Errorf("%w: zero up vector", ErrDegenerateEye)
	}
	if e.Up.Normalize().Cross(dir.Normalize()).Len() < collinearEpsilon {
		return fmt.Errorf("%w: up %v is collinear with look direction %v", ErrDegenerateEye, e.Up, dir)
	}
	if e.FieldOfView <= 0 || e.FieldOfView >= math32.Pi {
		return fmt.Errorf("%w: field of view %v outside (0, pi)", ErrDegenerateEye, e.FieldOfView)
	}
	return nil
}

// GroundForward returns the look direction projected onto the ground plane
// and normalized. ok is false when the eye looks straight up or down.
func (e Eye) GroundForward() (forward mgl32.Vec3, ok bool) {
	dir := e.Direction().Vec2()
	if math32.Hypot(dir.X(), dir.Y()) == 0 {
		return mgl32.Vec3{}, false
	}
	return dir.Normalize().Vec3(0), true
}

// GroundSide returns the in-plane orthogonal of GroundForward, rotated a
// quarter turn counter-clockwise about +Z: forward x side = +Z.
// With the default up vector this points to the camera's left.
func (e Eye) GroundSide() (side mgl32.Vec3, ok bool) {
	f, ok := e.GroundForward()
	if !ok {
		return mgl32.Vec3{}, false
	}
	return mgl32.Vec3{-f.Y(), f.X(), 0}, true
}

// WorldDelta converts a camera-relative delta into world space.
// delta.X moves along GroundForward, delta.Y along GroundSide and delta.Z
// along world +Z. When the eye looks straight up or down the horizontal
// components are dropped.
func (e Eye) WorldDelta(delta mgl32.Vec3) mgl32.Vec3 {
	out := mgl32.Vec3{0, 0, delta.Z()}
	forward, ok := e.GroundForward()
	if !ok {
		return out
	}
	side, _ := e.GroundSide()
	return out.Add(forward.Mul(delta.X())).Add(side.Mul(delta.Y()))
}

// Move translates position and target by the camera-relative delta,
// keeping the view direction.
func (e *Eye) Move(delta mgl32.Vec3) {
	abs := e.WorldDelta(delta)
	e.Position = e.Position.Add(abs)
	e.Target = e.Target.Add(abs)
}

// ViewMatrix returns the right-handed look-at view matrix.
func (e Eye) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(e.Position, e.Target, e.Up)
}

// ProjectionMatrix returns the perspective projection for a surface of the
// given size. A zero height is treated as 1.
func (e Eye) ProjectionMatrix(width, height int) mgl32.Mat4 {
	if height <= 0 {
		height = 1
	}
	if width <= 0 {
		width = 1
	}
	return mgl32.Perspective(e.FieldOfView, float32(width)/float32(height), Near, Far)
}
