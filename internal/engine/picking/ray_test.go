package picking

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/monet/internal/engine/camera"
	"github.com/Faultbox/monet/internal/engine/model"
)

func topDown() (view, projection mgl32.Mat4) {
	eye := camera.Eye{
		Position:    mgl32.Vec3{0, 0, 10},
		Target:      mgl32.Vec3{0, 0, 0},
		Up:          mgl32.Vec3{0, 1, 0},
		FieldOfView: mgl32.DegToRad(90),
	}
	return eye.ViewMatrix(), eye.ProjectionMatrix(100, 100)
}

func TestScreenToRayCenter(t *testing.T) {
	view, proj := topDown()
	ray, ok := ScreenToRay(50, 50, 100, 100, view, proj)
	require.True(t, ok)

	assert.InDelta(t, 0, ray.Direction.X(), 1e-4)
	assert.InDelta(t, 0, ray.Direction.Y(), 1e-4)
	assert.InDelta(t, -1, ray.Direction.Z(), 1e-4)
}

func TestGroundPoint(t *testing.T) {
	view, proj := topDown()

	p, ok := GroundPoint(50, 50, 100, 100, view, proj, 0)
	require.True(t, ok)
	assert.InDelta(t, 0, p[0], 1e-3)
	assert.InDelta(t, 0, p[1], 1e-3)

	// 90 degree fov at distance 10 spans 20 units; the top edge is +Y.
	p, ok = GroundPoint(50, 0, 100, 100, view, proj, 0)
	require.True(t, ok)
	assert.InDelta(t, 0, p[0], 1e-2)
	assert.InDelta(t, 10, p[1], 1e-2)

	p, ok = GroundPoint(100, 50, 100, 100, view, proj, 0)
	require.True(t, ok)
	assert.InDelta(t, 10, p[0], 1e-2)
}

func TestScreenToRayEmptyViewport(t *testing.T) {
	view, proj := topDown()
	_, ok := ScreenToRay(0, 0, 0, 100, view, proj)
	assert.False(t, ok)
}

func TestIntersectGroundMisses(t *testing.T) {
	parallel := Ray{Origin: mgl32.Vec3{0, 0, 1}, Direction: mgl32.Vec3{1, 0, 0}}
	_, ok := parallel.IntersectGround(0)
	assert.False(t, ok)

	away := Ray{Origin: mgl32.Vec3{0, 0, 1}, Direction: mgl32.Vec3{0, 0, 1}}
	_, ok = away.IntersectGround(0)
	assert.False(t, ok)
}

func TestIntersectBounds(t *testing.T) {
	box := model.Cube(2).Bounds()

	ray := Ray{Origin: mgl32.Vec3{0, 0, 10}, Direction: mgl32.Vec3{0, 0, -1}}
	d, hit := ray.IntersectBounds(box)
	require.True(t, hit)
	assert.InDelta(t, 9, d, 1e-5)

	inside := Ray{Origin: mgl32.Vec3{0, 0, 0}, Direction: mgl32.Vec3{1, 0, 0}}
	d, hit = inside.IntersectBounds(box)
	require.True(t, hit)
	assert.InDelta(t, 1, d, 1e-5)

	miss := Ray{Origin: mgl32.Vec3{5, 5, 10}, Direction: mgl32.Vec3{0, 0, -1}}
	_, hit = miss.IntersectBounds(box)
	assert.False(t, hit)
}
