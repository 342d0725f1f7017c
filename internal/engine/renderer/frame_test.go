package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/monet/internal/engine/camera"
	"github.com/Faultbox/monet/internal/engine/model"
	"github.com/Faultbox/monet/internal/engine/scene"
)

func TestBuildFrame(t *testing.T) {
	s := scene.New(2, camera.DefaultEye())
	s.SetBatch(20, model.Cube(1))
	s.SetBatch(10, triangleMesh())
	require.NoError(t, s.AddInstance(10, inst(0)))
	require.NoError(t, s.AddInstance(10, inst(1)))
	s.SetThing(5, model.Cube(2), inst(9))
	s.DebugText = "debug"

	clearColor := [4]float32{0.1, 0.2, 0.3, 1}
	f, err := BuildFrame(s, 1000, 500, clearColor)
	require.NoError(t, err)

	assert.Equal(t, scene.ID(2), f.Scene)
	assert.Equal(t, clearColor, f.ClearColor)
	assert.Equal(t, "debug", f.DebugText)
	assert.Equal(t, s.Eye.ViewMatrix(), f.View)
	assert.Equal(t, mgl32.Perspective(s.Eye.FieldOfView, 2, camera.Near, camera.Far), f.Projection)

	require.Len(t, f.Draws, 3)
	assert.Equal(t, MeshKey{Scene: 2, Kind: DrawBatch, ID: 10}, f.Draws[0].Key)
	assert.Len(t, f.Draws[0].Instances, 2)
	assert.Equal(t, MeshKey{Scene: 2, Kind: DrawBatch, ID: 20}, f.Draws[1].Key)
	assert.Empty(t, f.Draws[1].Instances)
	assert.Equal(t, MeshKey{Scene: 2, Kind: DrawThing, ID: 5}, f.Draws[2].Key)
	assert.Equal(t, []model.Instance{inst(9)}, f.Draws[2].Instances)
	assert.Equal(t, 3, f.InstanceCount())
}

func TestBuildFrameGenerations(t *testing.T) {
	s := scene.New(1, camera.DefaultEye())
	s.SetBatch(1, triangleMesh())
	f1, err := BuildFrame(s, 1, 1, [4]float32{})
	require.NoError(t, err)

	require.NoError(t, s.AddInstance(1, inst(0)))
	f2, err := BuildFrame(s, 1, 1, [4]float32{})
	require.NoError(t, err)
	assert.Equal(t, f1.Draws[0].Generation, f2.Draws[0].Generation, "instances do not change the prototype")

	s.SetBatch(1, triangleMesh())
	f3, err := BuildFrame(s, 1, 1, [4]float32{})
	require.NoError(t, err)
	assert.NotEqual(t, f1.Draws[0].Generation, f3.Draws[0].Generation)
}

func TestBuildFrameRejectsDegenerateEye(t *testing.T) {
	s := scene.New(1, camera.Eye{
		Position:    mgl32.Vec3{0, 0, 5},
		Up:          mgl32.Vec3{0, 0, 1},
		FieldOfView: 1,
	})
	_, err := BuildFrame(s, 10, 10, [4]float32{})
	assert.ErrorIs(t, err, camera.ErrDegenerateEye)
}

func TestControlString(t *testing.T) {
	assert.Equal(t, "setup", ControlSetup.String())
	assert.Equal(t, "render", ControlRender.String())
	assert.Equal(t, "submit", ControlSubmit.String())
	assert.Equal(t, "populating", PhasePopulating.String())
	assert.Equal(t, "thing", DrawThing.String())
}
