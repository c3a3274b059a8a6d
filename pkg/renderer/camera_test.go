package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skysim/go-geodesic-raytracer/pkg/core"
	"github.com/skysim/go-geodesic-raytracer/pkg/scene"
)

func testCameraConfig() scene.CameraConfig {
	return scene.CameraConfig{
		Center:      core.NewVec3(0, 0, -40),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       100,
		AspectRatio: 1.0,
		VFov:        60.0,
	}
}

func TestCameraCenterRayLooksAtTarget(t *testing.T) {
	camera := NewCamera(testCameraConfig())

	ray := camera.GetRay(0.5, 0.5)
	dir := ray.Direction.Normalize()

	assert.InDelta(t, 1.0, dir.Dot(camera.Forward()), 1e-9,
		"the center ray must point along the view direction")
	assert.Equal(t, core.NewVec3(0, 0, -40), ray.Origin)
}

func TestCameraRaysSpanTheViewport(t *testing.T) {
	camera := NewCamera(testCameraConfig())

	left := camera.GetRay(0, 0.5).Direction.Normalize()
	right := camera.GetRay(1, 0.5).Direction.Normalize()
	bottom := camera.GetRay(0.5, 0).Direction.Normalize()
	top := camera.GetRay(0.5, 1).Direction.Normalize()

	assert.Less(t, left.X, right.X, "s sweeps left to right")
	assert.Less(t, bottom.Y, top.Y, "t sweeps bottom to top")
	assert.InDelta(t, left.Y, right.Y, 1e-9, "horizontal sweep stays level")
}

func TestCameraHandlesDegenerateUp(t *testing.T) {
	config := testCameraConfig()
	config.Up = core.NewVec3(0, 0, 1) // parallel to the view direction

	camera := NewCamera(config)
	dir := camera.GetRay(0.5, 0.5).Direction.Normalize()
	assert.InDelta(t, 1.0, dir.Length(), 1e-9)
	assert.InDelta(t, 1.0, dir.Dot(camera.Forward()), 1e-9)
}
