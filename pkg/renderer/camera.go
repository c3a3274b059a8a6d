package renderer

import (
	"math"

	"github.com/skysim/go-geodesic-raytracer/pkg/core"
	"github.com/skysim/go-geodesic-raytracer/pkg/scene"
)

// Camera generates rays for rendering
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	forward         core.Vec3
}

// NewCamera creates a pinhole camera from the scene configuration
func NewCamera(config scene.CameraConfig) *Camera {
	aspectRatio := config.AspectRatio
	if aspectRatio <= 0 {
		aspectRatio = 16.0 / 9.0
	}
	vfov := config.VFov
	if vfov <= 0 {
		vfov = 60.0
	}

	theta := vfov * math.Pi / 180.0
	h := math.Tan(theta / 2)
	viewportHeight := 2.0 * h
	viewportWidth := aspectRatio * viewportHeight

	w := config.Center.Subtract(config.LookAt).Normalize()
	up := config.Up
	if up.LengthSquared() == 0 {
		up = core.NewVec3(0, 1, 0)
	}
	u := up.Cross(w)
	if u.LengthSquared() < 1e-12 {
		// Up is parallel to the view direction, pick another up
		u = core.NewVec3(0, 1, 0).Cross(w)
	}
	if u.LengthSquared() < 1e-12 {
		u = core.NewVec3(1, 0, 0).Cross(w)
	}
	u = u.Normalize()
	v := w.Cross(u)

	origin := config.Center
	horizontal := u.Multiply(viewportWidth)
	vertical := v.Multiply(viewportHeight)
	lowerLeftCorner := origin.Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w)

	return &Camera{
		origin:          origin,
		horizontal:      horizontal,
		vertical:        vertical,
		lowerLeftCorner: lowerLeftCorner,
		forward:         w.Negate(),
	}
}

// GetRay generates a ray for screen coordinates (s, t) where 0 <= s,t <= 1.
// t = 0 is the bottom of the image.
func (c *Camera) GetRay(s, t float64) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction)
}

// Forward returns the camera view direction.
func (c *Camera) Forward() core.Vec3 {
	return c.forward
}
