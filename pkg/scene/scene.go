// Package scene describes everything a render needs: the black hole, the
// camera, the accretion disk, the background, and the trace bounds. Scenes are
// plain data; the renderer turns them into pixels.
package scene

import (
	"github.com/skysim/go-geodesic-raytracer/pkg/core"
	"github.com/skysim/go-geodesic-raytracer/pkg/geodesic"
	"github.com/skysim/go-geodesic-raytracer/pkg/metric"
)

// CameraConfig holds the camera parameters for scene configuration
type CameraConfig struct {
	Center      core.Vec3 // camera position
	LookAt      core.Vec3 // point the camera looks at
	Up          core.Vec3 // up direction
	Width       int       // image width in pixels
	AspectRatio float64   // width / height
	VFov        float64   // vertical field of view in degrees
}

// MergeCameraConfig merges an override config into a base config.
// Zero-valued fields in the override leave the base value in place.
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	merged := base
	if override.Center.LengthSquared() != 0 {
		merged.Center = override.Center
	}
	if override.LookAt.LengthSquared() != 0 {
		merged.LookAt = override.LookAt
	}
	if override.Up.LengthSquared() != 0 {
		merged.Up = override.Up
	}
	if override.Width > 0 {
		merged.Width = override.Width
	}
	if override.AspectRatio > 0 {
		merged.AspectRatio = override.AspectRatio
	}
	if override.VFov > 0 {
		merged.VFov = override.VFov
	}
	return merged
}

// DiskConfig describes the thin accretion disk in the equatorial plane.
type DiskConfig struct {
	Enabled     bool
	InnerRadius float64 // disk inner edge
	OuterRadius float64 // disk outer edge
	Temperature float64 // peak blackbody temperature in Kelvin
	Opacity     float64 // 0 transparent, 1 opaque
}

// NewDiskConfig sizes the disk against the hole: inner edge at 3 Schwarzschild
// radii, outer edge at 5.5, glowing at 10000 K.
func NewDiskConfig(bh metric.BlackHole) DiskConfig {
	rs := bh.SchwarzschildRadius()
	return DiskConfig{
		Enabled:     true,
		InnerRadius: 3.0 * rs,
		OuterRadius: 5.5 * rs,
		Temperature: 10000.0,
		Opacity:     0.8,
	}
}

// Background kinds understood by the renderer.
const (
	BackgroundGradient  = "gradient"
	BackgroundStarfield = "starfield"
	BackgroundImage     = "image"
)

// BackgroundConfig selects what escaped rays sample. Keeping this as data
// rather than a constructed environment lets scenes stay serializable and
// keeps image decoding in the renderer.
type BackgroundConfig struct {
	Kind        string
	TopColor    core.Vec3 // gradient zenith color
	BottomColor core.Vec3 // gradient horizon color
	StarDensity float64   // stars per unit solid angle scale, starfield only
	Seed        int64     // starfield generation seed
	ImagePath   string    // equirectangular panorama, image kind only
}

// RenderConfig contains per-render tuning independent of the physics.
type RenderConfig struct {
	Quality  geodesic.Quality
	MaxSteps int // integration step budget per ray
	Passes   int // progressive refinement passes
}

// Scene contains all the elements needed for rendering
type Scene struct {
	BlackHole    metric.BlackHole
	CameraConfig CameraConfig
	Disk         DiskConfig
	Background   BackgroundConfig
	Render       RenderConfig
}

// TraceOptions derives the geodesic trace bounds from the scene.
func (s *Scene) TraceOptions() geodesic.Options {
	opts := geodesic.DefaultOptions()
	if s.Render.MaxSteps > 0 {
		opts.MaxSteps = s.Render.MaxSteps
	}
	return opts
}

// Height returns the image height implied by the camera width and aspect ratio.
func (s *Scene) Height() int {
	ar := s.CameraConfig.AspectRatio
	if ar <= 0 {
		ar = 16.0 / 9.0
	}
	h := int(float64(s.CameraConfig.Width) / ar)
	if h < 1 {
		h = 1
	}
	return h
}
