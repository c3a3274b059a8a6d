package scene

import (
	"fmt"

	"github.com/skysim/go-geodesic-raytracer/pkg/core"
	"github.com/skysim/go-geodesic-raytracer/pkg/geodesic"
	"github.com/skysim/go-geodesic-raytracer/pkg/metric"
)

// NewDefaultScene creates the standard view: a spinning hole with an
// accretion disk, seen from slightly above the equatorial plane against a
// procedural starfield.
func NewDefaultScene(cameraOverrides ...CameraConfig) *Scene {
	defaultCameraConfig := CameraConfig{
		Center:      core.NewVec3(0, 3, -40), // above the disk plane, looking in
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       800,
		AspectRatio: 16.0 / 9.0,
		VFov:        60.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	bh := metric.NewBlackHole(1.0, 0.7)

	return &Scene{
		BlackHole:    bh,
		CameraConfig: cameraConfig,
		Disk:         NewDiskConfig(bh),
		Background: BackgroundConfig{
			Kind:        BackgroundStarfield,
			StarDensity: 1.0,
			Seed:        42,
		},
		Render: RenderConfig{
			Quality:  geodesic.Fast,
			MaxSteps: geodesic.DefaultOptions().MaxSteps,
			Passes:   4,
		},
	}
}

// NewSchwarzschildScene is the non-rotating reference view: no disk, gradient
// background, so lensing is the only visible effect.
func NewSchwarzschildScene(cameraOverrides ...CameraConfig) *Scene {
	s := NewDefaultScene(cameraOverrides...)
	s.BlackHole = metric.NewBlackHole(1.0, 0.0)
	s.Disk = NewDiskConfig(s.BlackHole)
	s.Disk.Enabled = false
	s.Background = BackgroundConfig{
		Kind:        BackgroundGradient,
		TopColor:    core.NewVec3(0.10, 0.12, 0.25),
		BottomColor: core.NewVec3(0.01, 0.01, 0.03),
	}
	return s
}

// NewEdgeOnScene puts the camera in the disk plane, where the disk's far side
// appears lensed above and below the shadow.
func NewEdgeOnScene(cameraOverrides ...CameraConfig) *Scene {
	s := NewDefaultScene(cameraOverrides...)
	if len(cameraOverrides) == 0 || cameraOverrides[0].Center.LengthSquared() == 0 {
		s.CameraConfig.Center = core.NewVec3(0, 0.3, -40)
	}
	return s
}

// NewExtremeKerrScene pushes the spin to the configured limit, where the
// horizon shrinks to one gravitational radius and frame drag is strongest.
func NewExtremeKerrScene(cameraOverrides ...CameraConfig) *Scene {
	s := NewDefaultScene(cameraOverrides...)
	s.BlackHole = metric.NewBlackHole(1.0, 0.999)
	s.Disk = NewDiskConfig(s.BlackHole)
	return s
}

// SceneInfo represents an available scene preset with its metadata
type SceneInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListScenes returns the available presets in UI order.
func ListScenes() []SceneInfo {
	return []SceneInfo{
		{
			ID:          "default",
			Name:        "Kerr Black Hole",
			Description: "Spinning hole with accretion disk over a starfield",
		},
		{
			ID:          "schwarzschild",
			Name:        "Schwarzschild Black Hole",
			Description: "Non-rotating hole, lensing only, no disk",
		},
		{
			ID:          "edge-on",
			Name:        "Edge-On Disk",
			Description: "Camera in the disk plane, far side lensed into view",
		},
		{
			ID:          "extreme-kerr",
			Name:        "Extreme Kerr",
			Description: "Near-maximal spin with strong frame dragging",
		},
	}
}

// CreateScene builds a preset by ID, applying any camera overrides.
func CreateScene(id string, cameraOverrides ...CameraConfig) (*Scene, error) {
	switch id {
	case "default", "":
		return NewDefaultScene(cameraOverrides...), nil
	case "schwarzschild":
		return NewSchwarzschildScene(cameraOverrides...), nil
	case "edge-on":
		return NewEdgeOnScene(cameraOverrides...), nil
	case "extreme-kerr":
		return NewExtremeKerrScene(cameraOverrides...), nil
	default:
		return nil, fmt.Errorf("unknown scene: %s", id)
	}
}
