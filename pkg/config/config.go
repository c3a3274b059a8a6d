// Package config reads render configuration files in gcfg (INI-style)
// format. Every parameter is optional; unset values fall back to the default
// scene, and physical parameters are clamped to the ranges the renderer
// supports rather than rejected.
package config

import (
	"fmt"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/skysim/go-geodesic-raytracer/pkg/core"
	"github.com/skysim/go-geodesic-raytracer/pkg/geodesic"
	"github.com/skysim/go-geodesic-raytracer/pkg/metric"
	"github.com/skysim/go-geodesic-raytracer/pkg/scene"
)

const ExampleConfigFile = `[BlackHole]

# Mass of the hole in geometric units. The event horizon of a non-spinning
# hole sits at twice this value. Clamped to [0.1, 5].
Mass = 1.0

# Dimensionless spin in [-1, 1]. 0 is a non-rotating (Schwarzschild) hole,
# negative values spin the other way.
Spin = 0.7

[Camera]

# Camera position.
PosX = 0
PosY = 3
PosZ = -40

# Point the camera looks at. Defaults to the hole at the origin.
# LookAtX = 0
# LookAtY = 0
# LookAtZ = 0

# Image width in pixels and aspect ratio (width / height).
Width = 800
AspectRatio = 1.7778

# Vertical field of view in degrees.
VFov = 60

[Disk]

# Thin accretion disk in the equatorial plane. Radii default to 3 and 5.5
# Schwarzschild radii when left unset.
Enabled = true
# InnerRadius = 6.0
# OuterRadius = 11.0

# Peak blackbody temperature in Kelvin and disk opacity in [0, 1].
Temperature = 10000
Opacity = 0.8

[Background]

# One of: gradient | starfield | image
Kind = starfield

# Starfield parameters.
StarDensity = 1.0
Seed = 42

# Equirectangular panorama for Kind = image.
# ImagePath = path/to/panorama.png

[Render]

# Integration quality: fast (fixed-step) or accurate (adaptive Runge-Kutta).
Quality = fast

# Integration step budget per ray. Clamped to [50, 1000].
MaxSteps = 450

# Progressive refinement passes for preview rendering.
Passes = 4`

type BlackHoleConfig struct {
	Mass float64
	Spin float64
}

type CameraConfig struct {
	PosX, PosY, PosZ          float64
	LookAtX, LookAtY, LookAtZ float64
	Width                     int
	AspectRatio               float64
	VFov                      float64
}

type DiskConfig struct {
	Enabled     bool
	InnerRadius float64
	OuterRadius float64
	Temperature float64
	Opacity     float64
}

type BackgroundConfig struct {
	Kind        string
	StarDensity float64
	Seed        int
	ImagePath   string
}

type RenderConfig struct {
	Quality  string
	MaxSteps int
	Passes   int
}

// File is the top-level gcfg structure, one field per section.
type File struct {
	BlackHole  BlackHoleConfig
	Camera     CameraConfig
	Disk       DiskConfig
	Background BackgroundConfig
	Render     RenderConfig
}

// DefaultFile returns a File matching the default scene.
func DefaultFile() *File {
	def := scene.NewDefaultScene()
	return &File{
		BlackHole: BlackHoleConfig{
			Mass: def.BlackHole.Mass,
			Spin: def.BlackHole.Spin,
		},
		Camera: CameraConfig{
			PosX:        def.CameraConfig.Center.X,
			PosY:        def.CameraConfig.Center.Y,
			PosZ:        def.CameraConfig.Center.Z,
			Width:       def.CameraConfig.Width,
			AspectRatio: def.CameraConfig.AspectRatio,
			VFov:        def.CameraConfig.VFov,
		},
		Disk: DiskConfig{
			Enabled:     def.Disk.Enabled,
			Temperature: def.Disk.Temperature,
			Opacity:     def.Disk.Opacity,
		},
		Background: BackgroundConfig{
			Kind:        def.Background.Kind,
			StarDensity: def.Background.StarDensity,
			Seed:        int(def.Background.Seed),
		},
		Render: RenderConfig{
			Quality:  def.Render.Quality.String(),
			MaxSteps: def.Render.MaxSteps,
			Passes:   def.Render.Passes,
		},
	}
}

// ReadFile parses a config file over the defaults.
func ReadFile(fname string) (*File, error) {
	f := DefaultFile()
	if err := gcfg.ReadFileInto(f, fname); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", fname, err)
	}
	return f, f.check()
}

// ReadString parses config text over the defaults.
func ReadString(text string) (*File, error) {
	f := DefaultFile()
	if err := gcfg.ReadStringInto(f, text); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return f, f.check()
}

// check validates the fields that have no sensible clamp.
func (f *File) check() error {
	switch strings.ToLower(f.Render.Quality) {
	case "fast", "accurate", "":
	default:
		return fmt.Errorf("Render.Quality must be fast or accurate, got %q", f.Render.Quality)
	}

	switch f.Background.Kind {
	case scene.BackgroundGradient, scene.BackgroundStarfield, "":
	case scene.BackgroundImage:
		if f.Background.ImagePath == "" {
			return fmt.Errorf("Background.Kind = image requires Background.ImagePath")
		}
	default:
		return fmt.Errorf("Background.Kind must be gradient, starfield or image, got %q", f.Background.Kind)
	}

	if f.Camera.Width < 0 {
		return fmt.Errorf("Camera.Width must be positive, got %d", f.Camera.Width)
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Scene converts the file into a renderable scene, clamping physical
// parameters to their supported ranges.
func (f *File) Scene() (*scene.Scene, error) {
	if err := f.check(); err != nil {
		return nil, err
	}

	bh := metric.NewBlackHole(
		clamp(f.BlackHole.Mass, 0.1, 5.0),
		clamp(f.BlackHole.Spin, -1.0, 1.0),
	)

	s := scene.NewDefaultScene(scene.CameraConfig{
		Center:      core.NewVec3(f.Camera.PosX, f.Camera.PosY, f.Camera.PosZ),
		LookAt:      core.NewVec3(f.Camera.LookAtX, f.Camera.LookAtY, f.Camera.LookAtZ),
		Width:       f.Camera.Width,
		AspectRatio: f.Camera.AspectRatio,
		VFov:        f.Camera.VFov,
	})
	s.BlackHole = bh

	disk := scene.NewDiskConfig(bh)
	disk.Enabled = f.Disk.Enabled
	if f.Disk.InnerRadius > 0 {
		disk.InnerRadius = f.Disk.InnerRadius
	}
	if f.Disk.OuterRadius > disk.InnerRadius {
		disk.OuterRadius = f.Disk.OuterRadius
	}
	if f.Disk.Temperature > 0 {
		disk.Temperature = f.Disk.Temperature
	}
	disk.Opacity = clamp(f.Disk.Opacity, 0.0, 1.0)
	s.Disk = disk

	s.Background = scene.BackgroundConfig{
		Kind:        f.Background.Kind,
		StarDensity: f.Background.StarDensity,
		Seed:        int64(f.Background.Seed),
		ImagePath:   f.Background.ImagePath,
	}
	if s.Background.Kind == "" {
		s.Background.Kind = scene.BackgroundStarfield
	}

	quality := geodesic.Fast
	if strings.ToLower(f.Render.Quality) == "accurate" {
		quality = geodesic.Accurate
	}
	s.Render = scene.RenderConfig{
		Quality:  quality,
		MaxSteps: clampInt(f.Render.MaxSteps, 50, 1000),
		Passes:   clampInt(f.Render.Passes, 1, 16),
	}

	return s, nil
}
