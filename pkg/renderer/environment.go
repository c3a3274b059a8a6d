package renderer

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"github.com/skysim/go-geodesic-raytracer/pkg/core"
	"github.com/skysim/go-geodesic-raytracer/pkg/scene"
)

// Environment supplies the color seen by rays that escape to infinity.
// Implementations are immutable after construction and safe to share across
// rendering workers.
type Environment interface {
	Sample(direction core.Vec3) core.Vec3
}

// NewEnvironment builds the environment described by the scene background.
func NewEnvironment(config scene.BackgroundConfig) (Environment, error) {
	switch config.Kind {
	case scene.BackgroundGradient, "":
		top := config.TopColor
		bottom := config.BottomColor
		if top.LengthSquared() == 0 && bottom.LengthSquared() == 0 {
			top = core.NewVec3(0.10, 0.12, 0.25)
			bottom = core.NewVec3(0.01, 0.01, 0.03)
		}
		return &GradientEnvironment{TopColor: top, BottomColor: bottom}, nil
	case scene.BackgroundStarfield:
		density := config.StarDensity
		if density <= 0 {
			density = 1.0
		}
		return NewStarfieldEnvironment(density, config.Seed), nil
	case scene.BackgroundImage:
		return LoadImageEnvironment(config.ImagePath)
	default:
		return nil, fmt.Errorf("unknown background kind: %s", config.Kind)
	}
}

// GradientEnvironment returns a vertical gradient based on ray direction
type GradientEnvironment struct {
	TopColor    core.Vec3
	BottomColor core.Vec3
}

// Sample interpolates between the bottom and top colors by elevation.
func (e *GradientEnvironment) Sample(direction core.Vec3) core.Vec3 {
	unitDirection := direction.Normalize()

	// Use the y-component to create a gradient (map from -1,1 to 0,1)
	t := 0.5 * (unitDirection.Y + 1.0)

	return e.BottomColor.Multiply(1.0 - t).Add(e.TopColor.Multiply(t))
}

// StarfieldEnvironment is a procedural star background. Stars are placed by
// hashing direction cells on an equirectangular grid, so the same direction
// always yields the same star and the field stays fixed as the camera moves.
type StarfieldEnvironment struct {
	density float64
	seed    uint64

	cellsX int
	cellsY int
}

// NewStarfieldEnvironment creates a starfield with roughly density-scaled
// star coverage. Seed selects the star pattern.
func NewStarfieldEnvironment(density float64, seed int64) *StarfieldEnvironment {
	return &StarfieldEnvironment{
		density: density,
		seed:    uint64(seed)*0x9e3779b97f4a7c15 + 0x2545f4914f6cdd1d,
		cellsX:  4096,
		cellsY:  2048,
	}
}

// hash64 is a splitmix64 round, enough mixing for visual randomness.
func hash64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Sample returns the star color for a direction, or near-black space.
func (e *StarfieldEnvironment) Sample(direction core.Vec3) core.Vec3 {
	d := direction.Normalize()

	// Equirectangular cell for this direction.
	phi := math.Atan2(d.Z, d.X)
	theta := math.Acos(math.Max(-1, math.Min(1, d.Y)))
	cx := int((phi + math.Pi) / (2 * math.Pi) * float64(e.cellsX))
	cy := int(theta / math.Pi * float64(e.cellsY))
	if cx >= e.cellsX {
		cx = e.cellsX - 1
	}
	if cy >= e.cellsY {
		cy = e.cellsY - 1
	}

	h := hash64(e.seed ^ uint64(cy)<<32 ^ uint64(cx))

	// Top bits decide whether this cell holds a star. The threshold keeps
	// roughly 1.5% of cells lit at density 1.
	chance := float64(h>>40) / float64(1<<24)
	if chance > 0.015*e.density {
		return core.NewVec3(0.002, 0.002, 0.004)
	}

	// Remaining bits pick brightness and a warm/cool tint.
	brightness := 0.3 + 0.7*float64(h&0xffff)/65535.0
	tint := float64((h>>16)&0xff) / 255.0
	color := core.NewVec3(0.8+0.2*tint, 0.85, 1.0-0.3*tint)
	return color.Multiply(brightness)
}

// ImageEnvironment samples an equirectangular panorama image.
type ImageEnvironment struct {
	img    image.Image
	width  int
	height int
}

// LoadImageEnvironment decodes an equirectangular panorama from disk.
func LoadImageEnvironment(path string) (*ImageEnvironment, error) {
	if path == "" {
		return nil, fmt.Errorf("image background requires a path")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open environment image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode environment image %s: %w", path, err)
	}
	return NewImageEnvironment(img), nil
}

// NewImageEnvironment wraps an already decoded panorama.
func NewImageEnvironment(img image.Image) *ImageEnvironment {
	bounds := img.Bounds()
	return &ImageEnvironment{
		img:    img,
		width:  bounds.Dx(),
		height: bounds.Dy(),
	}
}

// Sample maps the direction to equirectangular coordinates and returns the
// pixel color in linear [0,1] channels.
func (e *ImageEnvironment) Sample(direction core.Vec3) core.Vec3 {
	d := direction.Normalize()

	phi := math.Atan2(d.Z, d.X)
	theta := math.Acos(math.Max(-1, math.Min(1, d.Y)))

	u := (phi + math.Pi) / (2 * math.Pi)
	v := theta / math.Pi

	x := int(u * float64(e.width))
	y := int(v * float64(e.height))
	if x >= e.width {
		x = e.width - 1
	}
	if y >= e.height {
		y = e.height - 1
	}

	bounds := e.img.Bounds()
	r, g, b, _ := e.img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
	return core.NewVec3(float64(r)/65535.0, float64(g)/65535.0, float64(b)/65535.0)
}
