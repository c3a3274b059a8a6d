package renderer

import (
	"math"

	"github.com/skysim/go-geodesic-raytracer/pkg/core"
	"github.com/skysim/go-geodesic-raytracer/pkg/scene"
)

// accretionDisk shades ray crossings of the thin disk in the equatorial
// plane. The disk has no thickness: a ray interacts with it exactly when a
// path segment crosses y = 0 between the inner and outer radii.
type accretionDisk struct {
	config    scene.DiskConfig
	peakColor core.Vec3
}

func newAccretionDisk(config scene.DiskConfig) *accretionDisk {
	return &accretionDisk{
		config:    config,
		peakColor: blackbodyColor(config.Temperature),
	}
}

// crossing reports whether the segment from prev to cur passes through the
// disk annulus, returning the crossing point.
func (d *accretionDisk) crossing(prev, cur core.Vec3) (core.Vec3, bool) {
	if (prev.Y > 0) == (cur.Y > 0) {
		return core.Vec3{}, false
	}
	dy := prev.Y - cur.Y
	if dy == 0 {
		return core.Vec3{}, false
	}
	t := prev.Y / dy
	p := prev.Lerp(cur, t)

	r := math.Sqrt(p.X*p.X + p.Z*p.Z)
	if r < d.config.InnerRadius || r > d.config.OuterRadius {
		return core.Vec3{}, false
	}
	return p, true
}

// shade returns the emitted color and opacity at a crossing point. The disk
// follows the thin-disk temperature profile T ~ r^-3/4: hottest and brightest
// at the inner edge, cooling outward.
func (d *accretionDisk) shade(p core.Vec3) (core.Vec3, float64) {
	r := math.Sqrt(p.X*p.X + p.Z*p.Z)

	radialT := math.Pow(d.config.InnerRadius/r, 0.75)
	temperature := d.config.Temperature * radialT
	brightness := 0.25 + 0.75*radialT

	return blackbodyColor(temperature).Multiply(brightness), d.config.Opacity
}

// blackbodyColor approximates the RGB color of a blackbody at the given
// temperature in Kelvin, normalized to [0,1] channels. Valid from roughly
// 1000 K to 40000 K.
func blackbodyColor(kelvin float64) core.Vec3 {
	t := kelvin / 100.0
	if t < 10 {
		t = 10
	}
	if t > 400 {
		t = 400
	}

	var r, g, b float64

	if t <= 66 {
		r = 1.0
	} else {
		r = 1.2929361861 * math.Pow(t-60, -0.1332047592)
	}

	if t <= 66 {
		g = 0.3900815788*math.Log(t) - 0.6318414438
	} else {
		g = 1.1298908609 * math.Pow(t-60, -0.0755148492)
	}

	if t >= 66 {
		b = 1.0
	} else if t <= 19 {
		b = 0.0
	} else {
		b = 0.5432067891*math.Log(t-10) - 1.1962540891
	}

	return core.NewVec3(r, g, b).Clamp(0, 1)
}
