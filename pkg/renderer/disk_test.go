package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skysim/go-geodesic-raytracer/pkg/core"
	"github.com/skysim/go-geodesic-raytracer/pkg/metric"
	"github.com/skysim/go-geodesic-raytracer/pkg/scene"
)

func testDisk() *accretionDisk {
	return newAccretionDisk(scene.NewDiskConfig(metric.NewBlackHole(1.0, 0.0)))
}

func TestDiskCrossingDetection(t *testing.T) {
	d := testDisk()
	inner := d.config.InnerRadius
	outer := d.config.OuterRadius
	mid := (inner + outer) / 2

	// Straight down through the annulus.
	p, ok := d.crossing(core.NewVec3(mid, 1, 0), core.NewVec3(mid, -1, 0))
	assert.True(t, ok)
	assert.InDelta(t, 0.0, p.Y, 1e-12)
	assert.InDelta(t, mid, p.X, 1e-12)

	// Crossing inside the inner edge misses the disk.
	_, ok = d.crossing(core.NewVec3(inner*0.5, 1, 0), core.NewVec3(inner*0.5, -1, 0))
	assert.False(t, ok)

	// Crossing beyond the outer edge misses the disk.
	_, ok = d.crossing(core.NewVec3(outer*1.5, 1, 0), core.NewVec3(outer*1.5, -1, 0))
	assert.False(t, ok)

	// Segment entirely above the plane does not cross.
	_, ok = d.crossing(core.NewVec3(mid, 2, 0), core.NewVec3(mid, 1, 0))
	assert.False(t, ok)
}

func TestDiskCrossingInterpolatesHitPoint(t *testing.T) {
	d := testDisk()
	mid := (d.config.InnerRadius + d.config.OuterRadius) / 2

	// Asymmetric segment: crossing point is where y hits zero, not the midpoint.
	p, ok := d.crossing(core.NewVec3(mid, 3, 0), core.NewVec3(mid, -1, 4))
	assert.True(t, ok)
	assert.InDelta(t, 0.0, p.Y, 1e-12)
	assert.InDelta(t, 3.0, p.Z, 1e-12, "three quarters of the way along the segment")
}

func TestDiskShadeHotterAtInnerEdge(t *testing.T) {
	d := testDisk()

	innerColor, alpha := d.shade(core.NewVec3(d.config.InnerRadius, 0, 0))
	outerColor, _ := d.shade(core.NewVec3(d.config.OuterRadius, 0, 0))

	assert.Equal(t, d.config.Opacity, alpha)
	assert.Greater(t, innerColor.Luminance(), outerColor.Luminance(),
		"the disk dims toward the outer edge")
}

func TestBlackbodyColorTemperatureTrend(t *testing.T) {
	cool := blackbodyColor(3000)
	hot := blackbodyColor(20000)

	assert.Greater(t, cool.X, cool.Z, "cool bodies glow red")
	assert.Greater(t, hot.Z, hot.X, "hot bodies glow blue")

	for _, k := range []float64{500, 3000, 10000, 20000, 50000} {
		c := blackbodyColor(k)
		assert.GreaterOrEqual(t, c.X, 0.0)
		assert.LessOrEqual(t, c.X, 1.0)
		assert.GreaterOrEqual(t, c.Y, 0.0)
		assert.LessOrEqual(t, c.Y, 1.0)
		assert.GreaterOrEqual(t, c.Z, 0.0)
		assert.LessOrEqual(t, c.Z, 1.0)
	}
}
