package renderer

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skysim/go-geodesic-raytracer/pkg/core"
	"github.com/skysim/go-geodesic-raytracer/pkg/scene"
)

func TestGradientEnvironmentBlendsByElevation(t *testing.T) {
	env := &GradientEnvironment{
		TopColor:    core.NewVec3(1, 0, 0),
		BottomColor: core.NewVec3(0, 0, 1),
	}

	up := env.Sample(core.NewVec3(0, 1, 0))
	down := env.Sample(core.NewVec3(0, -1, 0))
	level := env.Sample(core.NewVec3(1, 0, 0))

	assert.InDelta(t, 1.0, up.X, 1e-9)
	assert.InDelta(t, 1.0, down.Z, 1e-9)
	assert.InDelta(t, 0.5, level.X, 1e-9)
	assert.InDelta(t, 0.5, level.Z, 1e-9)
}

func TestStarfieldIsDeterministic(t *testing.T) {
	a := NewStarfieldEnvironment(1.0, 7)
	b := NewStarfieldEnvironment(1.0, 7)
	c := NewStarfieldEnvironment(1.0, 8)

	dir := core.NewVec3(0.3, 0.5, -0.8)
	assert.Equal(t, a.Sample(dir), b.Sample(dir), "same seed, same sky")

	// Different seeds should disagree somewhere on a sweep of directions.
	differs := false
	for i := 0; i < 500; i++ {
		d := core.NewVec3(float64(i)*0.013-3, 0.4, 1).Normalize()
		if a.Sample(d) != c.Sample(d) {
			differs = true
			break
		}
	}
	assert.True(t, differs, "different seeds should produce different skies")
}

func TestStarfieldContainsStars(t *testing.T) {
	env := NewStarfieldEnvironment(1.0, 42)

	stars := 0
	const samples = 20000
	for i := 0; i < samples; i++ {
		d := core.NewVec3(float64(i%200)-100, float64(i/200)-50, 60).Normalize()
		if env.Sample(d).Luminance() > 0.05 {
			stars++
		}
	}
	assert.Greater(t, stars, 0, "a full sky sweep must hit some stars")
	assert.Less(t, stars, samples/2, "space is mostly dark")
}

func TestImageEnvironmentSamplesEquirect(t *testing.T) {
	// 4x2 panorama: top row red, bottom row blue.
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for x := 0; x < 4; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
		img.Set(x, 1, color.RGBA{B: 255, A: 255})
	}
	env := NewImageEnvironment(img)

	up := env.Sample(core.NewVec3(0, 1, 0))
	down := env.Sample(core.NewVec3(0, -1, 0))

	assert.Greater(t, up.X, 0.9, "zenith samples the top row")
	assert.Less(t, up.Z, 0.1)
	assert.Greater(t, down.Z, 0.9, "nadir samples the bottom row")
}

func TestNewEnvironmentSelectsKind(t *testing.T) {
	env, err := NewEnvironment(scene.BackgroundConfig{Kind: scene.BackgroundGradient})
	require.NoError(t, err)
	assert.IsType(t, &GradientEnvironment{}, env)

	env, err = NewEnvironment(scene.BackgroundConfig{Kind: scene.BackgroundStarfield})
	require.NoError(t, err)
	assert.IsType(t, &StarfieldEnvironment{}, env)

	_, err = NewEnvironment(scene.BackgroundConfig{Kind: "plasma"})
	assert.Error(t, err)

	_, err = NewEnvironment(scene.BackgroundConfig{Kind: scene.BackgroundImage})
	assert.Error(t, err, "image background without a path fails")
}
