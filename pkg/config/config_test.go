package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skysim/go-geodesic-raytracer/pkg/geodesic"
	"github.com/skysim/go-geodesic-raytracer/pkg/scene"
)

func TestExampleConfigFileParses(t *testing.T) {
	f, err := ReadString(ExampleConfigFile)
	require.NoError(t, err)

	s, err := f.Scene()
	require.NoError(t, err)

	assert.Equal(t, 1.0, s.BlackHole.Mass)
	assert.Equal(t, 0.7, s.BlackHole.Spin)
	assert.Equal(t, 800, s.CameraConfig.Width)
	assert.True(t, s.Disk.Enabled)
	assert.Equal(t, scene.BackgroundStarfield, s.Background.Kind)
	assert.Equal(t, geodesic.Fast, s.Render.Quality)
	assert.Equal(t, 450, s.Render.MaxSteps)
}

func TestUnsetFieldsKeepDefaults(t *testing.T) {
	f, err := ReadString(`[BlackHole]
Spin = 0.2`)
	require.NoError(t, err)

	s, err := f.Scene()
	require.NoError(t, err)

	def := scene.NewDefaultScene()
	assert.Equal(t, 0.2, s.BlackHole.Spin)
	assert.Equal(t, def.BlackHole.Mass, s.BlackHole.Mass)
	assert.Equal(t, def.CameraConfig.Center, s.CameraConfig.Center)
	assert.Equal(t, def.Render.MaxSteps, s.Render.MaxSteps)
}

func TestPhysicalParametersAreClamped(t *testing.T) {
	f, err := ReadString(`[BlackHole]
Mass = 50
Spin = -3

[Render]
MaxSteps = 9999

[Disk]
Opacity = 2.5`)
	require.NoError(t, err)

	s, err := f.Scene()
	require.NoError(t, err)

	assert.Equal(t, 5.0, s.BlackHole.Mass)
	assert.Equal(t, -1.0, s.BlackHole.Spin)
	assert.Equal(t, 1000, s.Render.MaxSteps)
	assert.Equal(t, 1.0, s.Disk.Opacity)
}

func TestDiskRadiiFollowTheHole(t *testing.T) {
	f, err := ReadString(`[BlackHole]
Mass = 2.0`)
	require.NoError(t, err)

	s, err := f.Scene()
	require.NoError(t, err)

	rs := s.BlackHole.SchwarzschildRadius()
	assert.Equal(t, 3.0*rs, s.Disk.InnerRadius, "unset radii scale with the hole")
	assert.Equal(t, 5.5*rs, s.Disk.OuterRadius)
}

func TestInvalidQualityRejected(t *testing.T) {
	_, err := ReadString(`[Render]
Quality = turbo`)
	assert.Error(t, err)
}

func TestInvalidBackgroundRejected(t *testing.T) {
	_, err := ReadString(`[Background]
Kind = plasma`)
	assert.Error(t, err)

	_, err = ReadString(`[Background]
Kind = image`)
	assert.Error(t, err, "image background needs a path")
}

func TestAccurateQualitySelected(t *testing.T) {
	f, err := ReadString(`[Render]
Quality = accurate`)
	require.NoError(t, err)

	s, err := f.Scene()
	require.NoError(t, err)
	assert.Equal(t, geodesic.Accurate, s.Render.Quality)
}

func TestReadFileFromDisk(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "render.cfg")
	require.NoError(t, os.WriteFile(fname, []byte(ExampleConfigFile), 0644))

	f, err := ReadFile(fname)
	require.NoError(t, err)
	assert.Equal(t, 0.7, f.BlackHole.Spin)

	_, err = ReadFile(filepath.Join(dir, "missing.cfg"))
	assert.Error(t, err)
}
