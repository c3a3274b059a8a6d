package renderer

import (
	"image"
	"image/color"
	"time"

	"github.com/skysim/go-geodesic-raytracer/pkg/core"
	"github.com/skysim/go-geodesic-raytracer/pkg/geodesic"
	"github.com/skysim/go-geodesic-raytracer/pkg/scene"
)

// Raytracer renders one scene snapshot. It holds an immutable view of the
// scene, so parameter changes between frames are applied by building a new
// Raytracer, never by mutating a running one. A single instance is used by
// one worker at a time; the shared environment is read-only.
type Raytracer struct {
	scene  *scene.Scene
	camera *Camera
	tracer *geodesic.Tracer
	env    Environment
	disk   *accretionDisk
	width  int
	height int
}

// NewRaytracer creates a raytracer for the scene at the given resolution.
func NewRaytracer(sc *scene.Scene, width, height int) (*Raytracer, error) {
	env, err := NewEnvironment(sc.Background)
	if err != nil {
		return nil, err
	}
	return newRaytracerWithEnv(sc, width, height, env), nil
}

// newRaytracerWithEnv shares an already built environment, used by the worker
// pool so image backgrounds are decoded once rather than per worker.
func newRaytracerWithEnv(sc *scene.Scene, width, height int, env Environment) *Raytracer {
	rt := &Raytracer{
		scene:  sc,
		camera: NewCamera(sc.CameraConfig),
		tracer: geodesic.NewTracer(sc.BlackHole, sc.TraceOptions()),
		env:    env,
		width:  width,
		height: height,
	}
	if sc.Disk.Enabled {
		rt.disk = newAccretionDisk(sc.Disk)
	}
	return rt
}

// RayColor traces one camera ray through curved spacetime and shades it:
// disk crossings composite front to back over the background, captured rays
// fall to black.
func (rt *Raytracer) RayColor(ray core.Ray) (core.Vec3, geodesic.Outcome) {
	var accum core.Vec3
	transmittance := 1.0

	var visit func(prev, cur geodesic.State)
	if rt.disk != nil {
		visit = func(prev, cur geodesic.State) {
			if transmittance < 0.01 {
				return
			}
			if p, ok := rt.disk.crossing(prev.Position, cur.Position); ok {
				emitted, alpha := rt.disk.shade(p)
				accum = accum.Add(emitted.Multiply(alpha * transmittance))
				transmittance *= 1.0 - alpha
			}
		}
	}

	outcome := rt.tracer.TraceFunc(ray.Origin, ray.Direction, rt.scene.Render.Quality, visit)

	resolved := outcome.Resolve()
	if resolved.Kind == geodesic.Escaped {
		background := rt.env.Sample(resolved.Direction)
		accum = accum.Add(background.Multiply(transmittance))
	}

	return accum, outcome
}

// RenderBounds renders pixels within the specified bounds directly into the
// shared pixel grid. Each tile has non-overlapping bounds, so concurrent
// calls on distinct tiles are safe. blockSize > 1 traces one ray per block
// and floods the block, used for coarse progressive passes.
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, pixels [][]core.Vec3, blockSize int) RenderStats {
	if blockSize < 1 {
		blockSize = 1
	}
	start := time.Now()
	var stats RenderStats

	for j := bounds.Min.Y; j < bounds.Max.Y; j += blockSize {
		for i := bounds.Min.X; i < bounds.Max.X; i += blockSize {
			s := (float64(i) + 0.5) / float64(rt.width)
			t := 1.0 - (float64(j)+0.5)/float64(rt.height)

			ray := rt.camera.GetRay(s, t)
			colorVec, outcome := rt.RayColor(ray)
			stats.recordOutcome(outcome)

			for bj := j; bj < j+blockSize && bj < bounds.Max.Y; bj++ {
				for bi := i; bi < i+blockSize && bi < bounds.Max.X; bi++ {
					pixels[bj][bi] = colorVec
				}
			}
		}
	}

	stats.RenderTime = time.Since(start)
	stats.finalize()
	return stats
}

// RenderImage renders the full frame single-threaded and returns the image.
func (rt *Raytracer) RenderImage() (*image.RGBA, RenderStats) {
	pixels := NewPixelGrid(rt.width, rt.height)
	stats := rt.RenderBounds(image.Rect(0, 0, rt.width, rt.height), pixels, 1)
	return rt.AssembleImage(pixels), stats
}

// AssembleImage converts the pixel grid into an RGBA image.
func (rt *Raytracer) AssembleImage(pixels [][]core.Vec3) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, rt.width, rt.height))
	for y := 0; y < rt.height; y++ {
		for x := 0; x < rt.width; x++ {
			img.SetRGBA(x, y, rt.vec3ToColor(pixels[y][x]))
		}
	}
	return img
}

// NewPixelGrid allocates the shared pixel buffer in global image coordinates.
func NewPixelGrid(width, height int) [][]core.Vec3 {
	pixels := make([][]core.Vec3, height)
	for y := range pixels {
		pixels[y] = make([]core.Vec3, width)
	}
	return pixels
}

// vec3ToColor converts a Vec3 color to RGBA with proper clamping and gamma correction
func (rt *Raytracer) vec3ToColor(colorVec core.Vec3) color.RGBA {
	// Apply gamma correction (gamma = 2.0)
	colorVec = colorVec.GammaCorrect(2.0)

	// Clamp to valid color range
	colorVec = colorVec.Clamp(0.0, 1.0)

	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}
