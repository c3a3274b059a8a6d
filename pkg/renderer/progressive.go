package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/skysim/go-geodesic-raytracer/pkg/core"
	"github.com/skysim/go-geodesic-raytracer/pkg/log"
	"github.com/skysim/go-geodesic-raytracer/pkg/scene"
)

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize   int // Size of each tile (64x64 recommended)
	MaxPasses  int // Number of refinement passes
	NumWorkers int // Number of parallel workers (0 = use CPU count)
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:   64,
		MaxPasses:  4, // 8x8 blocks down to full resolution
		NumWorkers: 0, // Auto-detect CPU count
	}
}

// ProgressiveRaytracer renders the image in passes of increasing resolution:
// early passes trace one ray per coarse pixel block for a fast preview, the
// final pass traces every pixel. The trace itself is deterministic, so
// refinement sharpens rather than denoises.
type ProgressiveRaytracer struct {
	scene         *scene.Scene
	width, height int
	config        ProgressiveConfig
	tiles         []*Tile
	pixels        [][]core.Vec3
	raytracer     *Raytracer
	workerPool    *WorkerPool
	logger        log.Logger
}

// NewProgressiveRaytracer creates a new progressive raytracer
func NewProgressiveRaytracer(sc *scene.Scene, config ProgressiveConfig, logger log.Logger) (*ProgressiveRaytracer, error) {
	width := sc.CameraConfig.Width
	if width <= 0 {
		width = 800
	}
	height := sc.Height()

	if config.TileSize <= 0 {
		config.TileSize = DefaultProgressiveConfig().TileSize
	}
	if config.MaxPasses <= 0 {
		config.MaxPasses = DefaultProgressiveConfig().MaxPasses
	}

	raytracer, err := NewRaytracer(sc, width, height)
	if err != nil {
		return nil, err
	}

	workerPool, err := NewWorkerPool(sc, width, height, config.NumWorkers)
	if err != nil {
		return nil, err
	}

	return &ProgressiveRaytracer{
		scene:      sc,
		width:      width,
		height:     height,
		config:     config,
		tiles:      NewTileGrid(width, height, config.TileSize),
		pixels:     NewPixelGrid(width, height),
		raytracer:  raytracer,
		workerPool: workerPool,
		logger:     logger,
	}, nil
}

// Width returns the image width in pixels.
func (pr *ProgressiveRaytracer) Width() int { return pr.width }

// Height returns the image height in pixels.
func (pr *ProgressiveRaytracer) Height() int { return pr.height }

// blockSizeForPass halves the block size each pass, finishing at one pixel.
func (pr *ProgressiveRaytracer) blockSizeForPass(passNumber int) int {
	shift := pr.config.MaxPasses - passNumber
	if shift > 3 {
		shift = 3
	}
	if shift < 0 {
		shift = 0
	}
	return 1 << shift
}

// RenderPass renders a single progressive pass using parallel processing
func (pr *ProgressiveRaytracer) RenderPass(passNumber int) (*image.RGBA, RenderStats, error) {
	blockSize := pr.blockSizeForPass(passNumber)

	pr.logger.Debugf("Pass %d: block size %d (using %d workers)",
		passNumber, blockSize, pr.workerPool.GetNumWorkers())

	// Submit all tiles as tasks
	for taskID, tile := range pr.tiles {
		pr.workerPool.SubmitTask(TileTask{
			Tile:      tile,
			BlockSize: blockSize,
			TaskID:    taskID,
			Pixels:    pr.pixels,
		})
	}

	// Wait for all tiles to complete
	var stats RenderStats
	for i := 0; i < len(pr.tiles); i++ {
		result, ok := pr.workerPool.GetResult()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			return nil, RenderStats{}, result.Error
		}
		stats.Merge(result.Stats)
	}

	return pr.raytracer.AssembleImage(pr.pixels), stats, nil
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	IsLast     bool
}

// RenderProgressive renders with channel-based communication. The caller
// reads pass results until the channel closes; cancellation of the context
// stops rendering between passes.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context) (<-chan PassResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	errChan := make(chan error, 1)

	pr.workerPool.Start()

	go func() {
		defer close(passChan)
		defer close(errChan)
		defer pr.workerPool.Stop()

		pr.logger.Debugf("Starting progressive rendering with %d passes", pr.config.MaxPasses)

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			select {
			case <-ctx.Done():
				pr.logger.Debugf("Rendering cancelled before pass %d", pass)
				errChan <- ctx.Err()
				return
			default:
			}

			startTime := time.Now()
			img, stats, err := pr.RenderPass(pass)
			if err != nil {
				errChan <- err
				return
			}

			pr.logger.Debugf("Pass %d completed in %v (%d rays, %.1f avg steps)",
				pass, time.Since(startTime), stats.TotalRays, stats.AverageSteps)

			result := PassResult{
				PassNumber: pass,
				Image:      img,
				Stats:      stats,
				IsLast:     pass == pr.config.MaxPasses,
			}

			select {
			case passChan <- result:
			case <-ctx.Done():
				return
			}
		}
	}()

	return passChan, errChan
}

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID     int
	Bounds image.Rectangle
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []*Tile {
	var tiles []*Tile
	tileID := 0

	// Ceiling division
	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width)
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, &Tile{
				ID:     tileID,
				Bounds: image.Rect(x0, y0, x1, y1),
			})
			tileID++
		}
	}

	return tiles
}
