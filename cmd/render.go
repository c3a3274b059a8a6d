package cmd

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/skysim/go-geodesic-raytracer/pkg/renderer"
)

// RenderFrame renders a single frame to a PNG file.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, err := sceneFromContext(ctx)
	if err != nil {
		return err
	}

	logger.Noticef("rendering %dx%d, mass %.2f, spin %.2f, quality %s",
		sc.CameraConfig.Width, sc.Height(), sc.BlackHole.Mass, sc.BlackHole.Spin,
		sc.Render.Quality)

	pr, err := renderer.NewProgressiveRaytracer(sc, renderer.ProgressiveConfig{
		TileSize:   64,
		MaxPasses:  1, // single full-resolution pass for file output
		NumWorkers: ctx.Int("workers"),
	}, logger)
	if err != nil {
		return err
	}

	passChan, errChan := pr.RenderProgressive(context.Background())

	var final renderer.PassResult
	for result := range passChan {
		final = result
	}
	if err := <-errChan; err != nil {
		return err
	}

	out := ctx.String("out")
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	defer f.Close()

	if err := png.Encode(f, final.Image); err != nil {
		return fmt.Errorf("failed to encode %s: %w", out, err)
	}

	displayRenderStats(final.Stats)
	logger.Noticef("wrote %s", out)
	return nil
}

func displayRenderStats(stats renderer.RenderStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Rays", "Captured", "Escaped", "Exhausted", "Avg steps", "Max steps", "Render time"})
	table.Append([]string{
		fmt.Sprintf("%d", stats.TotalRays),
		fmt.Sprintf("%d", stats.Captured),
		fmt.Sprintf("%d", stats.Escaped),
		fmt.Sprintf("%d", stats.BudgetExhausted),
		fmt.Sprintf("%.1f", stats.AverageSteps),
		fmt.Sprintf("%d", stats.MaxStepsUsed),
		fmt.Sprintf("%s", stats.RenderTime),
	})
	table.Render()
	logger.Noticef("render statistics\n%s", buf.String())
}
