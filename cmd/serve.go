package cmd

import (
	"github.com/urfave/cli"

	"github.com/skysim/go-geodesic-raytracer/web/server"
)

// Serve starts the interactive web renderer.
func Serve(ctx *cli.Context) error {
	setupLogging(ctx)
	return server.NewServer(ctx.Int("port")).Start()
}
