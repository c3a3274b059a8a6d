package cmd

import (
	"github.com/urfave/cli"

	"github.com/skysim/go-geodesic-raytracer/pkg/log"
)

var logger = log.New("geodesic")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
