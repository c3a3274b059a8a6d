package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/skysim/go-geodesic-raytracer/cmd"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "geodesic-raytracer"
	app.Usage = "render black holes by tracing light rays through curved spacetime"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame to a PNG file",
			Description: `
Trace one light ray per pixel through the curved spacetime around a black
hole and write the resulting frame to disk. The scene comes from a preset or
a config file; individual flags override either.`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "config, c",
					Usage: "render config file (see the example-config command)",
				},
				cli.StringFlag{
					Name:  "scene, s",
					Value: "default",
					Usage: "scene preset: default, schwarzschild, edge-on, extreme-kerr",
				},
				cli.Float64Flag{
					Name:  "mass",
					Usage: "black hole mass in geometric units",
				},
				cli.Float64Flag{
					Name:  "spin",
					Usage: "dimensionless spin in [-1, 1]",
				},
				cli.StringFlag{
					Name:  "quality",
					Usage: "integration quality: fast or accurate",
				},
				cli.IntFlag{
					Name:  "steps",
					Usage: "integration step budget per ray",
				},
				cli.IntFlag{
					Name:  "width",
					Usage: "image width in pixels",
				},
				cli.BoolFlag{
					Name:  "no-disk",
					Usage: "disable the accretion disk",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "number of render workers (0 = CPU count)",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "render.png",
					Usage: "output PNG path",
				},
			},
			Action: cmd.RenderFrame,
		},
		{
			Name:  "serve",
			Usage: "start the interactive web renderer",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "port, p",
					Value: 8080,
					Usage: "listen port",
				},
			},
			Action: cmd.Serve,
		},
		{
			Name:      "example-config",
			Usage:     "print an annotated example config file",
			ArgsUsage: "[output-file]",
			Action:    cmd.WriteExampleConfig,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
