package cmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/skysim/go-geodesic-raytracer/pkg/config"
)

// WriteExampleConfig prints an annotated example config file, or writes it to
// the path given as an argument.
func WriteExampleConfig(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() == 0 {
		fmt.Println(config.ExampleConfigFile)
		return nil
	}

	fname := ctx.Args().First()
	if err := os.WriteFile(fname, []byte(config.ExampleConfigFile), 0644); err != nil {
		return err
	}
	logger.Noticef("wrote %s", fname)
	return nil
}
