// Package main provides the sprout CLI.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"
)

const version = "v0.3.0"

var log = logrus.New()

func main() {
	app := cli.NewApp()
	app.Name = "sprout"
	app.Usage = "Train dense networks and query encoder-decoder sequence models"
	app.Version = version
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "log-level",
			Value:  "info",
			Usage:  "logging `level` (debug, info, warn, error)",
			EnvVar: "SPROUT_LOG_LEVEL",
		},
	}
	app.Before = func(c *cli.Context) error {
		level, err := logrus.ParseLevel(c.GlobalString("log-level"))
		if err != nil {
			return err
		}
		log.SetLevel(level)
		return nil
	}
	app.Commands = []cli.Command{
		trainCommand(),
		predictCommand(),
		respondCommand(),
		vocabCommand(),
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("Command failed")
	}
}
