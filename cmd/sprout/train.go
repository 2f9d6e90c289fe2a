package main

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/born-ml/sprout/internal/dataframe"
	"github.com/born-ml/sprout/internal/nn"
)

func trainCommand() cli.Command {
	return cli.Command{
		Name:  "train",
		Usage: "Train a network on a CSV dataset",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "data",
				Usage: "path to the training `file` (.csv)",
			},
			cli.StringFlag{
				Name:  "sep",
				Value: ";",
				Usage: "field `separator`",
			},
			cli.StringSliceFlag{
				Name:  "feature",
				Usage: "numeric input `column` (repeatable)",
			},
			cli.StringFlag{
				Name:  "target",
				Usage: "categorical output `column`",
			},
			cli.IntSliceFlag{
				Name:  "hidden",
				Usage: "hidden layer `size` (repeatable)",
			},
			cli.StringFlag{
				Name:  "activation",
				Value: nn.ActivationSigmoid.String(),
				Usage: "SIGMOID, RELU, CAPPED RELU or TANH",
			},
			cli.Float64Flag{
				Name:  "learning-rate",
				Value: 0.1,
				Usage: "backpropagation step `size`",
			},
			cli.IntFlag{
				Name:  "epochs",
				Value: 10,
				Usage: "number of shuffled passes over the data",
			},
			cli.Int64Flag{
				Name:  "seed",
				Usage: "random `seed` (0: time based)",
			},
			cli.StringFlag{
				Name:  "out",
				Value: "model.sprout",
				Usage: "checkpoint `file` to write",
			},
			cli.StringFlag{
				Name:   "profile",
				Usage:  "write a cpu or mem profile",
				EnvVar: "SPROUT_PROFILE",
			},
		},
		Action: train,
	}
}

func train(c *cli.Context) error {
	switch c.String("profile") {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.Quiet).Stop()
	}

	if c.String("data") == "" || c.String("target") == "" || len(c.StringSlice("feature")) == 0 {
		return errors.New("--data, --target and at least one --feature are required")
	}

	sep, err := separator(c.String("sep"))
	if err != nil {
		return err
	}
	df, err := dataframe.ReadCSV(c.String("data"), sep, nil)
	if err != nil {
		return err
	}
	X, err := df.Matrix(c.StringSlice("feature")...)
	if err != nil {
		return err
	}
	Y, labels, err := df.OneHot(c.String("target"))
	if err != nil {
		return err
	}

	activation, err := nn.ParseActivation(c.String("activation"))
	if err != nil {
		return err
	}

	sizes := []int{len(c.StringSlice("feature"))}
	sizes = append(sizes, c.IntSlice("hidden")...)
	sizes = append(sizes, len(labels))

	net, err := nn.NewNetwork(nn.NetworkConfig{
		Sizes:        sizes,
		Labels:       labels,
		Activation:   activation,
		LearningRate: c.Float64("learning-rate"),
		Rand:         seededRand(c.Int64("seed")),
	})
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"sizes":      sizes,
		"activation": activation,
		"examples":   len(X),
	}).Info("Training")

	epochs := c.Int("epochs")
	for epoch := 1; epoch <= epochs; epoch++ {
		start := time.Now()
		if err := net.Fit(X, Y); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"epoch":    epoch,
			"accuracy": accuracy(net, X, Y),
			"elapsed":  time.Since(start),
		}).Info("Epoch finished")
	}

	checkpoint := &nn.Checkpoint{
		Network: net,
		Metadata: map[string]string{
			"epochs":  strconv.Itoa(epochs),
			"dataset": filepath.Base(c.String("data")),
			"target":  c.String("target"),
			"feature": strings.Join(c.StringSlice("feature"), ","),
		},
	}
	if err := checkpoint.Save(c.String("out")); err != nil {
		return err
	}
	log.WithField("path", c.String("out")).Info("Checkpoint saved")

	return nil
}

func predictCommand() cli.Command {
	return cli.Command{
		Name:      "predict",
		Usage:     "Classify one input with a trained network",
		ArgsUsage: "<value> [value...]",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "model",
				Value: "model.sprout",
				Usage: "checkpoint `file` to load",
			},
		},
		Action: func(c *cli.Context) error {
			net, err := nn.LoadFile(c.String("model"))
			if err != nil {
				return err
			}
			input, err := parseFloats(c.Args())
			if err != nil {
				return err
			}

			dist, err := net.Forward(input)
			if err != nil {
				return err
			}
			label, err := net.Predict(input)
			if err != nil {
				return err
			}

			fmt.Println(label)
			printDistribution(os.Stdout, net.Labels(), dist)
			return nil
		},
	}
}

// accuracy is the share of examples whose strongest target matches the
// prediction.
func accuracy(net *nn.Network, X, Y [][]float64) float64 {
	if len(X) == 0 {
		return 0
	}
	labels := net.Labels()
	correct := 0
	for i := range X {
		label, err := net.Predict(X[i])
		if err != nil {
			continue
		}
		for j, y := range Y[i] {
			if y == 1 && labels[j] == label {
				correct++
			}
		}
	}
	return float64(correct) / float64(len(X))
}

func separator(s string) (rune, error) {
	if s == `\t` {
		return '\t', nil
	}
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, fmt.Errorf("separator must be a single character, got %q", s)
	}
	return runes[0], nil
}

func parseFloats(args []string) ([]float64, error) {
	var out []float64
	for _, arg := range args {
		for _, field := range strings.Split(arg, ",") {
			if field = strings.TrimSpace(field); field == "" {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid value %q: %w", field, err)
			}
			out = append(out, v)
		}
	}
	return out, nil
}

func seededRand(seed int64) *rand.Rand {
	if seed == 0 {
		return nil
	}
	//nolint:gosec // Using math/rand for reproducible training (not security-critical)
	return rand.New(rand.NewSource(seed))
}
