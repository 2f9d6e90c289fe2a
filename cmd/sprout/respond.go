package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/born-ml/sprout/internal/seq2seq"
	"github.com/born-ml/sprout/internal/tokenizer"
)

var vocabularyFlags = []cli.Flag{
	cli.StringFlag{
		Name:   "vocab-dir",
		Value:  "vocabulary",
		Usage:  "`directory` holding <id>.csv vocabulary files",
		EnvVar: "SPROUT_VOCAB_DIR",
	},
	cli.StringFlag{
		Name:  "vocabulary",
		Value: "en",
		Usage: "vocabulary `id` (a language code, or an encoding name with --tiktoken)",
	},
	cli.StringFlag{
		Name:  "mode",
		Value: tokenizer.ModeExtend.String(),
		Usage: "extend or frozen",
	},
	cli.IntFlag{
		Name:  "threshold",
		Usage: "admit a token after `n` sightings (0: immediately)",
	},
	cli.BoolFlag{
		Name:  "tiktoken",
		Usage: "use a tiktoken BPE encoding instead of a vocabulary file",
	},
}

func respondCommand() cli.Command {
	flags := []cli.Flag{
		cli.StringFlag{
			Name:  "model",
			Usage: "sequence model `file`; created when missing",
		},
		cli.IntFlag{
			Name:  "layers",
			Value: 1,
			Usage: "recurrent layers for a new model",
		},
		cli.IntFlag{
			Name:  "depth",
			Value: 4,
			Usage: "cells per layer for a new model",
		},
		cli.StringSliceFlag{
			Name:  "label",
			Usage: "output `label` for a new model (repeatable)",
		},
		cli.StringFlag{
			Name:  "expect",
			Usage: "train the classifier toward `label` and save the model",
		},
	}

	return cli.Command{
		Name:      "respond",
		Usage:     "Classify text with an encoder-decoder sequence model",
		ArgsUsage: "<text>",
		Flags:     append(flags, vocabularyFlags...),
		Action:    respond,
	}
}

func respond(c *cli.Context) error {
	text := strings.Join(c.Args(), " ")
	if text == "" {
		return errors.New("no text given")
	}

	provider, err := newProvider(c)
	if err != nil {
		return err
	}
	cfg := seq2seq.Config{
		Layers:     c.Int("layers"),
		Depth:      c.Int("depth"),
		Labels:     c.StringSlice("label"),
		Vocabulary: provider,
		Logger:     log,
	}

	model, err := loadOrCreate(c.String("model"), cfg)
	if err != nil {
		return err
	}

	dist, err := model.Respond(text, c.String("vocabulary"))
	if err != nil {
		return err
	}
	fmt.Println(model.Label(dist))
	printDistribution(os.Stdout, model.Labels(), dist)

	if expect := c.String("expect"); expect != "" {
		target := make([]float64, len(model.Labels()))
		found := false
		for i, label := range model.Labels() {
			if label == expect {
				target[i], found = 1, true
			}
		}
		if !found {
			return fmt.Errorf("unknown label %q", expect)
		}
		if err := model.Backpropagate(target); err != nil {
			return err
		}
	}

	if path := c.String("model"); path != "" {
		if err := model.Save(path); err != nil {
			return err
		}
		log.WithField("path", path).Debug("Model saved")
	}
	return nil
}

func loadOrCreate(path string, cfg seq2seq.Config) (*seq2seq.Model, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return seq2seq.Load(path, cfg)
		}
	}
	if len(cfg.Labels) == 0 {
		return nil, errors.New("a new model needs at least one --label")
	}

	log.WithFields(logrus.Fields{
		"layers": cfg.Layers,
		"depth":  cfg.Depth,
		"labels": cfg.Labels,
	}).Info("Creating sequence model")
	return seq2seq.New(cfg)
}

func newProvider(c *cli.Context) (tokenizer.Provider, error) {
	if c.Bool("tiktoken") {
		return tokenizer.NewTikTokenProvider(), nil
	}

	mode, err := tokenizer.ParseMode(c.String("mode"))
	if err != nil {
		return nil, err
	}
	return tokenizer.NewStore(c.String("vocab-dir"),
		tokenizer.WithMode(mode),
		tokenizer.WithThreshold(c.Int("threshold")),
		tokenizer.WithLogger(log),
	), nil
}

func printDistribution(w io.Writer, labels []string, dist []float64) {
	for i, label := range labels {
		fmt.Fprintf(w, "  %-12s %.4f\n", label, dist[i])
	}
}
