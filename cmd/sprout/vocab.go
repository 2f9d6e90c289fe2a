package main

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/urfave/cli.v1"

	"github.com/born-ml/sprout/internal/tokenizer"
)

func vocabCommand() cli.Command {
	return cli.Command{
		Name:  "vocab",
		Usage: "Inspect and grow vocabularies",
		Subcommands: []cli.Command{
			{
				Name:      "add",
				Usage:     "Tokenize text and print the token ids",
				ArgsUsage: "<text>",
				Flags:     vocabularyFlags,
				Action: func(c *cli.Context) error {
					text := strings.Join(c.Args(), " ")
					if text == "" {
						return errors.New("no text given")
					}

					provider, err := newProvider(c)
					if err != nil {
						return err
					}
					tok, err := provider.Tokenizer(c.String("vocabulary"))
					if err != nil {
						return err
					}
					ids, err := tok.Encode(text)
					if err != nil {
						return err
					}

					fmt.Println(ids)
					log.WithField("size", tok.VocabSize()).Debug("Vocabulary size")
					return nil
				},
			},
			{
				Name:      "tokens",
				Usage:     "Print the tokens of text without touching any vocabulary",
				ArgsUsage: "<text>",
				Action: func(c *cli.Context) error {
					fmt.Println(strings.Join(tokenizer.Tokenize(strings.Join(c.Args(), " ")), " "))
					return nil
				},
			},
		},
	}
}
