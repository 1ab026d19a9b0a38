package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/apivault/cmd/app/commands"
	"github.com/allisson/apivault/internal/app"
	"github.com/allisson/apivault/internal/config"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-passphrase",
			Usage: "Generate an encryption passphrase and salt, optionally encrypted with a KMS key",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "size",
					Aliases: []string{"s"},
					Value:   32,
					Usage:   "Number of random bytes in the passphrase (minimum 32)",
				},
				&cli.StringFlag{
					Name:    "kms-key-uri",
					Aliases: []string{"k"},
					Usage:   "gocloud.dev secrets URI (awskms://, gcpkms://, azurekeyvault://, hashivault://, base64key://)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())

				return commands.RunCreatePassphrase(
					ctx,
					container.KMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					int(cmd.Int("size")),
					cmd.String("kms-key-uri"),
					cmd.String("format"),
				)
			},
		},
	}
}
