package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/apivault/cmd/app/commands"
	"github.com/allisson/apivault/internal/app"
	"github.com/allisson/apivault/internal/config"
)

func getAuthCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "issue-token",
			Usage: "Issue a bearer token for an existing user",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "email",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Email of the user the token is issued for",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				users, err := container.UserRepository()
				if err != nil {
					return err
				}
				tokenService, err := container.TokenService()
				if err != nil {
					return err
				}

				return commands.RunIssueToken(
					ctx,
					users,
					tokenService,
					container.Logger(),
					cmd.String("email"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
