package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/apivault/cmd/app/commands"
	"github.com/allisson/apivault/internal/app"
	"github.com/allisson/apivault/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations (MongoDB: create indexes)",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				if container.IsMongo() {
					return commands.RunMongoIndexes(ctx, container, container.Logger())
				}
				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
	}
}
