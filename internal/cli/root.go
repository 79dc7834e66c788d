// Package cli implements recipectl, the operator command line for the recipes service.
package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/pageza/recipes-api/backend/pkg/logging"
)

const name = "recipectl"

// overridden during build with ldflags
var version = "dev"

// NewApp returns the recipectl root command.
func NewApp() *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Operate the recipes service: schema migrations, seeding and exports",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.Setup(cmd.String("log-level"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			migrateCmd(),
			seedCmd(),
			exportCmd(),
		},
	}
}
