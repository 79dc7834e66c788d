package cli

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/urfave/cli/v3"

	"github.com/pageza/recipes-api/backend/config"
	"github.com/pageza/recipes-api/backend/internal/database"
	"github.com/pageza/recipes-api/backend/migrations"
)

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending SQL migrations to the Postgres backend",
		Description: `Applies every migration under migrations/ that is not yet recorded in the
migrations table, each in its own transaction. SQLite and MongoDB prepare their
schema when the service starts and need no migration step.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dsn",
				Usage:   "Postgres connection string, overrides the DB_* settings",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dsn := cmd.String("dsn")
			if dsn == "" {
				cfg, err := config.LoadConfig()
				if err != nil {
					return err
				}
				if cfg.StorageDriver != config.DriverPostgres {
					return fmt.Errorf("migrate applies to the postgres backend, STORAGE_DRIVER is %q", cfg.StorageDriver)
				}
				dsn = cfg.PostgresDSN()
			}

			db, err := sql.Open("postgres", dsn)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			applied, err := database.RunMigrations(ctx, db, migrations.FS)
			if err != nil {
				return err
			}

			out := cmd.Root().Writer
			if len(applied) == 0 {
				fmt.Fprintln(out, "schema is up to date")
				return nil
			}
			for _, name := range applied {
				fmt.Fprintf(out, "applied %s\n", name)
			}
			return nil
		},
	}
}
