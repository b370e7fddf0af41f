package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotstats/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase creates the mirror schema at the configured database url, or with --rollback undoes the latest migration.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	url := r.config.Database.URL
	r.logger.Info("initializing database", "url", url)

	db, err := shared.NewDatabase(url)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	if url != ":memory:" {
		shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	}

	if cmd.Bool("rollback") {
		if err := shared.RollbackMigration(ctx, db); err != nil {
			return err
		}
		return r.writePlain("✓ Rolled back the latest migration on %s\n", url)
	}

	r.logger.Info("running database migrations")
	applied, err := shared.RunMigrations(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", url)
	return r.writePlain("✓ Applied %d migration(s) to %s\n", applied, url)
}

// SetupConfig writes the example configuration to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := r.configPath
	if path == "" {
		path = cmd.String("config")
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	return r.writePlain("✓ Config written to %s\n", path)
}
