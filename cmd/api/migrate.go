// AngelaMos | 2026
// migrate.go

package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/store-ratings/db"
	"github.com/carterperez-dev/store-ratings/internal/config"
	"github.com/carterperez-dev/store-ratings/internal/core"
)

func newMigrateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			logger, closer := core.NewLogger(cfg.Log)
			defer closer.Close() //nolint:errcheck // flushed on exit

			database, err := core.NewDatabase(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer database.Close() //nolint:errcheck // process exits next

			return migrate(ctx, database, logger)
		},
	}
}

func migrate(ctx context.Context, database *core.Database, logger *slog.Logger) error {
	applied, err := core.Migrate(ctx, database.DB, db.Migrations)
	if err != nil {
		return err
	}

	if len(applied) == 0 {
		logger.Info("schema up to date")
		return nil
	}

	logger.Info("migrations applied", "versions", applied)
	return nil
}
