package main

import (
	"fmt"
	"lemmony"
	"lemmony/internal/config"
	"lemmony/pkg/logger"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCommand constructs the 'migrate' subcommand that applies the processed
// store migrations to the latest version using goose.
func migrateCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrates the processed store database to the latest version",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			strg, err := getPostgres(ctx, cfg)
			if err != nil {
				return fmt.Errorf("could not connect to postgres: %w", err)
			}
			defer closeStore(ctx, strg)

			goose.SetBaseFS(lemmony.Migrations)
			if err := goose.SetDialect("postgres"); err != nil {
				return fmt.Errorf("could not set goose dialect to postgres: %w", err)
			}
			if err := goose.UpContext(ctx, strg.DB, "migrations"); err != nil {
				return fmt.Errorf("could not migrate postgres: %w", err)
			}
			logger.Info(ctx, "processed store migrated", zap.String("database", cfg.Store.Database.DatabaseName))

			return nil
		},
	}

	return cmd
}
