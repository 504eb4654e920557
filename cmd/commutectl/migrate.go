package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/KasumiMercury/primind-commute-slots/internal/infra/repository"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		db, err := repository.Open(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer func() {
			if err := repository.Close(db); err != nil {
				slog.Warn("failed to close database", slog.String("error", err.Error()))
			}
		}()

		if err := repository.Migrate(ctx, db); err != nil {
			return err
		}

		slog.InfoContext(ctx, "database migrated")
		return nil
	},
}
