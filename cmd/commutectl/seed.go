package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/KasumiMercury/primind-commute-slots/internal/app"
	"github.com/KasumiMercury/primind-commute-slots/internal/infra/repository"
	"github.com/KasumiMercury/primind-commute-slots/internal/service/seed"
)

var seedGenerate bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the demo users and generate tomorrow's recommendations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		return withApp(ctx, func(a *app.App) error {
			if err := repository.Migrate(ctx, a.DB); err != nil {
				return err
			}

			created, err := seed.Users(ctx, a.Repository, cfg.Allocation.NudgeQuota)
			if err != nil {
				return err
			}

			if !seedGenerate {
				return nil
			}

			tomorrow, _ := parseDate("", cfg.Schedule.Location, time.Now())
			summary, err := a.Generation.Generate(ctx, tomorrow)
			if err != nil {
				return err
			}

			slog.InfoContext(ctx, "seed completed",
				slog.Int("users_created", created),
				slog.String("generated_for", summary.Date),
				slog.Int("recommendations", summary.Recommendations),
			)
			return nil
		})
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedGenerate, "generate", true, "Generate recommendations for tomorrow after seeding")
}
