package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/KasumiMercury/primind-commute-slots/internal/app"
	"github.com/KasumiMercury/primind-commute-slots/internal/config"
	"github.com/KasumiMercury/primind-commute-slots/internal/observability"
	"github.com/KasumiMercury/primind-commute-slots/internal/observability/logging"
)

// Version is set via ldflags at build time
var Version = "dev"

const module = logging.Module("commutectl")

var (
	logLevel = new(slog.LevelVar)
	obs      *observability.Resources
	cfg      *config.Config
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:           "commutectl",
	Short:         "Operate the commute slot allocation service",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		obs, err = app.InitObservability(cmd.Context(), module, Version, logLevel)
		if err != nil {
			return fmt.Errorf("failed to initialize observability: %w", err)
		}
		slog.SetDefault(obs.Logger())

		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logLevel.Set(cfg.LogLevel)

		return nil
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		if obs == nil {
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return obs.Shutdown(ctx)
	},
}

func Execute() error {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		slog.Error("command failed", slog.String("error", err.Error()))
	}
	return err
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(generateCmd)
}

// withApp builds the application for one command and releases it afterwards.
func withApp(ctx context.Context, fn func(a *app.App) error) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Warn("failed to release resources", slog.String("error", err.Error()))
		}
	}()

	return fn(a)
}

// parseDate reads YYYY-MM-DD in the schedule time zone. Empty means tomorrow.
func parseDate(raw string, loc *time.Location, now time.Time) (time.Time, error) {
	if raw == "" {
		y, m, d := now.In(loc).Date()
		return time.Date(y, m, d+1, 0, 0, 0, 0, loc), nil
	}

	date, err := time.ParseInLocation(time.DateOnly, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return date, nil
}
