package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/KasumiMercury/primind-commute-slots/internal/app"
)

var generateDate string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run one generation for a date",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		date, err := parseDate(generateDate, cfg.Schedule.Location, time.Now())
		if err != nil {
			return err
		}

		return withApp(ctx, func(a *app.App) error {
			summary, err := a.Generation.Generate(ctx, date)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		})
	},
}

func init() {
	generateCmd.Flags().StringVar(&generateDate, "date", "", "Date to generate, YYYY-MM-DD (default tomorrow)")
}
