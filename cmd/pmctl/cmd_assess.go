package main

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newAssessCmd(logger *zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "assess",
		Short: "Assess --asset's current health from its latest retained window",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flagConfigPath, *logger)
			if err != nil {
				return err
			}
			ctx := context.Background()
			a.rehydrate(ctx, flagAsset, time.Hour)

			report, err := a.facade.AssessCurrent(flagAsset)
			if err != nil {
				return err
			}

			return printResult(humanOrJSON(), report, func() {
				cmd.Printf("health=%d risk=%s rul_days~%.0f model=%s\n",
					report.HealthScore, report.RiskLevel, report.MaintenanceWindowDays, report.ModelVersion)
				for _, e := range report.Explanations {
					cmd.Printf("  - %s (confidence %.2f)\n", e.Reason, e.ConfidenceScore)
				}
			})
		},
	}
}
