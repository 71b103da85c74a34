package main

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/domain"
)

func newIngestCmd(logger *zerolog.Logger) *cobra.Command {
	var voltage, current, powerFactor, vibration float64

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest one raw sample for --asset",
		Long:  "Validates, range-checks against any installed baseline, persists, and runs the event engine on a single sample read from flags.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flagConfigPath, *logger)
			if err != nil {
				return err
			}
			ctx := context.Background()
			a.rehydrate(ctx, flagAsset, time.Hour)

			sample := domain.RawSample{
				VoltageV:    voltage,
				CurrentA:    current,
				PowerFactor: powerFactor,
				VibrationG:  vibration,
			}

			result, err := a.facade.IngestSample(ctx, flagAsset, sample, false)
			if err != nil {
				return err
			}

			return printResult(humanOrJSON(), result, func() {
				cmd.Printf("accepted: sample_count=%d derived_power_kw=%.3f\n", result.SampleCount, result.DerivedPower)
				if result.Event != nil {
					cmd.Printf("event: %s (%s) %s\n", result.Event.Type, result.Event.Severity, result.Event.Message)
				}
			})
		},
	}

	cmd.Flags().Float64Var(&voltage, "voltage", 230, "voltage_v reading")
	cmd.Flags().Float64Var(&current, "current", 15, "current_a reading")
	cmd.Flags().Float64Var(&powerFactor, "power-factor", 0.92, "power_factor reading in [0,1]")
	cmd.Flags().Float64Var(&vibration, "vibration", 0.15, "vibration_g reading")
	return cmd
}
