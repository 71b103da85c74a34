package main

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newHistoryCmd(logger *zerolog.Logger) *cobra.Command {
	var limit int
	var lookback time.Duration

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print --asset's recent retained samples from the external store",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flagConfigPath, *logger)
			if err != nil {
				return err
			}
			a.rehydrate(context.Background(), flagAsset, lookback)

			samples := a.facade.History(flagAsset, limit)
			return printResult(humanOrJSON(), samples, func() {
				for _, s := range samples {
					cmd.Printf("%s voltage=%.2f current=%.2f pf=%.3f vibration=%.3f faulty=%t\n",
						s.Timestamp.Format(time.RFC3339), s.VoltageV, s.CurrentA, s.PowerFactor, s.VibrationG, s.IsFaulty)
				}
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum samples to print, most recent last")
	cmd.Flags().DurationVar(&lookback, "lookback", time.Hour, "how far back to query the external store")
	return cmd
}
