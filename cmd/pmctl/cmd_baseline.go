package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/baseline"
)

func newBaselineCmd(logger *zerolog.Logger) *cobra.Command {
	var hours int

	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Build --asset's baseline profile from stored healthy history",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flagConfigPath, *logger)
			if err != nil {
				return err
			}
			ctx := context.Background()
			a.rehydrate(ctx, flagAsset, 24*time.Hour)

			result, err := a.facade.BuildBaseline(flagAsset, hours)
			if err != nil {
				return err
			}

			profile := a.facade.Baseline(flagAsset)
			path := baselinePath(flagAsset)
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("pmctl: create baseline dir: %w", err)
			}
			if err := baseline.Save(profile, path); err != nil {
				return fmt.Errorf("pmctl: save baseline: %w", err)
			}

			return printResult(humanOrJSON(), result, func() {
				cmd.Printf("baseline_id=%s sample_count=%d saved=%s\n", result.BaselineID, result.SampleCount, path)
			})
		},
	}

	cmd.Flags().IntVar(&hours, "hours", 0, "lookback window in hours, 0 uses all retained history")
	return cmd
}
