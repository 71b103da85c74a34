package main

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/domain"
)

// calibrationTimeout bounds how long the CLI waits for a calibration
// worker to finish Phases A-D and enter MONITORING_HEALTHY.
const calibrationTimeout = 30 * time.Second

func newCalibrateCmd(logger *zerolog.Logger) *cobra.Command {
	var monitorFor time.Duration

	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Run a foreground calibration session for --asset",
		Long: `Starts a calibration run (synthetic burst generation, baseline build,
detector training), waits for it to reach MONITORING_HEALTHY, then keeps
the continuous monitoring loop running in the foreground for
--monitor-for before stopping.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flagConfigPath, *logger)
			if err != nil {
				return err
			}

			if err := a.controller.Calibrate(flagAsset); err != nil {
				return err
			}

			reached := waitForState(a, domain.StateMonitoringHealthy, calibrationTimeout)
			if monitorFor > 0 && reached == domain.StateMonitoringHealthy {
				time.Sleep(monitorFor)
			}

			snap := a.controller.Metrics()
			if err := a.controller.Stop(); err != nil {
				a.log.Warn().Err(err).Msg("pmctl: stop after calibrate failed")
			}

			return printResult(humanOrJSON(), struct {
				State   domain.SystemState `json:"state"`
				Metrics interface{}        `json:"metrics"`
			}{reached, snap}, func() {
				cmd.Printf("state=%s training_samples=%d healthy_stability=%.2f\n", reached, snap.TrainingSamples, snap.HealthyStability)
			})
		},
	}

	cmd.Flags().DurationVar(&monitorFor, "monitor-for", 3*time.Second, "how long to keep the healthy monitoring loop running before stopping")
	return cmd
}
