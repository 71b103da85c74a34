package main

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/domain"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/synth"
)

func newInjectFaultCmd(logger *zerolog.Logger) *cobra.Command {
	var kind, severity string
	var monitorFor time.Duration

	cmd := &cobra.Command{
		Use:   "inject-fault",
		Short: "Calibrate --asset then run a foreground fault-injection session",
		Long: `Since pmctl has no resident daemon, inject-fault first runs a full
calibration to reach MONITORING_HEALTHY, then injects the named fault
and keeps the faulty monitoring loop running for --monitor-for.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flagConfigPath, *logger)
			if err != nil {
				return err
			}

			if err := a.controller.Calibrate(flagAsset); err != nil {
				return err
			}
			if reached := waitForState(a, domain.StateMonitoringHealthy, calibrationTimeout); reached != domain.StateMonitoringHealthy {
				return domainerrTimeout("calibration")
			}

			if err := a.controller.InjectFault(synth.FaultKind(kind), synth.Severity(severity)); err != nil {
				return err
			}
			time.Sleep(monitorFor)

			snap := a.controller.Metrics()
			state := a.controller.State()
			if err := a.controller.Stop(); err != nil {
				a.log.Warn().Err(err).Msg("pmctl: stop after inject-fault failed")
			}

			return printResult(humanOrJSON(), struct {
				State   domain.SystemState `json:"state"`
				Metrics interface{}        `json:"metrics"`
			}{state, snap}, func() {
				cmd.Printf("state=%s faulty_total=%d fault_capture_rate=%.2f\n", state, snap.FaultyTotal, snap.FaultCaptureRate)
			})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", string(synth.FaultSpike), "fault kind (SPIKE|DRIFT|JITTER)")
	cmd.Flags().StringVar(&severity, "severity", string(synth.SeverityMedium), "fault severity (MILD|MEDIUM|SEVERE)")
	cmd.Flags().DurationVar(&monitorFor, "monitor-for", 3*time.Second, "how long to keep the faulty monitoring loop running before stopping")
	return cmd
}
