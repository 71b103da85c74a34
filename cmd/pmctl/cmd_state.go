package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type stateReport struct {
	State   string      `json:"state"`
	AssetID string      `json:"asset_id"`
	Metrics interface{} `json:"metrics"`
}

func newStateCmd(logger *zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Print a fresh controller's lifecycle state (demo shim, always IDLE)",
		Long:  "Outside 'pmctl serve' each invocation builds a fresh IDLE controller; this is mainly useful to confirm the default validation-metric rates.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flagConfigPath, *logger)
			if err != nil {
				return err
			}

			report := stateReport{
				State:   string(a.controller.State()),
				AssetID: a.controller.AssetID(),
				Metrics: a.controller.Metrics(),
			}
			return printResult(humanOrJSON(), report, func() {
				cmd.Printf("state=%s asset=%q\n", report.State, report.AssetID)
			})
		},
	}
}
