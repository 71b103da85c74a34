package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newResetCmd(logger *zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Return a fresh controller to MONITORING_HEALTHY (demo shim)",
		Long: `A freshly-built controller starts IDLE, so outside a live 'serve'
session this always reports the InvalidTransition error that reset
produces from IDLE (it requires MONITORING_HEALTHY or FAULT_INJECTION).
Use 'pmctl serve' for a resident session where reset has a prior state
to return to.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flagConfigPath, *logger)
			if err != nil {
				return err
			}
			return a.controller.Reset()
		},
	}
}
