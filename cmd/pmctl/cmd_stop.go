package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newStopCmd(logger *zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Halt the active worker and return to IDLE (demo shim)",
		Long:  "Outside 'pmctl serve' a fresh controller has no active worker; stop simply confirms IDLE. Rejected only while CALIBRATING.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flagConfigPath, *logger)
			if err != nil {
				return err
			}
			return a.controller.Stop()
		},
	}
}
