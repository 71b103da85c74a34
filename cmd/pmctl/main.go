package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	appName = "pmctl"
	version = "v0.1.0"
)

var (
	flagConfigPath string
	flagAsset      string
	flagLogLevel   string
	flagJSON       bool
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	var logger zerolog.Logger
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Condition-monitoring engine control plane",
		Version: version,
		Long: `pmctl drives the per-asset condition-monitoring pipeline: sample
ingestion, on-demand health assessment, baseline (re)building, and the
calibrate/inject-fault/reset/stop/purge lifecycle of the demo monitoring
loop.

Run 'pmctl state --asset <id>' with no lifecycle in progress to see the
default idle status, or 'pmctl calibrate --asset <id>' to run a full
calibration-then-monitoring demo session in the foreground.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := zerolog.ParseLevel(flagLogLevel)
			if err != nil {
				return err
			}
			zerolog.SetGlobalLevel(lvl)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "config/engine.yaml", "path to the engine YAML config")
	rootCmd.PersistentFlags().StringVar(&flagAsset, "asset", "motor-01", "target asset id")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "force JSON output even on a TTY")

	rootCmd.AddCommand(
		newIngestCmd(&logger),
		newAssessCmd(&logger),
		newBaselineCmd(&logger),
		newCalibrateCmd(&logger),
		newInjectFaultCmd(&logger),
		newResetCmd(&logger),
		newStopCmd(&logger),
		newPurgeCmd(&logger),
		newStateCmd(&logger),
		newHistoryCmd(&logger),
		newServeCmd(&logger),
	)

	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("pmctl: command failed")
		os.Exit(1)
	}
}

// humanOrJSON reports whether output should be JSON: forced by --json,
// or chosen automatically when stdout isn't a TTY.
func humanOrJSON() bool {
	if flagJSON {
		return true
	}
	return !term.IsTerminal(int(os.Stdout.Fd()))
}
