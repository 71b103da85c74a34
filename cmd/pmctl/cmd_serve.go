package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newServeCmd(logger *zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run a resident engine session: calibrate --asset and monitor until interrupted",
		Long: `serve is the one long-running pmctl command: it calibrates --asset,
keeps the continuous monitoring loop running, watches --config for
changes (logging a warning to restart the session; the running session
keeps the config it loaded at start), and logs state
on a fixed interval until SIGINT/SIGTERM, at which point it purges the
asset's data and exits cleanly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flagConfigPath, *logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			watchConfig(ctx, flagConfigPath, a.log)

			if err := a.controller.Calibrate(flagAsset); err != nil {
				return err
			}
			a.log.Info().Str("asset_id", flagAsset).Msg("pmctl: calibration started")

			ticker := time.NewTicker(5 * time.Second)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					a.log.Info().Msg("pmctl: shutting down, purging session data")
					purgeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					if err := a.controller.Purge(purgeCtx); err != nil {
						a.log.Warn().Err(err).Msg("pmctl: purge on shutdown failed")
					}
					return nil
				case <-ticker.C:
					snap := a.controller.Metrics()
					a.log.Info().
						Str("state", string(a.controller.State())).
						Int("training_samples", snap.TrainingSamples).
						Float64("healthy_stability", snap.HealthyStability).
						Float64("fault_capture_rate", snap.FaultCaptureRate).
						Msg("pmctl: session status")
				}
			}
		},
	}
}

// watchConfig logs a warning whenever path's containing directory
// reports a write to it, prompting an operator to restart the session
// to pick up the change (config hot-swap mid-transition is unsafe: it
// would change window/threshold semantics under an in-flight worker).
func watchConfig(ctx context.Context, path string, logger zerolog.Logger) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn().Err(err).Msg("pmctl: config watcher unavailable")
		return
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		logger.Warn().Err(err).Str("dir", dir).Msg("pmctl: watch config dir failed")
		watcher.Close()
		return
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name == path && event.Op&fsnotify.Write == fsnotify.Write {
					logger.Warn().Str("path", path).Msg("pmctl: config changed on disk, restart the session to apply it")
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn().Err(err).Msg("pmctl: config watcher error")
			}
		}
	}()
}
