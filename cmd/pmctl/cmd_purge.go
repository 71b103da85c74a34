package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newPurgeCmd(logger *zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Wipe --asset's external store data and on-disk baseline",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flagConfigPath, *logger)
			if err != nil {
				return err
			}
			ctx := context.Background()

			if err := a.writer.DeleteAll(ctx, flagAsset); err != nil {
				return err
			}
			if err := os.Remove(baselinePath(flagAsset)); err != nil && !os.IsNotExist(err) {
				a.log.Warn().Err(err).Msg("pmctl: remove baseline file failed")
			}

			cmd.Printf("purged asset %s\n", flagAsset)
			return nil
		},
	}
}
