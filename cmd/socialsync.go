package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pitchside-labs/sponsormatch/internal/socialsync"
)

var socialsyncCmd = &cobra.Command{
	Use:   "socialsync",
	Short: "Refresh follower counts from the social stats service",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("socialsync"); err != nil {
			return err
		}

		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		res, err := socialsync.NewJob(st, cfg.Social).Run(cmd.Context())
		if err != nil {
			return err
		}
		zap.L().Info("socialsync finished",
			zap.Int("teams_updated", res.TeamsUpdated),
			zap.Int("handles_fetched", res.HandlesFetched),
			zap.Int("handles_failed", res.HandlesFailed),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(socialsyncCmd)
}
