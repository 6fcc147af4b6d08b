package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/pitchside-labs/sponsormatch/internal/model"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show corpus counts and recent sync runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("status"); err != nil {
			return err
		}

		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		raw, err := st.CountRawTeams(ctx)
		if err != nil {
			return err
		}
		_, processed, err := st.ListTeams(ctx, 0, 1)
		if err != nil {
			return err
		}
		runs, err := st.ListSyncRuns(ctx, 10)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(model.CorpusStatus{
			RawTeams:       raw,
			ProcessedTeams: processed,
			LastRuns:       runs,
		})
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
