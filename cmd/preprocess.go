package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pitchside-labs/sponsormatch/internal/feature"
	"github.com/pitchside-labs/sponsormatch/internal/model"
	"github.com/pitchside-labs/sponsormatch/internal/store"
)

var preprocessDryRun bool

var preprocessCmd = &cobra.Command{
	Use:   "preprocess",
	Short: "Compute features and embeddings for the raw team corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("preprocess"); err != nil {
			return err
		}

		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		rows, err := st.ListRawTeams(ctx)
		if err != nil {
			return err
		}

		if preprocessDryRun {
			stats := feature.ComputeStats(rows)
			zap.L().Info("preprocess dry run",
				zap.Int("raw_teams", len(rows)),
				zap.Float64("attendance_mean", stats.Attendance.Mean),
				zap.Float64("attendance_sd", stats.Attendance.SD),
				zap.Float64("population_mean", stats.CityPopulation.Mean),
				zap.Float64("family_programs_mean", stats.FamilyProgramCount.Mean),
			)
			return nil
		}

		run, err := st.StartSyncRun(ctx, model.SyncJobPreprocess, cfg.Store.Driver)
		if err != nil {
			return err
		}

		pre := feature.NewPreprocessor(newEmbedder(st), cfg.Feature)
		teams, procErr := pre.Run(ctx, rows)
		if procErr == nil {
			procErr = st.ReplaceTeams(ctx, teams)
		}

		final := store.SyncResult{Status: model.SyncStatusSuccess, TeamCount: len(teams)}
		if procErr != nil {
			final.Status = model.SyncStatusFailed
			final.Error = procErr.Error()
		}
		if err := st.FinishSyncRun(ctx, run.ID, final); err != nil {
			zap.L().Error("preprocess: finish run", zap.Error(err))
		}
		if procErr != nil {
			return procErr
		}

		zap.L().Info("preprocess finished", zap.Int("teams", len(teams)))
		return nil
	},
}

func init() {
	preprocessCmd.Flags().BoolVar(&preprocessDryRun, "dry-run", false, "compute and log corpus stats without writing")
	rootCmd.AddCommand(preprocessCmd)
}
