package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/pitchside-labs/sponsormatch/internal/present"
	"github.com/pitchside-labs/sponsormatch/pkg/anthropic"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <team-id>",
	Short: "Generate a pros/cons/audience analysis for one team",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("analyze"); err != nil {
			return err
		}

		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		team, err := st.GetTeam(ctx, args[0])
		if err != nil {
			return err
		}

		analyzer := present.NewAnalyzer(
			anthropic.NewClient(cfg.Anthropic.Key),
			cfg.Anthropic.Model,
			cfg.Anthropic.MaxTokens,
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(analyzer.Analyze(ctx, team))
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
