package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pitchside-labs/sponsormatch/internal/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <source>...",
	Short: "Load scraped team artifacts into the raw store",
	Long:  "Sources may be local paths or http(s)/ftp URLs pointing at JSON, CSV, XLSX, or ZIP artifacts.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("ingest"); err != nil {
			return err
		}

		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		loader := ingest.NewLoader(st, cfg.Ingest)
		for _, source := range args {
			res, err := loader.Load(cmd.Context(), source)
			if err != nil {
				return err
			}
			zap.L().Info("ingest finished",
				zap.String("source", source),
				zap.Int("decoded", res.Decoded),
				zap.Int("loaded", res.Loaded),
				zap.Int("skipped", res.Skipped),
			)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
