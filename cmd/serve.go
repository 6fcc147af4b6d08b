package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pitchside-labs/sponsormatch/internal/match"
	"github.com/pitchside-labs/sponsormatch/internal/metrics"
	"github.com/pitchside-labs/sponsormatch/internal/present"
	"github.com/pitchside-labs/sponsormatch/internal/server"
	"github.com/pitchside-labs/sponsormatch/pkg/anthropic"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the matchmaking API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		metrics.Register()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		weights, err := loadWeights()
		if err != nil {
			return err
		}
		searcher := match.NewSearcher(st, newEmbedder(st), weights, cfg.Store.ScanPageSize)

		// Generative routes answer 503 without an Anthropic key.
		var (
			analyzer *present.Analyzer
			campaign *present.CampaignGenerator
		)
		if cfg.Anthropic.Key != "" {
			client := anthropic.NewClient(cfg.Anthropic.Key)
			analyzer = present.NewAnalyzer(client, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens)

			var images present.ImageGenerator
			if cfg.Embedding.APIKey != "" {
				images = present.NewOpenAIImages(cfg.Embedding.APIKey, cfg.Embedding.BaseURL)
			}
			campaign = present.NewCampaignGenerator(client, images, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens)
		}

		return server.New(st, searcher, analyzer, campaign, *cfg).ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
