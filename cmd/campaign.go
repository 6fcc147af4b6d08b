package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/pitchside-labs/sponsormatch/internal/model"
	"github.com/pitchside-labs/sponsormatch/internal/present"
	"github.com/pitchside-labs/sponsormatch/pkg/anthropic"
)

var campaignFlags struct {
	objective string
	brand     string
	budget    string
	channels  []string
	images    int
}

var campaignCmd = &cobra.Command{
	Use:   "campaign <team-id>",
	Short: "Draft a sponsorship campaign for one team",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("campaign"); err != nil {
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

		var images present.ImageGenerator
		if campaignFlags.images > 0 && cfg.Embedding.APIKey != "" {
			images = present.NewOpenAIImages(cfg.Embedding.APIKey, cfg.Embedding.BaseURL)
		}
		gen := present.NewCampaignGenerator(
			anthropic.NewClient(cfg.Anthropic.Key),
			images,
			cfg.Anthropic.Model,
			cfg.Anthropic.MaxTokens,
		)

		campaign := gen.Generate(ctx, team, model.CampaignParams{
			Objective:  campaignFlags.objective,
			BrandName:  campaignFlags.brand,
			Budget:     campaignFlags.budget,
			Channels:   campaignFlags.channels,
			ImageCount: campaignFlags.images,
		})

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(campaign)
	},
}

func init() {
	f := campaignCmd.Flags()
	f.StringVar(&campaignFlags.objective, "objective", "", "campaign objective")
	f.StringVar(&campaignFlags.brand, "brand", "", "brand name")
	f.StringVar(&campaignFlags.budget, "budget", "", "budget hint, free text")
	f.StringSliceVar(&campaignFlags.channels, "channels", nil, "preferred channels")
	f.IntVar(&campaignFlags.images, "images", 0, "number of campaign visuals to generate")
	rootCmd.AddCommand(campaignCmd)
}
