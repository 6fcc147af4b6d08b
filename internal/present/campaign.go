package present

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pitchside-labs/sponsormatch/internal/metrics"
	"github.com/pitchside-labs/sponsormatch/internal/model"
	"github.com/pitchside-labs/sponsormatch/pkg/anthropic"
)

const campaignSystemPrompt = `You are a sports sponsorship campaign planner. Given a team profile and a brand objective, produce a JSON object with exactly these keys:
  "title": short campaign name,
  "description": one paragraph pitching the campaign,
  "tactics": array of 3-6 concrete activation tactics,
  "whyItWorks": one paragraph tying the campaign to the team's audience,
  "channels": array of channels the campaign runs on,
  "estimatedCost": a dollar range string such as "$50,000 - $120,000",
  "suggestedDates": a timing string tied to the season calendar.
Respond with the JSON object only, no markdown.`

// ImageGenerator produces campaign visuals from a text prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// OpenAIImages implements ImageGenerator against the OpenAI image API.
type OpenAIImages struct {
	client *openai.Client
}

// NewOpenAIImages creates an image generator from an API key.
func NewOpenAIImages(apiKey, baseURL string) *OpenAIImages {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIImages{client: openai.NewClientWithConfig(cfg)}
}

// GenerateImage returns a hosted URL for one generated image.
func (g *OpenAIImages) GenerateImage(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          openai.CreateImageModelDallE3,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Data) == 0 {
		return "", fmt.Errorf("present: image response empty")
	}
	return resp.Data[0].URL, nil
}

// CampaignGenerator drafts sponsorship campaigns. The text comes from
// the generative model with a deterministic fallback; images are
// best-effort and never fail the campaign.
type CampaignGenerator struct {
	client    anthropic.Client
	images    ImageGenerator
	model     string
	maxTokens int64
}

// NewCampaignGenerator creates a CampaignGenerator. Either client may
// be nil; nil text client forces the fallback, nil image generator
// skips visuals.
func NewCampaignGenerator(client anthropic.Client, images ImageGenerator, modelName string, maxTokens int64) *CampaignGenerator {
	return &CampaignGenerator{client: client, images: images, model: modelName, maxTokens: maxTokens}
}

// Generate drafts a campaign for the team and brand parameters.
func (g *CampaignGenerator) Generate(ctx context.Context, team *model.Team, params model.CampaignParams) *model.Campaign {
	campaign := g.generateText(ctx, team, params)

	if campaign.EstimatedCost == "" {
		est := EstimatePrice(team)
		campaign.EstimatedCost = fmt.Sprintf("$%s - $%s per season",
			formatThousands(est.MinUSD), formatThousands(est.MaxUSD))
	}

	if g.images != nil && params.ImageCount > 0 {
		campaign.ImageURLs = g.generateImages(ctx, team, campaign, params.ImageCount)
	}

	return campaign
}

func (g *CampaignGenerator) generateText(ctx context.Context, team *model.Team, params model.CampaignParams) *model.Campaign {
	if g.client == nil {
		metrics.AIFallbacksTotal.WithLabelValues("campaign").Inc()
		return FallbackCampaign(team, params)
	}

	resp, err := g.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		System:    campaignSystemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: campaignPrompt(team, params)},
		},
	})
	if err != nil {
		zap.L().Warn("present: campaign generation failed",
			zap.String("team", team.Name),
			zap.Error(err),
		)
		metrics.AIFallbacksTotal.WithLabelValues("campaign").Inc()
		return FallbackCampaign(team, params)
	}
	resp.Usage.LogCost(g.model, "campaign")

	var out model.Campaign
	if err := json.Unmarshal([]byte(cleanJSON(resp.Text())), &out); err != nil {
		zap.L().Warn("present: campaign response unparseable",
			zap.String("team", team.Name),
			zap.Error(err),
		)
		metrics.AIFallbacksTotal.WithLabelValues("campaign").Inc()
		return FallbackCampaign(team, params)
	}
	if out.Title == "" {
		metrics.AIFallbacksTotal.WithLabelValues("campaign").Inc()
		return FallbackCampaign(team, params)
	}
	return &out
}

// generateImages renders up to count visuals in parallel. Individual
// failures log and drop; the slice holds only the successes.
func (g *CampaignGenerator) generateImages(ctx context.Context, team *model.Team, campaign *model.Campaign, count int) []string {
	urls := make([]string, count)
	eg, gctx := errgroup.WithContext(ctx)
	for i := 0; i < count; i++ {
		i := i
		eg.Go(func() error {
			prompt := fmt.Sprintf(
				"Sponsorship campaign visual %d for %q: %s. Team: %s (%s). Sports marketing photography style, no text overlays.",
				i+1, campaign.Title, campaign.Description, team.Name, team.League)
			url, err := g.images.GenerateImage(gctx, prompt)
			if err != nil {
				zap.L().Warn("present: campaign image failed",
					zap.String("team", team.Name),
					zap.Int("index", i),
					zap.Error(err),
				)
				return nil
			}
			urls[i] = url
			return nil
		})
	}
	_ = eg.Wait()

	out := make([]string, 0, count)
	for _, u := range urls {
		if u != "" {
			out = append(out, u)
		}
	}
	return out
}

func campaignPrompt(team *model.Team, params model.CampaignParams) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Team: %s\nLeague: %s\nRegion: %s\nValue tier: %d of 3\n",
		team.Name, team.League, team.Region, team.ValueTier)
	fmt.Fprintf(&b, "Objective: %s\n", params.Objective)
	if params.BrandName != "" {
		fmt.Fprintf(&b, "Brand: %s\n", params.BrandName)
	}
	if params.Budget != "" {
		fmt.Fprintf(&b, "Budget: %s\n", params.Budget)
	}
	if len(params.Channels) > 0 {
		fmt.Fprintf(&b, "Preferred channels: %s\n", strings.Join(params.Channels, ", "))
	}
	return b.String()
}

// FallbackCampaign builds a deterministic campaign draft from the team
// record and brand parameters alone.
func FallbackCampaign(team *model.Team, params model.CampaignParams) *model.Campaign {
	objective := params.Objective
	if objective == "" {
		objective = "brand awareness"
	}

	channels := params.Channels
	if len(channels) == 0 {
		channels = []string{"social media", "in-venue signage"}
		if team.DigitalReach > 0 {
			channels = append(channels, "team digital content")
		}
	}

	return &model.Campaign{
		Title: fmt.Sprintf("Partner With %s", team.Name),
		Description: fmt.Sprintf(
			"A season-long partnership with %s in the %s, built around %s and activated across the team's fan touchpoints in %s.",
			team.Name, team.League, objective, team.Region),
		Tactics: []string{
			"Branded matchday activation at home games",
			"Co-branded social content with team channels",
			"Logo placement across team digital properties",
		},
		WhyItWorks: fmt.Sprintf(
			"%s gives the brand repeated exposure to a committed local fanbase over a full season.",
			team.Name),
		Channels:       channels,
		SuggestedDates: "Season opener through playoffs",
		Fallback:       true,
	}
}

// formatThousands renders an integer with comma separators.
func formatThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
