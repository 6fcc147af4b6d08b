package present

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pitchside-labs/sponsormatch/internal/metrics"
	"github.com/pitchside-labs/sponsormatch/internal/model"
	"github.com/pitchside-labs/sponsormatch/pkg/anthropic"
)

const analysisSystemPrompt = `You are a sports sponsorship analyst. Given a team profile, produce a JSON object with exactly these keys:
  "description": one paragraph describing the team as a sponsorship property,
  "pros": array of 3-5 short strings, strengths for a sponsor,
  "cons": array of 2-4 short strings, risks or weaknesses,
  "audience_segments": array of short strings naming the audiences the team reaches,
  "current_partners": array of existing sponsor names.
Respond with the JSON object only, no markdown.`

// Analyzer produces sponsorship analyses for teams, preferring the
// generative model and degrading to a template built from the team
// record when the model is unavailable or returns garbage.
type Analyzer struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnalyzer creates an Analyzer. A nil client means every analysis
// uses the deterministic fallback.
func NewAnalyzer(client anthropic.Client, modelName string, maxTokens int64) *Analyzer {
	return &Analyzer{client: client, model: modelName, maxTokens: maxTokens}
}

// Analyze returns an analysis for the team. It never returns an error
// for model failures; those degrade to the fallback with Fallback set.
func (a *Analyzer) Analyze(ctx context.Context, team *model.Team) *model.TeamAnalysis {
	if a.client == nil {
		metrics.AIFallbacksTotal.WithLabelValues("analysis").Inc()
		return FallbackAnalysis(team)
	}

	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		System:    analysisSystemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: analysisPrompt(team)},
		},
	})
	if err != nil {
		zap.L().Warn("present: analysis generation failed",
			zap.String("team", team.Name),
			zap.Error(err),
		)
		metrics.AIFallbacksTotal.WithLabelValues("analysis").Inc()
		return FallbackAnalysis(team)
	}
	resp.Usage.LogCost(a.model, "analysis")

	var out model.TeamAnalysis
	if err := json.Unmarshal([]byte(cleanJSON(resp.Text())), &out); err != nil {
		zap.L().Warn("present: analysis response unparseable",
			zap.String("team", team.Name),
			zap.Error(err),
		)
		metrics.AIFallbacksTotal.WithLabelValues("analysis").Inc()
		return FallbackAnalysis(team)
	}
	if out.Description == "" {
		metrics.AIFallbacksTotal.WithLabelValues("analysis").Inc()
		return FallbackAnalysis(team)
	}
	return &out
}

func analysisPrompt(team *model.Team) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Team: %s\nLeague: %s\nRegion: %s\nValue tier: %d of 3\n",
		team.Name, team.League, team.Region, team.ValueTier)
	fmt.Fprintf(&b, "Digital reach score: %.2f\nLocal reach score: %.2f\nFamily friendliness score: %.2f\n",
		team.DigitalReach, team.LocalReach, team.FamilyFriendly)
	if len(team.Sponsors) > 0 {
		names := make([]string, 0, len(team.Sponsors))
		for _, s := range team.Sponsors {
			names = append(names, s.Name)
		}
		fmt.Fprintf(&b, "Current sponsors: %s\n", strings.Join(names, ", "))
	}
	return b.String()
}

// FallbackAnalysis builds a deterministic analysis from the stored team
// record alone.
func FallbackAnalysis(team *model.Team) *model.TeamAnalysis {
	out := &model.TeamAnalysis{
		Description: fmt.Sprintf("%s competes in the %s and is based in %s.",
			team.Name, team.League, team.Region),
		Fallback: true,
	}

	if team.DigitalReach > 0 {
		out.Pros = append(out.Pros, "Above-average digital following for its league")
	}
	if team.LocalReach > 0 {
		out.Pros = append(out.Pros, "Strong local market presence")
	}
	if team.FamilyFriendly > 0 {
		out.Pros = append(out.Pros, "Established family programming")
		out.AudienceSegments = append(out.AudienceSegments, "Families")
	}
	if team.ValueTier == model.TierPremium {
		out.Pros = append(out.Pros, "Premium-tier property with national visibility")
	}
	if len(out.Pros) == 0 {
		out.Pros = append(out.Pros, "Accessible entry point for a first sponsorship")
	}

	if team.DigitalReach < 0 {
		out.Cons = append(out.Cons, "Digital following trails the league average")
	}
	if team.ValueTier == model.TierBudget {
		out.Cons = append(out.Cons, "Limited media exposure outside its home market")
	}
	if len(out.Cons) == 0 {
		out.Cons = append(out.Cons, "Sponsorship inventory details require direct contact")
	}

	d := team.Demographics
	segs := []struct {
		name string
		v    *float64
	}{
		{"Gen Z", d.GenZ},
		{"Millennials", d.Millennial},
		{"Gen X", d.GenX},
		{"Women", d.Women},
		{"Men", d.Men},
	}
	for _, s := range segs {
		if s.v != nil && *s.v > 0 {
			out.AudienceSegments = append(out.AudienceSegments, s.name)
		}
	}
	if len(out.AudienceSegments) == 0 {
		out.AudienceSegments = append(out.AudienceSegments, "General sports fans")
	}

	for _, s := range team.Sponsors {
		if s.Name != "" {
			out.CurrentPartners = append(out.CurrentPartners, s.Name)
		}
	}

	return out
}
