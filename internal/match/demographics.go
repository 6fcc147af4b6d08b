package match

import (
	"math"
	"strings"

	"github.com/pitchside-labs/sponsormatch/internal/model"
)

// DemographicRule maps an audience keyword to the team weight it selects.
type DemographicRule struct {
	Keyword string
	Select  func(t *model.Team) *float64
}

// DemographicPriority is the ordered keyword list used to pick a team
// demographic weight from the brand's audience text. Evaluation stops at
// the first keyword found; later matches are ignored even when present.
// The order is part of the scoring behavior, so it lives here as data
// rather than as an if/else chain.
var DemographicPriority = []DemographicRule{
	{"gen-z", func(t *model.Team) *float64 { return t.Demographics.GenZ }},
	{"millennials", func(t *model.Team) *float64 { return t.Demographics.Millennial }},
	{"gen-x", func(t *model.Team) *float64 { return t.Demographics.GenX }},
	{"boomer", func(t *model.Team) *float64 { return t.Demographics.Boomer }},
	{"kids", func(t *model.Team) *float64 { return t.Demographics.Kids }},
	{"women", func(t *model.Team) *float64 { return t.Demographics.Women }},
	{"men", func(t *model.Team) *float64 { return t.Demographics.Men }},
	{"families", func(t *model.Team) *float64 { v := t.FamilyFriendly; return &v }},
}

// demographicSim scores a team against the brand's audience text using
// first-match-wins keyword priority. The selected weight is capped at 1;
// no keyword match or a missing weight scores 0.
func demographicSim(t *model.Team, audienceText string) float64 {
	text := strings.ToLower(audienceText)
	if text == "" {
		return 0
	}
	for _, rule := range DemographicPriority {
		if !strings.Contains(text, rule.Keyword) {
			continue
		}
		w := rule.Select(t)
		if w == nil {
			return 0
		}
		return math.Min(*w, 1)
	}
	return 0
}
