package model

// TeamAnalysis is the pros/cons/audience narrative for one team. Fallback
// is true when the text came from the deterministic template instead of
// the generative model.
type TeamAnalysis struct {
	Description      string   `json:"description"`
	Pros             []string `json:"pros"`
	Cons             []string `json:"cons"`
	AudienceSegments []string `json:"audience_segments"`
	CurrentPartners  []string `json:"current_partners"`
	Fallback         bool     `json:"fallback,omitempty"`
}

// CampaignParams carries the brand-side inputs to campaign generation.
type CampaignParams struct {
	Objective  string   `json:"objective"`
	BrandName  string   `json:"brand_name,omitempty"`
	Budget     string   `json:"budget,omitempty"`
	Channels   []string `json:"channels,omitempty"`
	ImageCount int      `json:"image_count,omitempty"`
}

// Campaign is a generated sponsorship campaign draft.
type Campaign struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Tactics        []string `json:"tactics"`
	WhyItWorks     string   `json:"whyItWorks"`
	Channels       []string `json:"channels"`
	EstimatedCost  string   `json:"estimatedCost"`
	SuggestedDates string   `json:"suggestedDates"`
	ImageURLs      []string `json:"imageUrls"`
	Fallback       bool     `json:"fallback,omitempty"`
}

// PriceEstimate is a tier- and league-based sponsorship price range.
type PriceEstimate struct {
	MinUSD int64  `json:"min_usd"`
	MaxUSD int64  `json:"max_usd"`
	Period string `json:"period"`
}
