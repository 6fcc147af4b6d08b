package model

import (
	"time"
)

// Platform identifies a social network tracked for team reach stats.
type Platform string

const (
	PlatformX         Platform = "x"
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
)

// AllPlatforms returns the tracked platforms in canonical order.
func AllPlatforms() []Platform {
	return []Platform{
		PlatformX,
		PlatformInstagram,
		PlatformFacebook,
		PlatformTikTok,
		PlatformYouTube,
	}
}

// SocialHandle ties a team to an account on one platform.
type SocialHandle struct {
	Platform Platform `json:"platform"`
	Handle   string   `json:"handle"`
	URL      string   `json:"url,omitempty"`
}

// Sponsor describes one existing sponsorship deal of a team.
type Sponsor struct {
	Name      string `json:"name"`
	Category  string `json:"category,omitempty"`
	AssetType string `json:"asset_type,omitempty"` // jersey, stadium, digital, ...
}

// RawTeam is a scraped team row before feature preprocessing.
// Pointer fields are nullable: absent in the source, not zero.
type RawTeam struct {
	ID                string `json:"id,omitempty"`
	Name              string `json:"name"`
	Region            string `json:"region"`
	League            string `json:"league"`
	TargetDemographic string `json:"target_demographic,omitempty"`
	OfficialURL       string `json:"official_url,omitempty"`
	LogoURL           string `json:"logo_url,omitempty"`

	// Geography
	GeoCity          string   `json:"geo_city,omitempty"`
	GeoCountry       string   `json:"geo_country,omitempty"`
	CityPopulation   *int64   `json:"city_population,omitempty"`
	MetroGDPMillions *float64 `json:"metro_gdp_millions,omitempty"`

	// Social reach
	SocialHandles      []SocialHandle `json:"social_handles,omitempty"`
	FollowersX         *int64         `json:"followers_x,omitempty"`
	FollowersInstagram *int64         `json:"followers_instagram,omitempty"`
	FollowersFacebook  *int64         `json:"followers_facebook,omitempty"`
	FollowersTikTok    *int64         `json:"followers_tiktok,omitempty"`
	SubscribersYouTube *int64         `json:"subscribers_youtube,omitempty"`
	AvgGameAttendance  *int64         `json:"avg_game_attendance,omitempty"`

	// Family programs
	FamilyProgramCount *int64   `json:"family_program_count,omitempty"`
	FamilyProgramTypes []string `json:"family_program_types,omitempty"`

	// Venue and sponsors
	OwnsStadium *bool     `json:"owns_stadium,omitempty"`
	StadiumName string    `json:"stadium_name,omitempty"`
	Sponsors    []Sponsor `json:"sponsors,omitempty"`

	// Financials
	AvgTicketPrice         *float64 `json:"avg_ticket_price,omitempty"`
	FranchiseValueMillions *float64 `json:"franchise_value_millions,omitempty"`
	AnnualRevenueMillions  *float64 `json:"annual_revenue_millions,omitempty"`

	// Values and community
	MissionTags       []string `json:"mission_tags,omitempty"`
	CommunityPrograms []string `json:"community_programs,omitempty"`
	CausePartnerships []string `json:"cause_partnerships,omitempty"`

	// Enrichment bookkeeping
	EnrichmentsApplied []string   `json:"enrichments_applied,omitempty"`
	LastEnriched       *time.Time `json:"last_enriched,omitempty"`
}

// FollowerCount returns the raw follower count for one platform, nil if unknown.
func (t *RawTeam) FollowerCount(p Platform) *int64 {
	switch p {
	case PlatformX:
		return t.FollowersX
	case PlatformInstagram:
		return t.FollowersInstagram
	case PlatformFacebook:
		return t.FollowersFacebook
	case PlatformTikTok:
		return t.FollowersTikTok
	case PlatformYouTube:
		return t.SubscribersYouTube
	default:
		return nil
	}
}

// SetFollowerCount updates the raw follower count for one platform.
func (t *RawTeam) SetFollowerCount(p Platform, count int64) {
	v := count
	switch p {
	case PlatformX:
		t.FollowersX = &v
	case PlatformInstagram:
		t.FollowersInstagram = &v
	case PlatformFacebook:
		t.FollowersFacebook = &v
	case PlatformTikTok:
		t.FollowersTikTok = &v
	case PlatformYouTube:
		t.SubscribersYouTube = &v
	}
}

// Value tiers. Every processed team carries exactly one.
const (
	TierBudget  = 1
	TierMid     = 2
	TierPremium = 3
)

// Team is the scoring-ready record produced by feature preprocessing.
// Embedding slices are either a fixed-dimension vector or nil, never
// zero-length. Numeric reach scores land roughly in [-1, 1].
type Team struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Region      string `json:"region"`
	League      string `json:"league"`
	OfficialURL string `json:"official_url,omitempty"`
	LogoURL     string `json:"logo_url,omitempty"`

	RegionEmbedding            []float32 `json:"region_embedding,omitempty"`
	LeagueEmbedding            []float32 `json:"league_embedding,omitempty"`
	ValuesEmbedding            []float32 `json:"values_embedding,omitempty"`
	SponsorsEmbedding          []float32 `json:"sponsors_embedding,omitempty"`
	FamilyProgramsEmbedding    []float32 `json:"family_programs_embedding,omitempty"`
	CommunityProgramsEmbedding []float32 `json:"community_programs_embedding,omitempty"`
	PartnersEmbedding          []float32 `json:"partners_embedding,omitempty"`

	DigitalReach   float64 `json:"digital_reach"`
	LocalReach     float64 `json:"local_reach"`
	FamilyFriendly float64 `json:"family_friendly"`
	ValueTier      int     `json:"value_tier"`

	Demographics DemographicWeights `json:"demographics"`

	Sponsors    []Sponsor `json:"sponsors,omitempty"`
	ProcessedAt time.Time `json:"processed_at"`
}

// DemographicWeights holds per-audience affinity scores derived from the
// normalized social followings. Nil means the inputs were missing.
type DemographicWeights struct {
	Women      *float64 `json:"women,omitempty"`
	Men        *float64 `json:"men,omitempty"`
	GenZ       *float64 `json:"gen_z,omitempty"`
	Millennial *float64 `json:"millennial,omitempty"`
	GenX       *float64 `json:"gen_x,omitempty"`
	Boomer     *float64 `json:"boomer,omitempty"`
	Kids       *float64 `json:"kids,omitempty"`
}
