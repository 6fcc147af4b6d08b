package feature

import (
	"fmt"
	"strings"

	"github.com/pitchside-labs/sponsormatch/internal/model"
)

// Text blobs embedded per team. Empty or whitespace-only blobs must
// embed to nil, never a zero vector; the preprocessor enforces that.

// RegionBlob is the region text as scraped.
func RegionBlob(row *model.RawTeam) string { return row.Region }

// LeagueBlob is the league/category text as scraped.
func LeagueBlob(row *model.RawTeam) string { return row.League }

// ValuesBlob joins the team's mission tags.
func ValuesBlob(row *model.RawTeam) string {
	return strings.Join(row.MissionTags, " ")
}

// SponsorsBlob serializes the sponsor list as "Name (category)" entries.
func SponsorsBlob(row *model.RawTeam) string {
	parts := make([]string, 0, len(row.Sponsors))
	for _, s := range row.Sponsors {
		if s.Name == "" {
			continue
		}
		if s.Category != "" {
			parts = append(parts, fmt.Sprintf("%s (%s)", s.Name, s.Category))
		} else {
			parts = append(parts, s.Name)
		}
	}
	return strings.Join(parts, ", ")
}

// FamilyProgramsBlob joins the family program types.
func FamilyProgramsBlob(row *model.RawTeam) string {
	return strings.Join(row.FamilyProgramTypes, " ")
}

// CommunityProgramsBlob joins the community program descriptions.
func CommunityProgramsBlob(row *model.RawTeam) string {
	return strings.Join(row.CommunityPrograms, " ")
}

// PartnersBlob joins the cause partnership names.
func PartnersBlob(row *model.RawTeam) string {
	return strings.Join(row.CausePartnerships, " ")
}
