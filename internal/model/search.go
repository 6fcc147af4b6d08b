package model

// SearchFilters holds the structured selections of a brand search. Slices
// are selected option labels; empty means no preference.
type SearchFilters struct {
	Regions      []string `json:"regions,omitempty"`
	Demographics []string `json:"demographics,omitempty"`
	BrandValues  []string `json:"brandValues,omitempty"`
	Leagues      []string `json:"leagues,omitempty"`
	Goals        []string `json:"goals,omitempty"`
	BudgetMin    *float64 `json:"budgetMin,omitempty"`
	BudgetMax    *float64 `json:"budgetMax,omitempty"`
}

// SearchRequest is a brand query plus pagination.
type SearchRequest struct {
	Query    string        `json:"query"`
	Filters  SearchFilters `json:"filters"`
	Page     int           `json:"page,omitempty"`
	PageSize int           `json:"pageSize,omitempty"`
}

// ScoredTeam pairs a team with its similarity score. The score is a
// weighted sum of heterogeneous components and has no fixed range; some
// components can be negative.
type ScoredTeam struct {
	Team            Team               `json:"team"`
	SimilarityScore float64            `json:"similarity_score"`
	ComponentScores map[string]float64 `json:"component_scores,omitempty"`
}

// SearchResponse is one page of scored teams, sorted by descending score.
type SearchResponse struct {
	Teams           []ScoredTeam `json:"teams"`
	TotalCount      int          `json:"totalCount"`
	TotalPages      int          `json:"totalPages"`
	CurrentPage     int          `json:"currentPage"`
	PageSize        int          `json:"pageSize"`
	HasNextPage     bool         `json:"hasNextPage"`
	HasPreviousPage bool         `json:"hasPreviousPage"`
}
