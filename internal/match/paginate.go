package match

import (
	"github.com/pitchside-labs/sponsormatch/internal/model"
)

// DefaultPageSize is used when a request does not specify one.
const DefaultPageSize = 10

// Paginate slices a sorted score list into a 1-indexed page. Pages out
// of range clamp to the valid range; an empty corpus yields page 1 of 0
// total pages with an empty team list.
func Paginate(scored []model.ScoredTeam, page, pageSize int) *model.SearchResponse {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	total := len(scored)
	totalPages := (total + pageSize - 1) / pageSize

	if page < 1 || totalPages == 0 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	teams := scored[start:end]
	if teams == nil {
		teams = []model.ScoredTeam{}
	}

	return &model.SearchResponse{
		Teams:           teams,
		TotalCount:      total,
		TotalPages:      totalPages,
		CurrentPage:     page,
		PageSize:        pageSize,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1 && totalPages > 0,
	}
}
