// Package call holds the call-facing use cases: the paginated call search
// and transcript retrieval. Each use case makes at most one backend
// request per invocation and never retries.
package call

import (
	"context"

	"github.com/felixgeelhaar/gong-mcp/internal/application/flatten"
	domain "github.com/felixgeelhaar/gong-mcp/internal/domain/call"
	"github.com/felixgeelhaar/gong-mcp/internal/domain/failure"
)

type SearchCallsInput struct {
	Filters domain.SearchFilters
}

// CallList is one page of flattened calls. HasMore is true exactly when
// NextCursor is set, and Count always equals len(Calls).
type CallList struct {
	Calls       []flatten.Call       `json:"calls"`
	Count       int                  `json:"count"`
	NextCursor  string               `json:"nextCursor,omitempty"`
	HasMore     bool                 `json:"hasMore"`
	FiltersEcho domain.SearchFilters `json:"filtersEcho"`
}

// SearchCalls is the search orchestrator. A nil repository means the
// adapter is unconfigured.
type SearchCalls struct {
	repo domain.Repository
}

func NewSearchCalls(repo domain.Repository) *SearchCalls {
	return &SearchCalls{repo: repo}
}

func (uc *SearchCalls) Execute(ctx context.Context, input SearchCallsInput) (*CallList, error) {
	if uc.repo == nil {
		return nil, failure.NotConfigured()
	}

	filters, err := input.Filters.Normalize()
	if err != nil {
		return nil, err
	}

	page, err := uc.repo.SearchCalls(ctx, filters)
	if err != nil && !domain.NoCallsMatched(err) {
		return nil, domain.Failure(err, map[string]any{"operation": "search_calls"})
	}
	// Gong answers 404 "No calls found" when no call matches the filter.
	if err != nil || page == nil {
		page = &domain.Page{}
	}

	calls := flatten.Calls(page.Calls)
	return &CallList{
		Calls:       calls,
		Count:       len(calls),
		NextCursor:  page.Cursor,
		HasMore:     page.HasMore(),
		FiltersEcho: filters,
	}, nil
}
