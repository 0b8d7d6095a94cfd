package ops

import (
	"strings"

	"github.com/mgeller/clipvault/internal/errors"
	"github.com/mgeller/clipvault/internal/item"
)

// SearchInput contains parameters for the Search operation.
type SearchInput struct {
	Query   string
	Filters item.SearchFilters
	Limit   int
}

// SearchOutput contains the result of the Search operation.
type SearchOutput struct {
	Items []item.Item `json:"items"`
	Query string      `json:"query"`
}

// Search runs a full-text search over non-sensitive item content with
// optional filters on category, source app, content kind, and captured_at
// range.
func (s *Service) Search(input SearchInput) (*SearchOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, errors.NewInvalidInput("query is required")
	}
	if input.Filters.DateFrom != nil && input.Filters.DateTo != nil &&
		*input.Filters.DateFrom > *input.Filters.DateTo {
		return nil, errors.NewInvalidInput("date_from must not be after date_to")
	}

	limit := clampLimit(input.Limit, DefaultSearchLimit, MaxSearchLimit)
	items, err := s.store.Search(query, input.Filters, limit)
	if err != nil {
		return nil, err
	}
	return &SearchOutput{Items: items, Query: query}, nil
}
