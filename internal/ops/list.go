package ops

import "github.com/mgeller/clipvault/internal/item"

// ListInput contains parameters for the List operation.
type ListInput struct {
	Limit  int
	Offset int
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []item.Item `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

// List returns history items, favorites first, then newest first.
// Sensitive items are never listed.
func (s *Service) List(input ListInput) (*ListOutput, error) {
	limit := clampLimit(input.Limit, DefaultListLimit, MaxListLimit)
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	// Fetch one extra row to learn whether more pages exist.
	items, err := s.store.History(limit+1, offset)
	if err != nil {
		return nil, err
	}

	hasMore := false
	if len(items) > limit {
		hasMore = true
		items = items[:limit]
	}

	return &ListOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: hasMore,
		},
	}, nil
}
