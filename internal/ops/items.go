package ops

import "github.com/mgeller/clipvault/internal/item"

// Get returns a single item by id, sensitive or not.
func (s *Service) Get(id int64) (*item.Item, error) {
	return s.store.Get(id)
}

// SetFavorite marks or unmarks an item as a favorite. Favorites are exempt
// from count-based eviction.
func (s *Service) SetFavorite(id int64, favorite bool) error {
	return s.store.SetFavorite(id, favorite)
}

// Delete removes an item and its image file, if any.
func (s *Service) Delete(id int64) error {
	return s.store.Delete(id)
}
