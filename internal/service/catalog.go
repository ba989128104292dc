package service

import (
	"context"
	"errors"

	"phoneauth/internal/models"
)

// ErrItemNotFound is returned for unknown item ids.
var ErrItemNotFound = errors.New("item not found")

// DefaultItems returns the seeded catalog.
func DefaultItems() []models.Item {
	first, second := "This is the first item", "This is the second item"
	return []models.Item{
		{ID: 1, Name: "First Item", Description: &first},
		{ID: 2, Name: "Second Item", Description: &second},
	}
}

// CatalogService serves a fixed, in-memory item list.
type CatalogService struct {
	items []models.Item
}

func NewCatalogService(items []models.Item) *CatalogService {
	return &CatalogService{items: items}
}

func (s *CatalogService) ListItems(_ context.Context) []models.Item {
	out := make([]models.Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *CatalogService) GetItem(_ context.Context, id int) (models.Item, error) {
	for _, it := range s.items {
		if it.ID == id {
			return it, nil
		}
	}
	return models.Item{}, ErrItemNotFound
}
