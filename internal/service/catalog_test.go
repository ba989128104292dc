package service

import (
	"context"
	"errors"
	"testing"
)

func TestCatalogService_ListItems(t *testing.T) {
	svc := NewCatalogService(DefaultItems())

	items := svc.ListItems(context.Background())
	if len(items) != 2 {
		t.Fatalf("expected 2 seeded items, got %d", len(items))
	}
	if items[0].ID != 1 || items[0].Name != "First Item" || *items[0].Description != "This is the first item" {
		t.Fatalf("unexpected first item: %+v", items[0])
	}

	// callers cannot reorder the catalog
	items[0], items[1] = items[1], items[0]
	if again := svc.ListItems(context.Background()); again[0].ID != 1 {
		t.Fatalf("catalog was mutated through the returned slice")
	}
}

func TestCatalogService_GetItem(t *testing.T) {
	svc := NewCatalogService(DefaultItems())

	it, err := svc.GetItem(context.Background(), 2)
	if err != nil {
		t.Fatalf("GetItem(2): %v", err)
	}
	if it.Name != "Second Item" {
		t.Fatalf("unexpected item: %+v", it)
	}

	for _, id := range []int{0, -1, 42} {
		if _, err := svc.GetItem(context.Background(), id); !errors.Is(err, ErrItemNotFound) {
			t.Fatalf("GetItem(%d): expected ErrItemNotFound, got %v", id, err)
		}
	}
}
