package services

import (
	"context"
	"errors"
	"testing"

	"qrmenu/catalog"
	"qrmenu/models"
)

func newTestShop(t *testing.T) (*catalog.Memory, models.Shop) {
	t.Helper()
	store := catalog.NewMemory()
	shop, err := CreateShop(context.Background(), store, models.Shop{
		Name:     "The Chai Spot",
		Slug:     "the-chai-spot",
		Currency: "₹",
		Contact:  "919876543210",
	})
	if err != nil {
		t.Fatalf("CreateShop: %v", err)
	}
	return store, shop
}

func TestCreateItemValidation(t *testing.T) {
	store, shop := newTestShop(t)
	admin := NewAdmin(store, shop.ID)
	ctx := context.Background()

	tests := []struct {
		name  string
		draft ItemDraft
		ok    bool
	}{
		{"valid", ItemDraft{Name: "Masala Chai", Price: 25}, true},
		{"empty name", ItemDraft{Name: "", Price: 25}, false},
		{"blank name", ItemDraft{Name: "   ", Price: 25}, false},
		{"negative price", ItemDraft{Name: "Chai", Price: -1}, false},
		{"zero price", ItemDraft{Name: "Water", Price: 0}, true},
	}
	for _, tt := range tests {
		_, err := admin.CreateItem(ctx, tt.draft)
		if tt.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidItem) {
			t.Errorf("%s: err = %v, want ErrInvalidItem", tt.name, err)
		}
	}
}

func TestCreateItemDefaults(t *testing.T) {
	store, shop := newTestShop(t)
	admin := NewAdmin(store, shop.ID)

	item, err := admin.CreateItem(context.Background(), ItemDraft{Name: "Masala Chai", Price: 25})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.Category != models.CategoryGeneral {
		t.Errorf("category = %q, want %q", item.Category, models.CategoryGeneral)
	}
	if !item.Available {
		t.Error("new items default to available")
	}
	if item.ID == "" {
		t.Error("item must get an id")
	}
	if item.ShopID != shop.ID {
		t.Errorf("shop id = %q, want %q", item.ShopID, shop.ID)
	}
}

func TestCreateItemUniqueIDs(t *testing.T) {
	store, shop := newTestShop(t)
	admin := NewAdmin(store, shop.ID)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		item, err := admin.CreateItem(ctx, ItemDraft{Name: "Chai", Price: 25})
		if err != nil {
			t.Fatalf("CreateItem: %v", err)
		}
		if seen[item.ID] {
			t.Fatalf("duplicate id %q", item.ID)
		}
		seen[item.ID] = true
	}
}

func TestToggleAvailabilityRoundTrip(t *testing.T) {
	store, shop := newTestShop(t)
	admin := NewAdmin(store, shop.ID)
	ctx := context.Background()

	item, err := admin.CreateItem(ctx, ItemDraft{Name: "Samosa (2pcs)", Price: 40})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	off, err := admin.ToggleAvailability(ctx, item.ID)
	if err != nil {
		t.Fatalf("ToggleAvailability: %v", err)
	}
	if off.Available {
		t.Error("first toggle should mark the item unavailable")
	}

	on, err := admin.ToggleAvailability(ctx, item.ID)
	if err != nil {
		t.Fatalf("ToggleAvailability: %v", err)
	}
	if on.Available != item.Available {
		t.Error("toggling twice must restore the original state")
	}

	if _, err := admin.ToggleAvailability(ctx, "nope"); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("toggle of unknown id: err = %v, want catalog.ErrNotFound", err)
	}
}

func TestDeleteItemIdempotent(t *testing.T) {
	store, shop := newTestShop(t)
	admin := NewAdmin(store, shop.ID)
	ctx := context.Background()

	item, err := admin.CreateItem(ctx, ItemDraft{Name: "Chai", Price: 25})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if err := admin.DeleteItem(ctx, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if err := admin.DeleteItem(ctx, item.ID); err != nil {
		t.Errorf("second delete must not error: %v", err)
	}
	if err := admin.DeleteItem(ctx, "never-existed"); err != nil {
		t.Errorf("deleting an unknown id must not error: %v", err)
	}
	items, err := admin.ListItems(ctx)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("catalog should be empty, got %d items", len(items))
	}
}

func TestUpdateItemGuards(t *testing.T) {
	store, shop := newTestShop(t)
	admin := NewAdmin(store, shop.ID)
	ctx := context.Background()

	item, err := admin.CreateItem(ctx, ItemDraft{Name: "Chai", Price: 25})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	foreign := item
	foreign.ShopID = "someone-else"
	if err := admin.UpdateItem(ctx, foreign); !errors.Is(err, ErrInvalidItem) {
		t.Errorf("cross-shop update: err = %v, want ErrInvalidItem", err)
	}

	item.Price = 30
	item.Description = "Classic spiced milk tea"
	if err := admin.UpdateItem(ctx, item); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	got, err := admin.GetItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.Price != 30 || got.Description != "Classic spiced milk tea" {
		t.Errorf("update is a full-record replace, got %+v", got)
	}
}

func TestUpdateShopSlugUniqueness(t *testing.T) {
	store, shop := newTestShop(t)
	ctx := context.Background()

	other, err := CreateShop(ctx, store, models.Shop{Name: "Cafe Two", Slug: "cafe-two"})
	if err != nil {
		t.Fatalf("CreateShop: %v", err)
	}

	admin := NewAdmin(store, other.ID)
	other.Slug = shop.Slug
	if err := admin.UpdateShop(ctx, other); !errors.Is(err, ErrSlugTaken) {
		t.Errorf("slug collision: err = %v, want ErrSlugTaken", err)
	}

	// Keeping your own slug is fine.
	other.Slug = "cafe-two"
	other.Name = "Cafe Two Renamed"
	if err := admin.UpdateShop(ctx, other); err != nil {
		t.Errorf("UpdateShop with own slug: %v", err)
	}

	if _, err := CreateShop(ctx, store, models.Shop{Name: "Copycat", Slug: shop.Slug}); !errors.Is(err, ErrSlugTaken) {
		t.Errorf("CreateShop with taken slug: err = %v, want ErrSlugTaken", err)
	}
}
