package services

import (
	"context"

	"qrmenu/catalog"
	"qrmenu/models"
)

// DemoSlug is the slug the demo shop is reachable under.
const DemoSlug = "the-chai-spot"

// SeedDemo creates the demo shop and its starter menu if the demo slug
// is still free. Safe to call repeatedly.
func SeedDemo(ctx context.Context, store catalog.Store, contact string) (models.Shop, error) {
	existing, err := store.ShopsBySlug(ctx, DemoSlug)
	if err != nil {
		return models.Shop{}, err
	}
	if len(existing) > 0 {
		return existing[0], nil
	}

	shop, err := CreateShop(ctx, store, models.Shop{
		Name:     "The Chai Spot",
		Slug:     DemoSlug,
		Currency: "₹",
		Contact:  contact,
	})
	if err != nil {
		return models.Shop{}, err
	}

	admin := NewAdmin(store, shop.ID)
	drafts := []ItemDraft{
		{Name: "Masala Chai", Price: 25, Category: "Tea", Description: "Classic spiced milk tea"},
		{Name: "Ginger Tea", Price: 20, Category: "Tea", Description: "Fresh ginger infused tea"},
		{Name: "Samosa (2pcs)", Price: 40, Category: "Snacks", Description: "Crispy fried pastries with potato filling"},
		{Name: "Paneer Pakora", Price: 80, Category: "Snacks", Description: "Fried cottage cheese fritters"},
	}
	for _, d := range drafts {
		if _, err := admin.CreateItem(ctx, d); err != nil {
			return models.Shop{}, err
		}
	}
	return shop, nil
}
