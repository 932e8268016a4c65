package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"qrmenu/catalog"
	"qrmenu/models"
)

// Admin is the vendor-facing mutator, scoped to exactly one owned shop.
// Customers never get one of these.
type Admin struct {
	store  catalog.Store
	shopID string
}

// NewAdmin scopes a mutator to the vendor's shop.
func NewAdmin(store catalog.Store, shopID string) *Admin {
	return &Admin{store: store, shopID: shopID}
}

// ItemDraft is the vendor's input for a new menu item. Category and
// availability default when left empty.
type ItemDraft struct {
	Name        string
	Price       int64
	Category    string
	Description string
	ImageFileID string
}

// CreateItem validates the draft, assigns an id and persists the item.
// Category defaults to "General", availability to true.
func (a *Admin) CreateItem(ctx context.Context, d ItemDraft) (models.MenuItem, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return models.MenuItem{}, fmt.Errorf("%w: name is required", ErrInvalidItem)
	}
	if d.Price < 0 {
		return models.MenuItem{}, fmt.Errorf("%w: price must be >= 0", ErrInvalidItem)
	}
	category := strings.TrimSpace(d.Category)
	if category == "" {
		category = models.CategoryGeneral
	}

	item := models.MenuItem{
		ID:          uuid.NewString(),
		ShopID:      a.shopID,
		Name:        name,
		Price:       d.Price,
		Category:    category,
		Description: strings.TrimSpace(d.Description),
		Available:   true,
		ImageFileID: d.ImageFileID,
	}
	if err := a.store.PutItem(ctx, item); err != nil {
		return models.MenuItem{}, err
	}
	return item, nil
}

// UpdateItem replaces the full item record. The item must already
// belong to this shop; an item's shop never changes.
func (a *Admin) UpdateItem(ctx context.Context, item models.MenuItem) error {
	if item.ShopID != a.shopID {
		return fmt.Errorf("%w: item belongs to another shop", ErrInvalidItem)
	}
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidItem)
	}
	if item.Price < 0 {
		return fmt.Errorf("%w: price must be >= 0", ErrInvalidItem)
	}
	if _, err := a.GetItem(ctx, item.ID); err != nil {
		return err
	}
	return a.store.PutItem(ctx, item)
}

// GetItem fetches one of the shop's items.
func (a *Admin) GetItem(ctx context.Context, itemID string) (models.MenuItem, error) {
	items, err := a.store.ListItems(ctx, a.shopID)
	if err != nil {
		return models.MenuItem{}, err
	}
	for _, it := range items {
		if it.ID == itemID {
			return it, nil
		}
	}
	return models.MenuItem{}, catalog.ErrNotFound
}

// ListItems returns the shop's items in catalog order.
func (a *Admin) ListItems(ctx context.Context) ([]models.MenuItem, error) {
	return a.store.ListItems(ctx, a.shopID)
}

// ToggleAvailability flips the item's availability flag and persists
// the full record.
func (a *Admin) ToggleAvailability(ctx context.Context, itemID string) (models.MenuItem, error) {
	item, err := a.GetItem(ctx, itemID)
	if err != nil {
		return models.MenuItem{}, err
	}
	item.Available = !item.Available
	if err := a.store.PutItem(ctx, item); err != nil {
		return models.MenuItem{}, err
	}
	return item, nil
}

// DeleteItem removes an item. Idempotent: deleting an already-deleted
// id is not an error.
func (a *Admin) DeleteItem(ctx context.Context, itemID string) error {
	return a.store.DeleteItem(ctx, a.shopID, itemID)
}

// UpdateShop replaces the shop record (no partial merge). The slug must
// not collide with another shop's.
func (a *Admin) UpdateShop(ctx context.Context, shop models.Shop) error {
	if shop.ID != a.shopID {
		return fmt.Errorf("%w: wrong shop id", ErrInvalidItem)
	}
	if err := validateShop(shop); err != nil {
		return err
	}
	others, err := a.store.ShopsBySlug(ctx, shop.Slug)
	if err != nil {
		return err
	}
	for _, s := range others {
		if s.ID != shop.ID {
			return ErrSlugTaken
		}
	}
	return a.store.PutShop(ctx, shop)
}

// CreateShop onboards a new vendor shop with a fresh id. The slug must
// be unique across all shops.
func CreateShop(ctx context.Context, store catalog.Store, shop models.Shop) (models.Shop, error) {
	if err := validateShop(shop); err != nil {
		return models.Shop{}, err
	}
	taken, err := store.ShopsBySlug(ctx, shop.Slug)
	if err != nil {
		return models.Shop{}, err
	}
	if len(taken) > 0 {
		return models.Shop{}, ErrSlugTaken
	}
	shop.ID = uuid.NewString()
	if err := store.PutShop(ctx, shop); err != nil {
		return models.Shop{}, err
	}
	return shop, nil
}

func validateShop(shop models.Shop) error {
	if strings.TrimSpace(shop.Name) == "" {
		return fmt.Errorf("%w: shop name is required", ErrInvalidItem)
	}
	if strings.TrimSpace(shop.Slug) == "" {
		return fmt.Errorf("%w: slug is required", ErrInvalidItem)
	}
	return nil
}
