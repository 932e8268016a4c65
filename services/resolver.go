package services

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"qrmenu/catalog"
	"qrmenu/models"
)

// Resolver turns a shop slug into the shop record plus a live view of
// its item collection. One resolver serves one customer session: a
// repeat Resolve stops the session's previous subscription, so no feeds
// leak as the customer navigates between shops.
type Resolver struct {
	store catalog.LiveStore
	sfg   singleflight.Group

	mu     sync.Mutex
	active *catalog.Subscription
}

// NewResolver returns a resolver over the given live store.
func NewResolver(store catalog.LiveStore) *Resolver {
	return &Resolver{store: store}
}

// Resolve looks up the shop by exact slug match (case-sensitive, no
// normalization). Zero matches or duplicates both resolve to
// ErrShopNotFound; the resolver never picks one of several arbitrarily.
func (r *Resolver) Resolve(ctx context.Context, slug string) (models.Shop, *catalog.Subscription, error) {
	v, err, _ := r.sfg.Do(slug, func() (interface{}, error) {
		return r.store.ShopsBySlug(ctx, slug)
	})
	if err != nil {
		return models.Shop{}, nil, fmt.Errorf("resolve %q: %w", slug, err)
	}
	shops := v.([]models.Shop)
	if len(shops) != 1 {
		return models.Shop{}, nil, ErrShopNotFound
	}
	shop := shops[0]

	sub, err := r.store.SubscribeItems(ctx, shop.ID)
	if err != nil {
		return models.Shop{}, nil, fmt.Errorf("subscribe %q: %w", slug, err)
	}

	r.mu.Lock()
	prev := r.active
	r.active = sub
	r.mu.Unlock()
	if prev != nil {
		prev.Stop()
	}
	return shop, sub, nil
}

// Stop releases the session's active subscription, if any. Called when
// the customer navigates away.
func (r *Resolver) Stop() {
	r.mu.Lock()
	prev := r.active
	r.active = nil
	r.mu.Unlock()
	if prev != nil {
		prev.Stop()
	}
}
