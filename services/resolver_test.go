package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"qrmenu/catalog"
	"qrmenu/models"
)

func TestResolveUnknownSlug(t *testing.T) {
	store, _ := newTestShop(t)
	r := NewResolver(store)

	_, _, err := r.Resolve(context.Background(), "no-such-shop")
	if !errors.Is(err, ErrShopNotFound) {
		t.Errorf("err = %v, want ErrShopNotFound", err)
	}
}

func TestResolveIsCaseSensitive(t *testing.T) {
	store, _ := newTestShop(t)
	r := NewResolver(store)

	if _, _, err := r.Resolve(context.Background(), "The-Chai-Spot"); !errors.Is(err, ErrShopNotFound) {
		t.Errorf("slug matching must be exact, err = %v", err)
	}
}

func TestResolveRefusesAmbiguousSlug(t *testing.T) {
	store, shop := newTestShop(t)
	// Force a duplicate slug directly through the store, bypassing the
	// mutator's write-time check.
	dupe := models.Shop{ID: "dupe", Name: "Impostor", Slug: shop.Slug}
	if err := store.PutShop(context.Background(), dupe); err != nil {
		t.Fatalf("PutShop: %v", err)
	}

	r := NewResolver(store)
	if _, _, err := r.Resolve(context.Background(), shop.Slug); !errors.Is(err, ErrShopNotFound) {
		t.Errorf("ambiguous slug must not resolve, err = %v", err)
	}
}

func TestResolveDeliversLiveUpdates(t *testing.T) {
	store, shop := newTestShop(t)
	admin := NewAdmin(store, shop.ID)
	ctx := context.Background()

	if _, err := admin.CreateItem(ctx, ItemDraft{Name: "Masala Chai", Price: 25}); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	r := NewResolver(store)
	got, sub, err := r.Resolve(ctx, shop.Slug)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	defer sub.Stop()
	if got.ID != shop.ID {
		t.Fatalf("resolved shop %q, want %q", got.ID, shop.ID)
	}

	items := recvSnapshot(t, sub)
	if len(items) != 1 || items[0].Name != "Masala Chai" {
		t.Fatalf("initial snapshot = %+v", items)
	}

	// A vendor edit must reach the open subscription without re-polling.
	if _, err := admin.CreateItem(ctx, ItemDraft{Name: "Samosa (2pcs)", Price: 40, Category: "Snacks"}); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	items = recvSnapshot(t, sub)
	if len(items) != 2 {
		t.Fatalf("snapshot after create = %+v", items)
	}

	if err := admin.DeleteItem(ctx, items[0].ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	items = recvSnapshot(t, sub)
	if len(items) != 1 || items[0].Name != "Samosa (2pcs)" {
		t.Fatalf("snapshot after delete = %+v", items)
	}
}

func TestResolveReplacesPreviousSubscription(t *testing.T) {
	store, shop := newTestShop(t)
	ctx := context.Background()
	if _, err := CreateShop(ctx, store, models.Shop{Name: "Cafe Two", Slug: "cafe-two"}); err != nil {
		t.Fatalf("CreateShop: %v", err)
	}

	r := NewResolver(store)
	_, first, err := r.Resolve(ctx, shop.Slug)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	<-first.C // drain initial snapshot

	_, second, err := r.Resolve(ctx, "cafe-two")
	if err != nil {
		t.Fatalf("Resolve second: %v", err)
	}
	defer second.Stop()

	// The first feed must be closed; no subscriptions accumulate
	// across navigations.
	select {
	case _, open := <-first.C:
		if open {
			t.Error("first subscription still delivering after replacement")
		}
	case <-time.After(time.Second):
		t.Error("first subscription was not closed")
	}
}

func TestResolverStopIsIdempotent(t *testing.T) {
	store, shop := newTestShop(t)
	r := NewResolver(store)
	if _, _, err := r.Resolve(context.Background(), shop.Slug); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	r.Stop()
	r.Stop() // second stop must be safe
}

func recvSnapshot(t *testing.T, sub *catalog.Subscription) []models.MenuItem {
	t.Helper()
	select {
	case items, ok := <-sub.C:
		if !ok {
			t.Fatal("subscription closed unexpectedly")
		}
		return items
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}
