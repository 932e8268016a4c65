package catalog

import (
	"context"
	"testing"
	"time"

	"qrmenu/models"
)

func item(id, shopID, name string) models.MenuItem {
	return models.MenuItem{ID: id, ShopID: shopID, Name: name, Available: true}
}

func TestMemoryListItemsKeepsInsertionOrder(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	for _, it := range []models.MenuItem{
		item("b", "s1", "Second"),
		item("a", "s1", "First"),
		item("x", "s2", "Other shop"),
		item("c", "s1", "Third"),
	} {
		if err := m.PutItem(ctx, it); err != nil {
			t.Fatalf("PutItem: %v", err)
		}
	}

	items, err := m.ListItems(ctx, "s1")
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	want := []string{"Second", "First", "Third"}
	if len(items) != len(want) {
		t.Fatalf("got %d items, want %d", len(items), len(want))
	}
	for i, name := range want {
		if items[i].Name != name {
			t.Errorf("items[%d] = %q, want %q", i, items[i].Name, name)
		}
	}
}

func TestMemoryPutItemReplacesInPlace(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	if err := m.PutItem(ctx, item("a", "s1", "Chai")); err != nil {
		t.Fatalf("PutItem: %v", err)
	}
	if err := m.PutItem(ctx, item("b", "s1", "Samosa")); err != nil {
		t.Fatalf("PutItem: %v", err)
	}

	edited := item("a", "s1", "Masala Chai")
	if err := m.PutItem(ctx, edited); err != nil {
		t.Fatalf("PutItem update: %v", err)
	}
	items, _ := m.ListItems(ctx, "s1")
	if len(items) != 2 || items[0].Name != "Masala Chai" {
		t.Errorf("update must replace in place, got %+v", items)
	}
}

func TestMemoryDeleteItemIdempotent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	if err := m.PutItem(ctx, item("a", "s1", "Chai")); err != nil {
		t.Fatalf("PutItem: %v", err)
	}
	if err := m.DeleteItem(ctx, "s1", "a"); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if err := m.DeleteItem(ctx, "s1", "a"); err != nil {
		t.Errorf("repeat delete: %v", err)
	}
	if err := m.DeleteItem(ctx, "s1", "ghost"); err != nil {
		t.Errorf("unknown id delete: %v", err)
	}
}

func TestMemorySubscribePushesFullCollection(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	if err := m.PutItem(ctx, item("a", "s1", "Chai")); err != nil {
		t.Fatalf("PutItem: %v", err)
	}

	sub, err := m.SubscribeItems(ctx, "s1")
	if err != nil {
		t.Fatalf("SubscribeItems: %v", err)
	}
	defer sub.Stop()

	if items := recv(t, sub.C); len(items) != 1 {
		t.Fatalf("initial snapshot = %+v", items)
	}

	if err := m.PutItem(ctx, item("b", "s1", "Samosa")); err != nil {
		t.Fatalf("PutItem: %v", err)
	}
	if items := recv(t, sub.C); len(items) != 2 {
		t.Fatalf("snapshot after put = %+v", items)
	}

	// Writes to another shop are not delivered here; a slow reader just
	// sees the latest full collection.
	if err := m.PutItem(ctx, item("z", "s2", "Elsewhere")); err != nil {
		t.Fatalf("PutItem: %v", err)
	}
	if err := m.DeleteItem(ctx, "s1", "a"); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	items := recv(t, sub.C)
	if len(items) != 1 || items[0].ID != "b" {
		t.Fatalf("snapshot after delete = %+v", items)
	}
}

func TestMemorySubscriptionCoalescesToLatest(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	sub, err := m.SubscribeItems(ctx, "s1")
	if err != nil {
		t.Fatalf("SubscribeItems: %v", err)
	}
	defer sub.Stop()
	recv(t, sub.C) // initial empty snapshot

	// Three writes without a read in between; the reader must end up
	// with the latest collection, not a stale intermediate.
	for _, id := range []string{"a", "b", "c"} {
		if err := m.PutItem(ctx, item(id, "s1", id)); err != nil {
			t.Fatalf("PutItem: %v", err)
		}
	}
	items := recv(t, sub.C)
	if len(items) != 3 {
		t.Fatalf("latest snapshot must win, got %+v", items)
	}
}

func TestMemoryStopClosesChannel(t *testing.T) {
	m := NewMemory()
	sub, err := m.SubscribeItems(context.Background(), "s1")
	if err != nil {
		t.Fatalf("SubscribeItems: %v", err)
	}
	recv(t, sub.C)
	sub.Stop()
	sub.Stop() // idempotent

	select {
	case _, open := <-sub.C:
		if open {
			t.Error("channel should be closed after Stop")
		}
	case <-time.After(time.Second):
		t.Error("channel not closed after Stop")
	}

	// A write after Stop must not panic on the closed channel.
	if err := m.PutItem(context.Background(), item("a", "s1", "Chai")); err != nil {
		t.Fatalf("PutItem after Stop: %v", err)
	}
}

func recv(t *testing.T, ch <-chan []models.MenuItem) []models.MenuItem {
	t.Helper()
	select {
	case items, ok := <-ch:
		if !ok {
			t.Fatal("subscription closed unexpectedly")
		}
		return items
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}
