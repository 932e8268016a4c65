package catalog

import (
	"context"
	"sync"

	"qrmenu/models"
)

// Memory is an in-process store for single-device vendor mode and tests.
// The vendor is the sole writer of its own view, so a mutex around plain
// slices is enough; subscribers still get push so the contract matches
// the hosted backend.
type Memory struct {
	mu      sync.RWMutex
	shops   []models.Shop
	items   []models.MenuItem // insertion order, all shops
	subs    map[string]map[int]chan []models.MenuItem
	nextSub int
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{subs: make(map[string]map[int]chan []models.MenuItem)}
}

func (m *Memory) GetShop(ctx context.Context, id string) (models.Shop, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.shops {
		if s.ID == id {
			return s, nil
		}
	}
	return models.Shop{}, ErrNotFound
}

func (m *Memory) ShopsBySlug(ctx context.Context, slug string) ([]models.Shop, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Shop
	for _, s := range m.shops {
		if s.Slug == slug {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *Memory) PutShop(ctx context.Context, shop models.Shop) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.shops {
		if s.ID == shop.ID {
			m.shops[i] = shop
			return nil
		}
	}
	m.shops = append(m.shops, shop)
	return nil
}

func (m *Memory) ListItems(ctx context.Context, shopID string) ([]models.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.itemsOf(shopID), nil
}

func (m *Memory) itemsOf(shopID string) []models.MenuItem {
	var out []models.MenuItem
	for _, it := range m.items {
		if it.ShopID == shopID {
			out = append(out, it)
		}
	}
	return out
}

func (m *Memory) PutItem(ctx context.Context, item models.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	replaced := false
	for i, it := range m.items {
		if it.ID == item.ID {
			m.items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		m.items = append(m.items, item)
	}
	m.notifyLocked(item.ShopID)
	return nil
}

func (m *Memory) DeleteItem(ctx context.Context, shopID, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.items[:0]
	removed := false
	for _, it := range m.items {
		if it.ID == itemID && it.ShopID == shopID {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	m.items = kept
	if removed {
		m.notifyLocked(shopID)
	}
	return nil
}

func (m *Memory) SubscribeItems(ctx context.Context, shopID string) (*Subscription, error) {
	m.mu.Lock()
	ch := make(chan []models.MenuItem, 1)
	id := m.nextSub
	m.nextSub++
	if m.subs[shopID] == nil {
		m.subs[shopID] = make(map[int]chan []models.MenuItem)
	}
	m.subs[shopID][id] = ch
	ch <- m.itemsOf(shopID) // initial snapshot, capacity 1 never blocks here
	m.mu.Unlock()

	stop := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if sub, ok := m.subs[shopID][id]; ok {
			delete(m.subs[shopID], id)
			close(sub)
		}
	}
	return newSubscription(ch, stop), nil
}

func (m *Memory) notifyLocked(shopID string) {
	if len(m.subs[shopID]) == 0 {
		return
	}
	snap := m.itemsOf(shopID)
	for _, ch := range m.subs[shopID] {
		sendLatest(ch, snap)
	}
}
