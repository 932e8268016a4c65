package catalog

import (
	"context"
	"errors"
	"sync"

	"qrmenu/models"
)

// ErrNotFound indicates the requested shop or item does not exist.
var ErrNotFound = errors.New("catalog: not found")

// Store is the durable mapping from shops to their menu items.
// Item order is stable: ListItems returns items oldest-first.
type Store interface {
	GetShop(ctx context.Context, id string) (models.Shop, error)
	// ShopsBySlug returns every shop whose slug matches exactly. The
	// resolver needs all matches so it can refuse an ambiguous slug
	// instead of picking one arbitrarily.
	ShopsBySlug(ctx context.Context, slug string) ([]models.Shop, error)
	PutShop(ctx context.Context, shop models.Shop) error
	ListItems(ctx context.Context, shopID string) ([]models.MenuItem, error)
	PutItem(ctx context.Context, item models.MenuItem) error
	// DeleteItem is idempotent: deleting an absent id is not an error.
	DeleteItem(ctx context.Context, shopID, itemID string) error
}

// LiveStore additionally pushes the shop's full item collection to
// subscribers on every change, so an open customer session sees vendor
// edits without re-polling.
type LiveStore interface {
	Store
	SubscribeItems(ctx context.Context, shopID string) (*Subscription, error)
}

// Subscription is a live view of one shop's item collection. C carries
// the full current collection on every change, starting with an initial
// snapshot. C is closed when the feed is lost or the subscription stopped.
type Subscription struct {
	C <-chan []models.MenuItem

	stopOnce sync.Once
	stop     func()
}

func newSubscription(ch <-chan []models.MenuItem, stop func()) *Subscription {
	return &Subscription{C: ch, stop: stop}
}

// Stop cancels the subscription. Safe to call more than once.
func (s *Subscription) Stop() {
	s.stopOnce.Do(s.stop)
}

// sendLatest delivers snap on a capacity-1 channel, replacing any
// undelivered older snapshot. Every message is a full collection, so a
// slow reader only ever skips stale intermediates.
func sendLatest(ch chan []models.MenuItem, snap []models.MenuItem) {
	select {
	case ch <- snap:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}
