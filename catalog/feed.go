package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"qrmenu/models"
)

// Feed distributes item-collection snapshots over Redis pub/sub. Every
// published message is the shop's full current collection, not a delta,
// so subscribers never need to replay history.
type Feed struct {
	rdb *redis.Client
	log *zap.Logger
}

// NewFeed wraps an existing Redis client.
func NewFeed(rdb *redis.Client, log *zap.Logger) *Feed {
	if log == nil {
		log = zap.NewNop()
	}
	return &Feed{rdb: rdb, log: log}
}

func feedKey(shopID string) string {
	return fmt.Sprintf("menu:items:%s", shopID)
}

// Publish broadcasts the shop's current item collection.
func (f *Feed) Publish(ctx context.Context, shopID string, items []models.MenuItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	if err := f.rdb.Publish(ctx, feedKey(shopID), payload).Err(); err != nil {
		return fmt.Errorf("publish items: %w", err)
	}
	return nil
}

// Subscribe starts listening for the shop's snapshots. The initial
// snapshot is delivered first; C closes when the pub/sub connection is
// lost, which the caller must treat as a dropped feed.
func (f *Feed) Subscribe(ctx context.Context, shopID string, initial []models.MenuItem) *Subscription {
	ps := f.rdb.Subscribe(ctx, feedKey(shopID))
	ch := make(chan []models.MenuItem, 1)
	ch <- initial

	go func() {
		defer close(ch)
		for msg := range ps.Channel() {
			var items []models.MenuItem
			if err := json.Unmarshal([]byte(msg.Payload), &items); err != nil {
				f.log.Warn("bad item snapshot on feed",
					zap.String("shop_id", shopID), zap.Error(err))
				continue
			}
			sendLatest(ch, items)
		}
	}()

	stop := func() {
		if err := ps.Close(); err != nil {
			f.log.Warn("close feed subscription", zap.String("shop_id", shopID), zap.Error(err))
		}
	}
	return newSubscription(ch, stop)
}
