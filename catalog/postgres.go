package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"qrmenu/models"
)

// Postgres is the hosted catalog backend. Writes go to Postgres and the
// shop's refreshed item collection is then published on the feed, which
// is what makes this store live for connected customer sessions. A nil
// feed degrades to a plain durable store.
type Postgres struct {
	pool *pgxpool.Pool
	feed *Feed
}

// NewPostgres returns a Postgres-backed catalog store.
func NewPostgres(pool *pgxpool.Pool, feed *Feed) *Postgres {
	return &Postgres{pool: pool, feed: feed}
}

func (p *Postgres) GetShop(ctx context.Context, id string) (models.Shop, error) {
	var s models.Shop
	err := p.pool.QueryRow(ctx, `
		SELECT id, name, slug, currency, contact, COALESCE(logo_file_id, '')
		FROM shops WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.Name, &s.Slug, &s.Currency, &s.Contact, &s.LogoFileID)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Shop{}, ErrNotFound
	}
	if err != nil {
		return models.Shop{}, fmt.Errorf("get shop: %w", err)
	}
	return s, nil
}

func (p *Postgres) ShopsBySlug(ctx context.Context, slug string) ([]models.Shop, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, name, slug, currency, contact, COALESCE(logo_file_id, '')
		FROM shops WHERE slug = $1
		ORDER BY id`,
		slug,
	)
	if err != nil {
		return nil, fmt.Errorf("shops by slug: %w", err)
	}
	defer rows.Close()

	var shops []models.Shop
	for rows.Next() {
		var s models.Shop
		if err := rows.Scan(&s.ID, &s.Name, &s.Slug, &s.Currency, &s.Contact, &s.LogoFileID); err != nil {
			return nil, fmt.Errorf("scan shop: %w", err)
		}
		shops = append(shops, s)
	}
	return shops, rows.Err()
}

func (p *Postgres) PutShop(ctx context.Context, shop models.Shop) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO shops (id, name, slug, currency, contact, logo_file_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), now())
		ON CONFLICT (id) DO UPDATE SET
			name = $2,
			slug = $3,
			currency = $4,
			contact = $5,
			logo_file_id = NULLIF($6, ''),
			updated_at = now()`,
		shop.ID, shop.Name, shop.Slug, shop.Currency, shop.Contact, shop.LogoFileID,
	)
	if err != nil {
		return fmt.Errorf("put shop: %w", err)
	}
	return nil
}

func (p *Postgres) ListItems(ctx context.Context, shopID string) ([]models.MenuItem, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, shop_id, name, price, category, description, available, COALESCE(image_file_id, '')
		FROM menu_items
		WHERE shop_id = $1
		ORDER BY created_at, id`,
		shopID,
	)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var it models.MenuItem
		if err := rows.Scan(&it.ID, &it.ShopID, &it.Name, &it.Price, &it.Category,
			&it.Description, &it.Available, &it.ImageFileID); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (p *Postgres) PutItem(ctx context.Context, item models.MenuItem) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO menu_items (id, shop_id, name, price, category, description, available, image_file_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), now())
		ON CONFLICT (id) DO UPDATE SET
			name = $3,
			price = $4,
			category = $5,
			description = $6,
			available = $7,
			image_file_id = NULLIF($8, ''),
			updated_at = now()`,
		item.ID, item.ShopID, item.Name, item.Price, item.Category,
		item.Description, item.Available, item.ImageFileID,
	)
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return p.publish(ctx, item.ShopID)
}

func (p *Postgres) DeleteItem(ctx context.Context, shopID, itemID string) error {
	tag, err := p.pool.Exec(ctx, `
		DELETE FROM menu_items WHERE id = $1 AND shop_id = $2`,
		itemID, shopID,
	)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil // already gone
	}
	return p.publish(ctx, shopID)
}

func (p *Postgres) SubscribeItems(ctx context.Context, shopID string) (*Subscription, error) {
	if p.feed == nil {
		return nil, errors.New("catalog: store has no live feed")
	}
	initial, err := p.ListItems(ctx, shopID)
	if err != nil {
		return nil, err
	}
	return p.feed.Subscribe(ctx, shopID, initial), nil
}

func (p *Postgres) publish(ctx context.Context, shopID string) error {
	if p.feed == nil {
		return nil
	}
	items, err := p.ListItems(ctx, shopID)
	if err != nil {
		return err
	}
	return p.feed.Publish(ctx, shopID, items)
}
