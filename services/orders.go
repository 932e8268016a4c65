package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"qrmenu/models"
)

// OrderLog keeps completed orders independently of the cart, so a
// post-send failure can never lose what was ordered.
type OrderLog interface {
	Record(ctx context.Context, rec models.OrderRecord) error
	DailyStats(ctx context.Context, shopID string, day time.Time) (models.DailyStats, error)
}

// PGOrderLog persists completed orders to Postgres.
type PGOrderLog struct {
	pool *pgxpool.Pool
}

func NewPGOrderLog(pool *pgxpool.Pool) *PGOrderLog {
	return &PGOrderLog{pool: pool}
}

func (l *PGOrderLog) Record(ctx context.Context, rec models.OrderRecord) error {
	linesJSON, err := json.Marshal(rec.Lines)
	if err != nil {
		return fmt.Errorf("marshal order lines: %w", err)
	}
	_, err = l.pool.Exec(ctx, `
		INSERT INTO orders (id, shop_id, customer_name, table_number, lines, total, created_at)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7)`,
		rec.ID, rec.ShopID, rec.CustomerName, rec.TableNumber, linesJSON, rec.Total, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record order: %w", err)
	}
	return nil
}

// DailyStats counts orders and revenue for one UTC calendar day.
// created_at is stored in UTC; truncating in the session timezone
// would shift late-evening orders onto the wrong day.
func (l *PGOrderLog) DailyStats(ctx context.Context, shopID string, day time.Time) (models.DailyStats, error) {
	var s models.DailyStats
	err := l.pool.QueryRow(ctx, `
		SELECT COUNT(*)::int, COALESCE(SUM(total), 0)::bigint
		FROM orders
		WHERE shop_id = $1 AND (created_at AT TIME ZONE 'UTC')::date = $2::date`,
		shopID, day.UTC().Format("2006-01-02"),
	).Scan(&s.OrdersCount, &s.Revenue)
	if err != nil {
		return models.DailyStats{}, fmt.Errorf("daily stats: %w", err)
	}
	return s, nil
}

// MemoryOrderLog backs single-device mode and tests.
type MemoryOrderLog struct {
	mu   sync.Mutex
	recs []models.OrderRecord
}

func NewMemoryOrderLog() *MemoryOrderLog {
	return &MemoryOrderLog{}
}

func (l *MemoryOrderLog) Record(ctx context.Context, rec models.OrderRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recs = append(l.recs, rec)
	return nil
}

func (l *MemoryOrderLog) DailyStats(ctx context.Context, shopID string, day time.Time) (models.DailyStats, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var s models.DailyStats
	y, m, d := day.UTC().Date()
	for _, rec := range l.recs {
		ry, rm, rd := rec.CreatedAt.UTC().Date()
		if rec.ShopID == shopID && ry == y && rm == m && rd == d {
			s.OrdersCount++
			s.Revenue += rec.Total
		}
	}
	return s, nil
}

// Records returns a copy of everything recorded so far.
func (l *MemoryOrderLog) Records() []models.OrderRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.OrderRecord, len(l.recs))
	copy(out, l.recs)
	return out
}
