package models

import "time"

// CartLine is a menu item snapshot plus a strictly positive quantity.
// The snapshot is refreshed every time the line is touched, so vendor
// price edits catch up on the customer's next +/- press.
type CartLine struct {
	Item MenuItem `json:"item"`
	Qty  int      `json:"qty"`
}

// OrderRecord is one completed checkout, kept independently of the cart
// so a delivery hiccup after send never loses what was ordered.
type OrderRecord struct {
	ID           string     `json:"id"`
	ShopID       string     `json:"shop_id"`
	CustomerName string     `json:"customer_name"`
	TableNumber  string     `json:"table_number"`
	Lines        []CartLine `json:"lines"`
	Total        int64      `json:"total"`
	CreatedAt    time.Time  `json:"created_at"`
}

// DailyStats summarizes one day of completed orders for the vendor.
type DailyStats struct {
	OrdersCount int
	Revenue     int64
}
