package services

import (
	"encoding/json"
	"fmt"

	"qrmenu/models"
)

// Cart is one customer's in-progress order: insertion-ordered lines,
// at most one line per item id, scoped to a single shop. Every mutation
// is re-serialized to the scalar store so the cart survives a restart.
//
// Only the owning session touches a cart, so there is no locking here.
type Cart struct {
	store ScalarStore
	key   string
	state cartState
}

type cartState struct {
	ShopID string            `json:"shop_id"`
	Lines  []models.CartLine `json:"lines"`
}

// LoadCart restores the persisted cart for key. Missing or corrupt data
// loads as an empty cart, never an error: a broken cart file must not
// lock a customer out of the menu.
func LoadCart(store ScalarStore, key string) *Cart {
	c := &Cart{store: store, key: key}
	raw, ok, err := store.Get(key)
	if err != nil || !ok {
		return c
	}
	var st cartState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return c
	}
	for _, l := range st.Lines {
		if l.Qty < 1 {
			return c // tampered data, start over
		}
	}
	c.state = st
	return c
}

// Attach scopes the cart to a shop. Switching to a different shop
// starts a fresh cart; carts never span shops.
func (c *Cart) Attach(shopID string) error {
	if c.state.ShopID == shopID {
		return nil
	}
	c.state = cartState{ShopID: shopID}
	return c.persist()
}

// ShopID reports the shop this cart belongs to, "" when unscoped.
func (c *Cart) ShopID() string { return c.state.ShopID }

// Adjust applies a signed quantity delta for item. The resulting
// quantity is previous+delta; at or below zero the line is removed. A
// positive delta takes a fresh snapshot of the item, so vendor price
// edits propagate the next time the customer touches the line. Adding
// an unavailable item is rejected; removing one is always allowed.
func (c *Cart) Adjust(item models.MenuItem, delta int) error {
	if delta == 0 {
		return nil
	}
	// Reject before touching any state: a refused adjust must leave
	// the cart exactly as it was, in memory and on disk.
	if delta > 0 && !item.Available {
		return ErrItemUnavailable
	}
	if c.state.ShopID != "" && item.ShopID != c.state.ShopID {
		// New shop, fresh cart.
		c.state = cartState{ShopID: item.ShopID}
	}
	if c.state.ShopID == "" {
		c.state.ShopID = item.ShopID
	}

	idx := -1
	prev := 0
	for i, l := range c.state.Lines {
		if l.Item.ID == item.ID {
			idx, prev = i, l.Qty
			break
		}
	}

	qty := prev + delta
	if qty <= 0 {
		if idx < 0 {
			return nil // nothing to remove
		}
		c.state.Lines = append(c.state.Lines[:idx], c.state.Lines[idx+1:]...)
		return c.persist()
	}

	line := models.CartLine{Item: item, Qty: qty}
	if idx < 0 {
		c.state.Lines = append(c.state.Lines, line)
	} else {
		c.state.Lines[idx] = line
	}
	return c.persist()
}

// Lines returns the cart lines in insertion order.
func (c *Cart) Lines() []models.CartLine {
	out := make([]models.CartLine, len(c.state.Lines))
	copy(out, c.state.Lines)
	return out
}

// Total is the sum of price*qty over all lines.
func (c *Cart) Total() int64 {
	var sum int64
	for _, l := range c.state.Lines {
		sum += l.Item.Price * int64(l.Qty)
	}
	return sum
}

// Count is the total number of units across all lines.
func (c *Cart) Count() int {
	var n int
	for _, l := range c.state.Lines {
		n += l.Qty
	}
	return n
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() error {
	c.state.Lines = nil
	return c.persist()
}

func (c *Cart) persist() error {
	data, err := json.Marshal(c.state)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := c.store.Set(c.key, string(data)); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}
