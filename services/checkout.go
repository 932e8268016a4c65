package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"qrmenu/messenger"
	"qrmenu/models"
)

const orderSeparator = "--------------------------"

// FormatOrder renders the cart into the outbound order message and the
// contact target it should be delivered to. Line structure is the
// contract: header, optional table line, separator, one line per cart
// line in cart order, separator, total. The contact target is the
// shop's stored contact, unmodified.
//
// FormatOrder has no side effects; it neither clears the cart nor
// sends anything.
func FormatOrder(cart *Cart, shop models.Shop, customerName, tableNumber string) (message, target string, err error) {
	name := strings.TrimSpace(customerName)
	if name == "" {
		return "", "", ErrMissingCustomerName
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*New Order from %s* 📝\n", name)
	if table := strings.TrimSpace(tableNumber); table != "" {
		fmt.Fprintf(&b, "📍 Table: %s\n", table)
	}
	b.WriteString(orderSeparator + "\n")
	for _, l := range cart.Lines() {
		fmt.Fprintf(&b, "• %d x %s (%s%d)\n", l.Qty, l.Item.Name, shop.Currency, l.Item.Price)
	}
	b.WriteString(orderSeparator + "\n")
	fmt.Fprintf(&b, "*Total: %s%d*", shop.Currency, cart.Total())

	return b.String(), shop.Contact, nil
}

// Checkout turns a cart into a delivered order. The cart is cleared
// only after the outbound channel accepts the message, so a failed or
// cancelled delivery never loses the order.
type Checkout struct {
	sender messenger.Sender
	orders OrderLog // optional
	log    *zap.Logger
}

// NewCheckout wires a checkout over the given sender and order log.
// The log may be nil when no completed-order history is kept.
func NewCheckout(sender messenger.Sender, orders OrderLog, log *zap.Logger) *Checkout {
	if log == nil {
		log = zap.NewNop()
	}
	return &Checkout{sender: sender, orders: orders, log: log}
}

// Submit formats, delivers, records and finally clears the cart.
// Validation and delivery failures leave the cart untouched.
func (co *Checkout) Submit(ctx context.Context, cart *Cart, shop models.Shop, customerName, tableNumber string) (models.OrderRecord, error) {
	msg, target, err := FormatOrder(cart, shop, customerName, tableNumber)
	if err != nil {
		return models.OrderRecord{}, err
	}

	if err := co.sender.Send(ctx, target, msg); err != nil {
		return models.OrderRecord{}, fmt.Errorf("deliver order: %w", err)
	}

	rec := models.OrderRecord{
		ID:           uuid.NewString(),
		ShopID:       shop.ID,
		CustomerName: strings.TrimSpace(customerName),
		TableNumber:  strings.TrimSpace(tableNumber),
		Lines:        cart.Lines(),
		Total:        cart.Total(),
		CreatedAt:    time.Now().UTC(),
	}
	if co.orders != nil {
		// The message is already with the vendor; a log failure is
		// reported but must not fail the checkout.
		if err := co.orders.Record(ctx, rec); err != nil {
			co.log.Warn("record order", zap.String("order_id", rec.ID), zap.Error(err))
		}
	}

	if err := cart.Clear(); err != nil {
		co.log.Warn("clear cart after checkout", zap.String("order_id", rec.ID), zap.Error(err))
	}
	return rec, nil
}
