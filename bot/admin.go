package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"qrmenu/models"
	"qrmenu/services"
)

// handleVendorCommand runs vendor-only commands. Returns false when the
// command is not a vendor command, so the customer flow can have it.
func (b *Bot) handleVendorCommand(ctx context.Context, chatID int64, cmd, args string) bool {
	switch cmd {
	case "newshop":
		b.cmdNewShop(ctx, chatID, args)
	case "setshop":
		b.cmdSetShop(ctx, chatID, args)
	case "additem":
		b.cmdAddItem(ctx, chatID, args)
	case "items":
		b.cmdItems(ctx, chatID)
	case "toggle":
		b.cmdToggle(ctx, chatID, args)
	case "delitem":
		b.cmdDelItem(ctx, chatID, args)
	case "link":
		b.cmdLink(ctx, chatID)
	case "stats":
		b.cmdStats(ctx, chatID, args)
	default:
		return false
	}
	return true
}

func (b *Bot) admin(ctx context.Context, chatID int64) (*services.Admin, bool) {
	if b.vendorShopID == "" {
		b.reply(chatID, "No shop yet. Create one:\n/newshop Name | slug | currency | contact-chat-id")
		return nil, false
	}
	return services.NewAdmin(b.store, b.vendorShopID), true
}

// /newshop Name | slug | currency | contact-chat-id
func (b *Bot) cmdNewShop(ctx context.Context, chatID int64, args string) {
	parts := splitFields(args, 4)
	if len(parts) < 2 {
		b.reply(chatID, "Usage: /newshop Name | slug | currency | contact-chat-id")
		return
	}
	shop := models.Shop{Name: parts[0], Slug: parts[1]}
	if len(parts) > 2 {
		shop.Currency = parts[2]
	}
	if len(parts) > 3 {
		shop.Contact = parts[3]
	}
	if shop.Contact == "" {
		// Orders land in the vendor's own chat unless told otherwise.
		shop.Contact = strconv.FormatInt(chatID, 10)
	}

	created, err := services.CreateShop(ctx, b.store, shop)
	if err != nil {
		b.replyAdminErr(chatID, err)
		return
	}
	b.vendorShopID = created.ID
	if err := b.carts.Set("vendor-shop", created.ID); err != nil {
		b.log.Warn("remember vendor shop", zap.Error(err))
	}
	b.reply(chatID, fmt.Sprintf("Shop %q created. Customers open it with /menu %s — see /link.", created.Name, created.Slug))
}

// /setshop Name | slug | currency | contact-chat-id — full replace.
func (b *Bot) cmdSetShop(ctx context.Context, chatID int64, args string) {
	admin, ok := b.admin(ctx, chatID)
	if !ok {
		return
	}
	parts := splitFields(args, 4)
	if len(parts) < 4 {
		b.reply(chatID, "Usage: /setshop Name | slug | currency | contact-chat-id (all four fields)")
		return
	}
	shop := models.Shop{
		ID:       b.vendorShopID,
		Name:     parts[0],
		Slug:     parts[1],
		Currency: parts[2],
		Contact:  parts[3],
	}
	if err := admin.UpdateShop(ctx, shop); err != nil {
		b.replyAdminErr(chatID, err)
		return
	}
	b.reply(chatID, "Shop updated.")
}

// /additem Name | price | category | description
func (b *Bot) cmdAddItem(ctx context.Context, chatID int64, args string) {
	admin, ok := b.admin(ctx, chatID)
	if !ok {
		return
	}
	parts := splitFields(args, 4)
	if len(parts) < 2 {
		b.reply(chatID, "Usage: /additem Name | price | category | description")
		return
	}
	price, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		b.reply(chatID, "Price must be a whole number.")
		return
	}
	draft := services.ItemDraft{Name: parts[0], Price: price}
	if len(parts) > 2 {
		draft.Category = parts[2]
	}
	if len(parts) > 3 {
		draft.Description = parts[3]
	}
	item, err := admin.CreateItem(ctx, draft)
	if err != nil {
		b.replyAdminErr(chatID, err)
		return
	}
	b.reply(chatID, fmt.Sprintf("Added %s (%d) to %s.", item.Name, item.Price, item.Category))
}

func (b *Bot) cmdItems(ctx context.Context, chatID int64) {
	admin, ok := b.admin(ctx, chatID)
	if !ok {
		return
	}
	items, err := admin.ListItems(ctx)
	if err != nil {
		b.replyAdminErr(chatID, err)
		return
	}
	if len(items) == 0 {
		b.reply(chatID, "The menu is empty. Add something with /additem.")
		return
	}
	var sb strings.Builder
	for i, it := range items {
		state := "on"
		if !it.Available {
			state = "off"
		}
		fmt.Fprintf(&sb, "%d. %s — %d [%s] (%s)\n", i+1, it.Name, it.Price, state, it.Category)
	}
	sb.WriteString("\n/toggle <n> flips availability, /delitem <n> removes.")
	b.reply(chatID, sb.String())
}

func (b *Bot) cmdToggle(ctx context.Context, chatID int64, args string) {
	admin, ok := b.admin(ctx, chatID)
	if !ok {
		return
	}
	item, ok := b.itemByIndex(ctx, chatID, admin, args)
	if !ok {
		return
	}
	updated, err := admin.ToggleAvailability(ctx, item.ID)
	if err != nil {
		b.replyAdminErr(chatID, err)
		return
	}
	if updated.Available {
		b.reply(chatID, fmt.Sprintf("%s is back on the menu.", updated.Name))
	} else {
		b.reply(chatID, fmt.Sprintf("%s marked sold out.", updated.Name))
	}
}

func (b *Bot) cmdDelItem(ctx context.Context, chatID int64, args string) {
	admin, ok := b.admin(ctx, chatID)
	if !ok {
		return
	}
	item, ok := b.itemByIndex(ctx, chatID, admin, args)
	if !ok {
		return
	}
	if err := admin.DeleteItem(ctx, item.ID); err != nil {
		b.replyAdminErr(chatID, err)
		return
	}
	b.reply(chatID, fmt.Sprintf("Removed %s.", item.Name))
}

func (b *Bot) cmdLink(ctx context.Context, chatID int64) {
	if _, ok := b.admin(ctx, chatID); !ok {
		return
	}
	shop, err := b.store.GetShop(ctx, b.vendorShopID)
	if err != nil {
		b.replyAdminErr(chatID, err)
		return
	}
	b.reply(chatID, fmt.Sprintf("Customer link (put this behind the QR code):\nhttps://t.me/%s?start=%s",
		b.api.Self.UserName, shop.Slug))
}

// /stats [YYYY-MM-DD], defaults to today.
func (b *Bot) cmdStats(ctx context.Context, chatID int64, args string) {
	if _, ok := b.admin(ctx, chatID); !ok {
		return
	}
	if b.orders == nil {
		b.reply(chatID, "Order history is not enabled.")
		return
	}
	// Stats days are UTC calendar days, matching how orders are stored.
	day := time.Now().UTC()
	if args != "" {
		parsed, err := time.Parse("2006-01-02", args)
		if err != nil {
			b.reply(chatID, "Usage: /stats [YYYY-MM-DD]")
			return
		}
		day = parsed
	}
	stats, err := b.orders.DailyStats(ctx, b.vendorShopID, day)
	if err != nil {
		b.replyAdminErr(chatID, err)
		return
	}
	b.reply(chatID, fmt.Sprintf("%s: %d orders, revenue %d.",
		day.Format("2006-01-02"), stats.OrdersCount, stats.Revenue))
}

func (b *Bot) itemByIndex(ctx context.Context, chatID int64, admin *services.Admin, args string) (models.MenuItem, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil || n < 1 {
		b.reply(chatID, "Give the item number from /items.")
		return models.MenuItem{}, false
	}
	items, err := admin.ListItems(ctx)
	if err != nil {
		b.replyAdminErr(chatID, err)
		return models.MenuItem{}, false
	}
	if n > len(items) {
		b.reply(chatID, "No such item number, see /items.")
		return models.MenuItem{}, false
	}
	return items[n-1], true
}

func (b *Bot) replyAdminErr(chatID int64, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidItem):
		b.reply(chatID, "Invalid input: "+err.Error())
	case errors.Is(err, services.ErrSlugTaken):
		b.reply(chatID, "That slug is already taken, pick another.")
	default:
		b.log.Error("vendor command", zap.Error(err))
		b.reply(chatID, "Something went wrong, try again.")
	}
}

// splitFields splits "a | b | c" style arguments into at most max
// trimmed fields.
func splitFields(args string, max int) []string {
	if strings.TrimSpace(args) == "" {
		return nil
	}
	raw := strings.SplitN(args, "|", max)
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		out = append(out, strings.TrimSpace(f))
	}
	return out
}
