package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"qrmenu/models"
	"qrmenu/services"
)

// openShop resolves the slug, binds the chat's cart to the shop and
// posts the menu message that live updates will keep editing.
func (b *Bot) openShop(ctx context.Context, chatID int64, slug string) {
	resolver := services.NewResolver(b.store)
	shop, sub, err := resolver.Resolve(ctx, slug)
	if errors.Is(err, services.ErrShopNotFound) {
		b.reply(chatID, "Menu not found. Check the link or QR code.")
		return
	}
	if err != nil {
		b.log.Error("resolve shop", zap.String("slug", slug), zap.Error(err))
		b.reply(chatID, "The menu can't be loaded right now, please try again.")
		return
	}

	cart := services.LoadCart(b.carts, cartKey(chatID))
	if err := cart.Attach(shop.ID); err != nil {
		b.log.Warn("attach cart", zap.Int64("chat_id", chatID), zap.Error(err))
	}

	sess := b.setSession(chatID, &session{
		resolver: resolver,
		shop:     shop,
		cart:     cart,
	})

	// First snapshot comes on the subscription channel.
	select {
	case items := <-sub.C:
		sess.setItems(items)
	case <-ctx.Done():
		return
	}

	text, keyboard := sess.renderMenu()
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboard
	sent, err := b.api.Send(msg)
	if err != nil {
		b.log.Warn("send menu", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}
	sess.setMenuMsg(sent.MessageID)

	go b.watchMenu(chatID, sess, sub.C)
}

// watchMenu re-renders the menu message whenever the vendor edits the
// catalog. Ends when the subscription channel closes (session replaced,
// navigation away, or feed lost). All shared state goes through the
// session's guarded methods; the update loop mutates the same cart.
func (b *Bot) watchMenu(chatID int64, sess *session, feed <-chan []models.MenuItem) {
	for items := range feed {
		sess.setItems(items)
		b.refreshMenu(chatID, sess)
	}
}

func cartKey(chatID int64) string {
	return fmt.Sprintf("cart-%d", chatID)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	sess := b.session(chatID)
	if sess == nil {
		b.answer(cb.ID, "Open a menu first: /menu <shop-slug>")
		return
	}

	action, itemID := splitCallback(cb.Data)
	switch action {
	case "add", "sub":
		item, ok := sess.findItem(itemID)
		if !ok {
			b.answer(cb.ID, "That item is no longer on the menu")
			b.refreshMenu(chatID, sess)
			return
		}
		delta := 1
		if action == "sub" {
			delta = -1
		}
		switch err := sess.adjust(item, delta); {
		case errors.Is(err, services.ErrItemUnavailable):
			b.answer(cb.ID, "Sold out right now")
			return
		case err != nil:
			b.log.Warn("adjust cart", zap.Int64("chat_id", chatID), zap.Error(err))
			b.answer(cb.ID, "Couldn't update your cart, try again")
			return
		}
		b.answer(cb.ID, fmt.Sprintf("Cart: %d items", sess.cartCount()))
		b.refreshMenu(chatID, sess)
	case "cart":
		b.answer(cb.ID, "")
		b.showCart(chatID)
	case "clear":
		if err := sess.clearCart(); err != nil {
			b.log.Warn("clear cart", zap.Int64("chat_id", chatID), zap.Error(err))
		}
		b.answer(cb.ID, "Cart cleared")
		b.refreshMenu(chatID, sess)
	case "checkout":
		b.answer(cb.ID, "")
		b.beginCheckout(chatID, sess)
	default:
		b.answer(cb.ID, "")
	}
}

func (b *Bot) refreshMenu(chatID int64, sess *session) {
	msgID := sess.menuMsg()
	if msgID == 0 {
		return
	}
	text, keyboard := sess.renderMenu()
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, text, keyboard)
	edit.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(edit); err != nil {
		b.log.Warn("refresh menu", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) showCart(chatID int64) {
	sess := b.session(chatID)
	if sess == nil || sess.cartCount() == 0 {
		b.reply(chatID, "Your cart is empty.")
		return
	}
	msg := tgbotapi.NewMessage(chatID, sess.cartView())
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = cartKeyboard()
	if _, err := b.api.Send(msg); err != nil {
		b.log.Warn("send cart", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) beginCheckout(chatID int64, sess *session) {
	if sess.cartCount() == 0 {
		b.reply(chatID, "Your cart is empty.")
		return
	}
	sess.await = "name"
	sess.pendingName = ""
	b.reply(chatID, "What's your name?")
}

// handleCheckoutInput drives the two-step checkout conversation:
// customer name, then optional table number ("-" to skip).
func (b *Bot) handleCheckoutInput(ctx context.Context, chatID int64, text string) {
	sess := b.session(chatID)
	if sess == nil || sess.await == "" {
		return
	}

	switch sess.await {
	case "name":
		if text == "" {
			b.reply(chatID, "Please enter your name to place the order.")
			return
		}
		sess.pendingName = text
		sess.await = "table"
		b.reply(chatID, "Table number? Send - if you're not at a table.")
	case "table":
		table := text
		if table == "-" {
			table = ""
		}
		sess.await = ""
		b.submitOrder(ctx, chatID, sess, sess.pendingName, table)
	}
}

func (b *Bot) submitOrder(ctx context.Context, chatID int64, sess *session, name, table string) {
	rec, err := sess.submit(ctx, b.checkout, name, table)
	switch {
	case errors.Is(err, services.ErrMissingCustomerName):
		sess.await = "name"
		b.reply(chatID, "Please enter your name to place the order.")
		return
	case err != nil:
		b.log.Error("checkout", zap.Int64("chat_id", chatID), zap.Error(err))
		b.reply(chatID, "The order couldn't be sent. Your cart is untouched — please try again.")
		return
	}
	b.reply(chatID, fmt.Sprintf("Order sent to %s ✅ Total %s%d. They'll be right with you.",
		sess.shop.Name, sess.shop.Currency, rec.Total))
	b.refreshMenu(chatID, sess)
}

func (b *Bot) answer(callbackID, text string) {
	cb := tgbotapi.NewCallback(callbackID, text)
	if _, err := b.api.Request(cb); err != nil {
		b.log.Warn("answer callback", zap.Error(err))
	}
}
