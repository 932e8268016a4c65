package bot

import (
	"context"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"qrmenu/catalog"
	"qrmenu/config"
	"qrmenu/models"
	"qrmenu/services"
)

// Bot is the single Telegram front end: customers open a shop by slug
// (the QR deep link payload), browse the live menu and check out;
// the configured vendor chat manages the menu.
type Bot struct {
	api      *tgbotapi.BotAPI
	store    catalog.LiveStore
	carts    services.ScalarStore
	checkout *services.Checkout
	orders   services.OrderLog
	cfg      *config.Config
	log      *zap.Logger

	mu       sync.Mutex
	sessions map[int64]*session

	vendorShopID string // loaded from the local store, set by /newshop
}

// session is one customer chat's state: resolved shop, current item
// snapshot, cart and the in-flight checkout conversation.
//
// The update loop and the menu watcher goroutine both touch items,
// cart and menuMsgID, so those fields are reached only through the
// mu-guarded methods in session.go. The checkout conversation fields
// are owned by the update loop alone.
type session struct {
	resolver *services.Resolver
	shop     models.Shop

	mu        sync.Mutex
	items     []models.MenuItem
	cart      *services.Cart
	menuMsgID int

	await       string // "", "name", "table"
	pendingName string
}

// New wires the bot. carts doubles as the vendor's local scalar store.
func New(api *tgbotapi.BotAPI, store catalog.LiveStore, carts services.ScalarStore,
	checkout *services.Checkout, orders services.OrderLog, cfg *config.Config, log *zap.Logger) *Bot {
	b := &Bot{
		api:      api,
		store:    store,
		carts:    carts,
		checkout: checkout,
		orders:   orders,
		cfg:      cfg,
		log:      log,
		sessions: make(map[int64]*session),
	}
	if id, ok, err := carts.Get("vendor-shop"); err == nil && ok {
		b.vendorShopID = strings.TrimSpace(id)
	}
	return b
}

// Start runs the long-poll loop until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.stopSessions()
			return
		case update, ok := <-updates:
			if !ok {
				b.stopSessions()
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		cmd, args := msg.Command(), strings.TrimSpace(msg.CommandArguments())
		if b.isVendor(chatID) && b.handleVendorCommand(ctx, chatID, cmd, args) {
			return
		}
		switch cmd {
		case "start", "menu":
			if args == "" {
				b.reply(chatID, "Open a menu with the shop's QR code, or send /menu <shop-slug>.")
				return
			}
			b.openShop(ctx, chatID, args)
		case "cart":
			b.showCart(chatID)
		default:
			b.reply(chatID, "Unknown command.")
		}
		return
	}

	// Plain text only matters mid-checkout.
	b.handleCheckoutInput(ctx, chatID, strings.TrimSpace(msg.Text))
}

func (b *Bot) isVendor(chatID int64) bool {
	return b.cfg.Telegram.VendorChat != 0 && chatID == b.cfg.Telegram.VendorChat
}

func (b *Bot) session(chatID int64) *session {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sessions[chatID]
}

func (b *Bot) setSession(chatID int64, s *session) *session {
	b.mu.Lock()
	prev := b.sessions[chatID]
	b.sessions[chatID] = s
	b.mu.Unlock()
	if prev != nil && prev.resolver != nil {
		prev.resolver.Stop()
	}
	return s
}

func (b *Bot) stopSessions() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.sessions {
		if s.resolver != nil {
			s.resolver.Stop()
		}
	}
	b.sessions = make(map[int64]*session)
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Warn("send reply", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
