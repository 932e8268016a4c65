package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"qrmenu/models"
	"qrmenu/services"
)

// The watcher goroutine and the update loop share a session; every
// access to the item snapshot, the cart and the menu message id goes
// through these methods. None of them call each other, so the lock is
// never taken twice.

func (s *session) setItems(items []models.MenuItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
}

func (s *session) findItem(id string) (models.MenuItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return findItem(s.items, id)
}

// renderMenu builds the menu text and keyboard from one consistent
// view of items and cart.
func (s *session) renderMenu() (string, tgbotapi.InlineKeyboardMarkup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return menuText(s.shop, s.items), menuKeyboard(s.items, s.cart)
}

func (s *session) setMenuMsg(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menuMsgID = id
}

func (s *session) menuMsg() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.menuMsgID
}

func (s *session) adjust(item models.MenuItem, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Adjust(item, delta)
}

func (s *session) clearCart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clear()
}

func (s *session) cartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Count()
}

func (s *session) cartView() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cartText(s.shop, s.cart)
}

// submit holds the lock across the whole checkout so the watcher can't
// re-render from a cart that is being formatted and cleared. The menu
// refresh just waits out the send.
func (s *session) submit(ctx context.Context, co *services.Checkout, name, table string) (models.OrderRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return co.Submit(ctx, s.cart, s.shop, name, table)
}
