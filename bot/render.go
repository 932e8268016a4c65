package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"qrmenu/models"
	"qrmenu/services"
)

// menuText renders the shop's menu grouped by category, in catalog
// order within each group.
func menuText(shop models.Shop, items []models.MenuItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n", shop.Name)

	if len(items) == 0 {
		b.WriteString("\nThe menu is empty right now.")
		return b.String()
	}

	for _, cat := range categoriesOf(items) {
		fmt.Fprintf(&b, "\n_%s_\n", cat)
		for _, it := range items {
			if it.Category != cat {
				continue
			}
			if it.Available {
				fmt.Fprintf(&b, "%s — %s%d\n", it.Name, shop.Currency, it.Price)
			} else {
				fmt.Fprintf(&b, "%s — sold out\n", it.Name)
			}
			if it.Description != "" {
				fmt.Fprintf(&b, "  %s\n", it.Description)
			}
		}
	}
	return b.String()
}

// categoriesOf lists categories in first-appearance order.
func categoriesOf(items []models.MenuItem) []string {
	var cats []string
	seen := make(map[string]bool)
	for _, it := range items {
		if !seen[it.Category] {
			seen[it.Category] = true
			cats = append(cats, it.Category)
		}
	}
	return cats
}

func menuKeyboard(items []models.MenuItem, cart *services.Cart) tgbotapi.InlineKeyboardMarkup {
	qty := make(map[string]int)
	for _, l := range cart.Lines() {
		qty[l.Item.ID] = l.Qty
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, it := range items {
		if !it.Available {
			continue
		}
		label := it.Name
		if n := qty[it.ID]; n > 0 {
			label = fmt.Sprintf("%s ×%d", it.Name, n)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➖", "sub:"+it.ID),
			tgbotapi.NewInlineKeyboardButtonData(label, "noop:"),
			tgbotapi.NewInlineKeyboardButtonData("➕", "add:"+it.ID),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🛒 Cart (%d)", cart.Count()), "cart:"),
		tgbotapi.NewInlineKeyboardButtonData("✅ Checkout", "checkout:"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func cartText(shop models.Shop, cart *services.Cart) string {
	var b strings.Builder
	b.WriteString("*Your order*\n\n")
	for _, l := range cart.Lines() {
		fmt.Fprintf(&b, "%d x %s — %s%d\n", l.Qty, l.Item.Name, shop.Currency, l.Item.Price*int64(l.Qty))
	}
	fmt.Fprintf(&b, "\n*Total: %s%d*", shop.Currency, cart.Total())
	return b.String()
}

func cartKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Clear", "clear:"),
			tgbotapi.NewInlineKeyboardButtonData("✅ Checkout", "checkout:"),
		),
	)
}

func splitCallback(data string) (action, arg string) {
	action, arg, _ = strings.Cut(data, ":")
	return action, arg
}

func findItem(items []models.MenuItem, id string) (models.MenuItem, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return models.MenuItem{}, false
}
