package messenger

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram delivers order messages to a chat id. The shop's contact
// address is the decimal chat id string.
type Telegram struct {
	api *tgbotapi.BotAPI
}

func NewTelegram(api *tgbotapi.BotAPI) *Telegram {
	return &Telegram{api: api}
}

func (t *Telegram) Send(ctx context.Context, target, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	chatID, err := strconv.ParseInt(target, 10, 64)
	if err != nil {
		return fmt.Errorf("bad contact address %q: %w", target, err)
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("send order message: %w", err)
	}
	return nil
}
