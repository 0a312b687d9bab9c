package messaging

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram sends through the Bot API. Addresses are numeric chat ids.
type Telegram struct {
	bot *tgbotapi.BotAPI
}

// NewTelegram authenticates the bot. An empty endpoint selects the public
// Bot API.
func NewTelegram(token string, client *http.Client, endpoint string) (*Telegram, error) {
	if token == "" {
		return nil, errors.New("messaging: telegram token must not be empty")
	}
	if client == nil {
		client = http.DefaultClient
	}
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &Telegram{bot: bot}, nil
}

func (t *Telegram) SendInstant(ctx context.Context, address, body string, _ time.Duration) error {
	chatID, err := strconv.ParseInt(address, 10, 64)
	if err != nil {
		return fmt.Errorf("telegram chat id %q: %w", address, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := t.bot.Send(tgbotapi.NewMessage(chatID, body)); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
