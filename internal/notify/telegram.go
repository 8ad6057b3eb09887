// Package notify delivers dispatcher alerts. The only transport today is a
// Telegram chat watched by the dispatch desk.
package notify

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Notifier sends an alert message to the dispatcher.
type Notifier interface {
	Alert(ctx context.Context, text string) error
}

type telegramClient interface {
	Send(tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts alerts to a fixed dispatcher chat, rate limited
// and with bounded retries.
type TelegramNotifier struct {
	tg         telegramClient
	chatID     int64
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
	logger     *zerolog.Logger
}

// NewTelegramNotifier creates a notifier from a bot token.
func NewTelegramNotifier(token string, chatID int64, logger *zerolog.Logger) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return newTelegramNotifier(api, chatID, logger), nil
}

func newTelegramNotifier(tg telegramClient, chatID int64, logger *zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		tg:     tg,
		chatID: chatID,
		// Telegram allows ~20 messages per minute to the same chat.
		limiter:    rate.NewLimiter(rate.Every(3*time.Second), 5),
		maxRetries: 3,
		retryDelay: 5 * time.Second,
		logger:     logger,
	}
}

// Alert sends the text to the dispatcher chat, retrying transient failures.
func (n *TelegramNotifier) Alert(ctx context.Context, text string) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	var lastErr error
	for attempt := 0; attempt <= n.maxRetries; attempt++ {
		_, err := n.tg.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt < n.maxRetries {
			n.logger.Info().
				Int("attempt", attempt+1).
				Err(lastErr).
				Msg("retrying dispatcher alert")
			select {
			case <-time.After(n.retryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return fmt.Errorf("send alert: %w", lastErr)
}
