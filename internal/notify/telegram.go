package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/MrSnakeDoc/scout/internal/domain"
)

// Notifier delivers price-drop alerts.
type Notifier interface {
	NotifyPriceDrop(listing *domain.Listing, oldPrice, newPrice float64) error
}

// TelegramNotifier sends alerts to a single Telegram chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier authenticates against the Telegram bot API.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (n *TelegramNotifier) NotifyPriceDrop(listing *domain.Listing, oldPrice, newPrice float64) error {
	drop := (oldPrice - newPrice) / oldPrice * 100

	text := fmt.Sprintf("💸 Price drop on %s\n%s: %.2f → %.2f (-%.1f%%)\n%s",
		listing.Platform, listing.Name, oldPrice, newPrice, drop, listing.ProductURL)

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.DisableWebPagePreview = true

	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}
