package notifier

import (
	"context"

	"Domain_Monitor/internal/logger"
	"Domain_Monitor/internal/models"
	"Domain_Monitor/internal/users"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MessageSender is the subset of the Telegram client the notifier uses
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier implements Service over the Telegram Bot API
type TelegramNotifier struct {
	sender   MessageSender
	users    users.Service
	adminIDs []int64
	logger   logger.Service
}

// NewTelegramNotifier creates a new Telegram-backed notifier
func NewTelegramNotifier(sender MessageSender, users users.Service, adminIDs []int64, logger logger.Service) Service {
	return &TelegramNotifier{
		sender:   sender,
		users:    users,
		adminIDs: adminIDs,
		logger:   logger,
	}
}

// SendToAdmins delivers the text to every configured admin chat
func (t *TelegramNotifier) SendToAdmins(ctx context.Context, text string) {
	t.broadcast(ctx, t.adminIDs, text)
}

// SendToSubscribers delivers the text to every subscribed user
func (t *TelegramNotifier) SendToSubscribers(ctx context.Context, text string) {
	t.broadcast(ctx, t.users.List(), text)
}

// broadcast sends the text to each chat, skipping failed recipients
func (t *TelegramNotifier) broadcast(ctx context.Context, chatIDs []int64, text string) {
	for _, chatID := range chatIDs {
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ParseMode = tgbotapi.ModeMarkdown

		if _, err := t.sender.Send(msg); err != nil {
			t.logger.LogError(ctx, logger.OpNotify, "", "Failed to deliver notification", err, models.LogSeverityLow, map[string]interface{}{
				"chat_id": chatID,
			})
			continue
		}
	}

	t.logger.LogSuccess(ctx, logger.OpNotify, "", "Notification broadcast finished", map[string]interface{}{
		"recipients": len(chatIDs),
	})
}
