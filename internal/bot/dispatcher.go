package bot

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"Domain_Monitor/internal/logger"
	"Domain_Monitor/internal/models"
	"Domain_Monitor/internal/monitor"
	"Domain_Monitor/internal/users"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Client is the subset of the Telegram client the dispatcher uses
type Client interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Dispatcher handles bot commands: subscription management for everyone,
// monitoring control for admins. The per-user cooldown state is an explicit
// mapping owned here, guarded by a mutex.
type Dispatcher struct {
	client   Client
	monitor  monitor.Service
	users    users.Service
	logger   logger.Service
	adminIDs map[int64]struct{}

	cooldown  time.Duration
	lastCalls map[int64]time.Time
	mutex     sync.Mutex
}

// NewDispatcher creates a new bot command dispatcher
func NewDispatcher(
	client Client,
	monitor monitor.Service,
	users users.Service,
	logger logger.Service,
	adminIDs []int64,
	cooldown time.Duration,
) *Dispatcher {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}

	return &Dispatcher{
		client:    client,
		monitor:   monitor,
		users:     users,
		logger:    logger,
		adminIDs:  admins,
		cooldown:  cooldown,
		lastCalls: make(map[int64]time.Time),
	}
}

// Run consumes updates until the context is cancelled
func (d *Dispatcher) Run(ctx context.Context) {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30

	updates := d.client.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			d.handleCommand(ctx, update.Message)
		}
	}
}

// handleCommand dispatches a single command message
func (d *Dispatcher) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID
	cmdCtx := logger.WithLogEvent(ctx, logger.NewCommandLogEvent(strconv.FormatInt(userID, 10)))

	d.logger.LogInfo(cmdCtx, logger.OpBotCommand, "Received bot command", map[string]interface{}{
		"command": message.Command(),
		"user_id": userID,
	})

	switch message.Command() {
	case "start":
		d.handleStart(cmdCtx, message)
	case "stop":
		d.handleStop(cmdCtx, message)
	case "status":
		d.reply(cmdCtx, message.Chat.ID, fmt.Sprintf("The bot is delivering notifications to %d subscribers.", d.users.Count()))
	case "check":
		d.handleCheck(cmdCtx, message)
	case "check_test":
		d.handleCheckTest(cmdCtx, message)
	case "add_domain":
		d.handleAddDomain(cmdCtx, message)
	case "remove_domain":
		d.handleRemoveDomain(cmdCtx, message)
	}
}

func (d *Dispatcher) handleStart(ctx context.Context, message *tgbotapi.Message) {
	if !d.allowCall(ctx, message) {
		return
	}

	if d.users.Add(message.From.ID) {
		d.reply(ctx, message.Chat.ID, "You are now subscribed to domain change notifications.")
	} else {
		d.reply(ctx, message.Chat.ID, "You are already subscribed.")
	}
}

func (d *Dispatcher) handleStop(ctx context.Context, message *tgbotapi.Message) {
	if !d.allowCall(ctx, message) {
		return
	}

	if d.users.Remove(message.From.ID) {
		d.reply(ctx, message.Chat.ID, "You are unsubscribed from domain change notifications.")
	} else {
		d.reply(ctx, message.Chat.ID, "You were not subscribed.")
	}
}

func (d *Dispatcher) handleCheck(ctx context.Context, message *tgbotapi.Message) {
	if !d.requireAdmin(ctx, message) {
		return
	}

	d.reply(ctx, message.Chat.ID, "Change check started...")
	if _, err := d.monitor.CheckForChanges(ctx); err != nil {
		d.reply(ctx, message.Chat.ID, "Change check failed, see the admin report.")
		return
	}
	d.reply(ctx, message.Chat.ID, "Change check completed.")
}

func (d *Dispatcher) handleCheckTest(ctx context.Context, message *tgbotapi.Message) {
	if !d.requireAdmin(ctx, message) {
		return
	}

	d.reply(ctx, message.Chat.ID, "Test check started...")
	if _, err := d.monitor.RunTestCycle(ctx); err != nil {
		d.reply(ctx, message.Chat.ID, "Test check failed, see the admin report.")
		return
	}
	d.reply(ctx, message.Chat.ID, "Test check completed.")
}

func (d *Dispatcher) handleAddDomain(ctx context.Context, message *tgbotapi.Message) {
	if !d.requireAdmin(ctx, message) {
		return
	}

	domain := message.CommandArguments()
	if domain == "" {
		d.reply(ctx, message.Chat.ID, "Usage: /add_domain <domain>")
		return
	}

	if err := d.monitor.AddDomain(ctx, domain); err != nil {
		d.logger.LogError(ctx, logger.OpBotCommand, domain, "Failed to add domain", err, models.LogSeverityMedium, nil)
		d.reply(ctx, message.Chat.ID, "Invalid domain or source update failed.")
		return
	}
	d.reply(ctx, message.Chat.ID, fmt.Sprintf("Domain %s added and subscribers notified.", domain))
}

func (d *Dispatcher) handleRemoveDomain(ctx context.Context, message *tgbotapi.Message) {
	if !d.requireAdmin(ctx, message) {
		return
	}

	domain := message.CommandArguments()
	if domain == "" {
		d.reply(ctx, message.Chat.ID, "Usage: /remove_domain <domain>")
		return
	}

	if err := d.monitor.RemoveDomain(ctx, domain); err != nil {
		d.logger.LogError(ctx, logger.OpBotCommand, domain, "Failed to remove domain", err, models.LogSeverityMedium, nil)
		d.reply(ctx, message.Chat.ID, "Invalid domain or source update failed.")
		return
	}
	d.reply(ctx, message.Chat.ID, fmt.Sprintf("Domain %s removed and subscribers notified.", domain))
}

// isAdmin reports whether the user is a configured administrator
func (d *Dispatcher) isAdmin(userID int64) bool {
	_, ok := d.adminIDs[userID]
	return ok
}

// requireAdmin replies with a refusal for non-admins
func (d *Dispatcher) requireAdmin(ctx context.Context, message *tgbotapi.Message) bool {
	if d.isAdmin(message.From.ID) {
		return true
	}
	d.reply(ctx, message.Chat.ID, "You are not allowed to run this command.")
	return false
}

// allowCall enforces the per-user command cooldown; admins bypass it
func (d *Dispatcher) allowCall(ctx context.Context, message *tgbotapi.Message) bool {
	userID := message.From.ID
	if d.isAdmin(userID) {
		return true
	}

	d.mutex.Lock()
	last, seen := d.lastCalls[userID]
	now := time.Now()
	if seen && now.Sub(last) < d.cooldown {
		d.mutex.Unlock()
		wait := d.cooldown - now.Sub(last)
		d.logger.LogInfo(ctx, logger.OpRateLimited, "Command cooldown hit", map[string]interface{}{
			"user_id": userID,
		})
		d.reply(ctx, message.Chat.ID, fmt.Sprintf("Please wait %d seconds before using this command again.", int(wait.Seconds())+1))
		return false
	}
	d.lastCalls[userID] = now
	d.mutex.Unlock()
	return true
}

// reply sends a plain response to a chat
func (d *Dispatcher) reply(ctx context.Context, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := d.client.Send(msg); err != nil {
		d.logger.LogError(ctx, logger.OpBotCommand, "", "Failed to send reply", err, models.LogSeverityLow, map[string]interface{}{
			"chat_id": chatID,
		})
	}
}
