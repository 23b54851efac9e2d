// Package telegram posts complaint notifications to an admin chat through the
// Telegram Bot API.
package telegram

import (
	"civicconnect/backend/internal/lifecycle"
	"civicconnect/backend/internal/localization"
	"civicconnect/backend/internal/models"
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of *tgbotapi.BotAPI the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier implements notify.Notifier for a single chat.
type Notifier struct {
	Bot       Sender
	ChatID    int64
	Localizer *localization.Localizer
	Lang      string
}

// NewNotifier authorizes the bot token and targets chatID.
func NewNotifier(token string, chatID int64, l *localization.Localizer) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize telegram bot: %w", err)
	}
	bot.Debug = false
	return &Notifier{Bot: bot, ChatID: chatID, Localizer: l, Lang: localization.DefaultLanguage}, nil
}

func (n *Notifier) ComplaintCreated(_ context.Context, c models.Complaint) error {
	text := n.Localizer.Format(n.Lang, "telegram.complaint_created",
		c.ID, c.Category, c.Address, c.Description)
	return n.send(text)
}

func (n *Notifier) StatusUpdated(_ context.Context, id string, status models.Status) error {
	text := n.Localizer.Format(n.Lang, "telegram.status_updated", id, lifecycle.Label(status))
	return n.send(text)
}

func (n *Notifier) send(text string) error {
	msg := tgbotapi.NewMessage(n.ChatID, text)
	if _, err := n.Bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram notification: %w", err)
	}
	return nil
}
