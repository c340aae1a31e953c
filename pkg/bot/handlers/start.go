package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-sub-reminder/pkg/db"
	"github.com/smith3v/tg-sub-reminder/pkg/logger"
)

func HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil {
		logger.Error("invalid update in HandleStart")
		return
	}

	user, err := db.EnsureUser(update.Message.From.ID)
	if err != nil {
		logger.Error("failed to ensure user", "user_id", update.Message.From.ID, "error", err)
		sendText(ctx, b, update.Message.Chat.ID, retryLaterText)
		return
	}

	text := fmt.Sprintf(
		"Hi! I keep track of your subscriptions and remind you before each payment.\n\n"+
			"• /list — your subscriptions\n"+
			"• /settings — reminder time, timezone and default offsets\n\n"+
			"Reminders arrive at %02d:00 (%s). Change that any time in /settings.",
		user.NotifyHour, user.TZ)
	sendText(ctx, b, update.Message.Chat.ID, text)
}

func HandleDefault(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil {
		return
	}
	sendText(ctx, b, update.Message.Chat.ID,
		"I didn't get that. Try /list or /settings.")
}

func sendText(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}); err != nil {
		logger.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}
