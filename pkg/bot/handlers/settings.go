package handlers

import (
	"context"
	"sort"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-sub-reminder/pkg/db"
	"github.com/smith3v/tg-sub-reminder/pkg/logger"
	"github.com/smith3v/tg-sub-reminder/pkg/ui"
	"gorm.io/datatypes"
)

// TimezoneChoices is the cycle the timezone button walks through.
var TimezoneChoices = []string{
	"Europe/Moscow",
	"Europe/Berlin",
	"Europe/London",
	"UTC",
	"Asia/Almaty",
	"Asia/Yekaterinburg",
}

func HandleSettings(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil {
		logger.Error("invalid update in HandleSettings")
		return
	}
	chatID := update.Message.Chat.ID

	user, err := db.EnsureUser(update.Message.From.ID)
	if err != nil {
		logger.Error("failed to ensure user", "user_id", update.Message.From.ID, "error", err)
		sendText(ctx, b, chatID, retryLaterText)
		return
	}

	text, keyboard, err := ui.RenderSettingsHome(user.NotifyHour, user.TZ, db.ParseOffsets(user.DefaultOffsets))
	if err != nil {
		logger.Error("failed to render settings", "error", err)
		sendText(ctx, b, chatID, retryLaterText)
		return
	}
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: keyboard,
	}); err != nil {
		logger.Error("failed to send settings", "chat_id", chatID, "error", err)
	}
}

func HandleSettingsCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.CallbackQuery == nil {
		logger.Error("invalid update in HandleSettingsCallback")
		return
	}

	callbackID := update.CallbackQuery.ID
	answered := false
	answerCallback := func(text string) {
		if answered || callbackID == "" {
			return
		}
		if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: callbackID,
			Text:            text,
		}); err != nil {
			logger.Error("failed to answer callback query", "error", err)
		}
		answered = true
	}

	action, err := ui.ParseSettingsCallback(update.CallbackQuery.Data)
	if err != nil {
		logger.Error("failed to parse settings callback", "data", update.CallbackQuery.Data, "error", err)
		answerCallback("Unknown command")
		return
	}

	message := update.CallbackQuery.Message
	if message.Type != models.MaybeInaccessibleMessageTypeMessage || message.Message == nil {
		answerCallback("Message is not available")
		return
	}
	msg := message.Message
	userID := update.CallbackQuery.From.ID

	if action.Screen == ui.ScreenClose {
		answerCallback("")
		editOrSend(ctx, b, msg.Chat.ID, msg.ID, "Settings saved.")
		return
	}

	user, err := db.EnsureUser(userID)
	if err != nil {
		logger.Error("failed to ensure user", "user_id", userID, "error", err)
		answerCallback(retryLaterText)
		return
	}

	if updates, changed := ApplySettingsAction(user, action); changed {
		user, err = db.UpdateUser(userID, updates)
		if err != nil {
			logger.Error("failed to update settings", "user_id", userID, "error", err)
			answerCallback(retryLaterText)
			return
		}
	}
	answerCallback("")

	text, keyboard, err := ui.RenderSettingsHome(user.NotifyHour, user.TZ, db.ParseOffsets(user.DefaultOffsets))
	if err != nil {
		logger.Error("failed to render settings", "error", err)
		return
	}
	if _, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: keyboard,
	}); err != nil {
		logger.Error("failed to edit settings message", "chat_id", msg.Chat.ID, "error", err)
	}
}

// ApplySettingsAction turns a decoded settings button press into the
// user update it implies. The bool reports whether anything changed.
func ApplySettingsAction(user *db.User, action ui.SettingsAction) (db.UserUpdates, bool) {
	switch action.Op {
	case ui.OpHourInc:
		hour := (user.NotifyHour + 1) % 24
		return db.UserUpdates{NotifyHour: &hour}, true
	case ui.OpHourDec:
		hour := (user.NotifyHour + 23) % 24
		return db.UserUpdates{NotifyHour: &hour}, true
	case ui.OpTimezoneNext:
		tz := nextTimezone(user.TZ)
		return db.UserUpdates{TZ: &tz}, true
	case ui.OpOffsetToggle:
		encoded := toggleOffset(user.DefaultOffsets, action.Value)
		return db.UserUpdates{DefaultOffsets: &encoded}, true
	default:
		return db.UserUpdates{}, false
	}
}

func nextTimezone(current string) string {
	for i, tz := range TimezoneChoices {
		if tz == current {
			return TimezoneChoices[(i+1)%len(TimezoneChoices)]
		}
	}
	return TimezoneChoices[0]
}

func toggleOffset(raw datatypes.JSON, days int) datatypes.JSON {
	current := db.ParseOffsets(raw)
	next := make([]int, 0, len(current)+1)
	removed := false
	for _, offset := range current {
		if offset == days {
			removed = true
			continue
		}
		next = append(next, offset)
	}
	if !removed {
		next = append(next, days)
		sort.Ints(next)
	}
	return db.EncodeOffsets(next)
}
