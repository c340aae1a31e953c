package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-sub-reminder/pkg/db"
	"github.com/smith3v/tg-sub-reminder/pkg/format"
	"github.com/smith3v/tg-sub-reminder/pkg/logger"
	"github.com/smith3v/tg-sub-reminder/pkg/period"
	"github.com/smith3v/tg-sub-reminder/pkg/ui"
)

const retryLaterText = "Something went wrong. Please try again later."

// HandleReminderCallback reacts to the buttons attached to reminder
// messages: mark-paid, skip-cycle, and the snooze flow.
func HandleReminderCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.CallbackQuery == nil {
		logger.Error("invalid update in HandleReminderCallback")
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

	action, err := ui.ParseReminderCallback(update.CallbackQuery.Data)
	if err != nil {
		logger.Error("failed to parse reminder callback", "data", update.CallbackQuery.Data, "error", err)
		answerCallback("Unknown command")
		return
	}

	message := update.CallbackQuery.Message
	if message.Type != models.MaybeInaccessibleMessageTypeMessage || message.Message == nil {
		logger.Error("callback query message is inaccessible", "user_id", update.CallbackQuery.From.ID)
		answerCallback("Message is not available")
		return
	}
	msg := message.Message
	chatID := msg.Chat.ID
	userID := update.CallbackQuery.From.ID

	if action.Kind == ui.KindCancel {
		answerCallback("")
		editOrSend(ctx, b, chatID, msg.ID, "Okay, left as is.")
		return
	}

	sub, err := db.GetSubscriptionByID(action.SubscriptionID)
	if err != nil {
		logger.Error("failed to load subscription", "subscription_id", action.SubscriptionID, "error", err)
		answerCallback(retryLaterText)
		return
	}
	if sub == nil || sub.UserID != userID {
		answerCallback("Subscription not found")
		return
	}
	user, err := db.GetUserByID(userID)
	if err != nil || user == nil {
		logger.Error("failed to load user for callback", "user_id", userID, "error", err)
		answerCallback(retryLaterText)
		return
	}

	switch action.Kind {
	case ui.KindMarkPaid:
		answerCallback("")
		advanceCycle(ctx, b, chatID, msg.ID, sub, user, db.StatusPaid)
	case ui.KindSkipCycle:
		answerCallback("")
		advanceCycle(ctx, b, chatID, msg.ID, sub, user, db.StatusSkipped)
	case ui.KindSnoozePrompt:
		answerCallback("")
		sendSnoozePrompt(ctx, b, chatID, sub)
	case ui.KindSnoozeDays:
		answerCallback("")
		snooze(ctx, b, chatID, msg.ID, sub, user, action.Days)
	default:
		answerCallback("Unknown command")
	}
}

// advanceCycle moves the due date one period forward and records the
// paid/skipped fact dated today in the user's timezone.
func advanceCycle(ctx context.Context, b *bot.Bot, chatID int64, messageID int, sub *db.Subscription, user *db.User, status string) {
	p, err := period.ParsePeriod(sub.Period)
	if err != nil {
		logger.Error("subscription has invalid period", "subscription_id", sub.ID, "period", sub.Period)
		editOrSend(ctx, b, chatID, messageID, retryLaterText)
		return
	}

	next := period.AdvancePeriod(period.DateOnly(sub.NextDue), p)
	if _, err := db.UpdateSubscription(sub.ID, db.SubscriptionUpdates{NextDue: &next}); err != nil {
		logger.Error("failed to advance due date", "subscription_id", sub.ID, "error", err)
		editOrSend(ctx, b, chatID, messageID, retryLaterText)
		return
	}
	if err := db.LogSubscriptionEvent(sub.ID, localToday(user.TZ, time.Now()), status); err != nil {
		logger.Error("failed to log subscription event", "subscription_id", sub.ID, "status", status, "error", err)
	}

	var text string
	if status == db.StatusPaid {
		text = fmt.Sprintf("✅ %s — marked as paid. Next due date: %s",
			format.EscapeHTML(sub.Name), format.ShortDate(next))
	} else {
		text = fmt.Sprintf("⏭️ %s — cycle skipped. New due date: %s",
			format.EscapeHTML(sub.Name), format.ShortDate(next))
	}
	editOrSend(ctx, b, chatID, messageID, text)
}

func sendSnoozePrompt(ctx context.Context, b *bot.Bot, chatID int64, sub *db.Subscription) {
	keyboard, err := ui.SnoozeKeyboard(sub.ID)
	if err != nil {
		logger.Error("failed to build snooze keyboard", "subscription_id", sub.ID, "error", err)
		return
	}
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        "Snooze for how many days?",
		ReplyMarkup: keyboard,
	}); err != nil {
		logger.Error("failed to send snooze prompt", "chat_id", chatID, "error", err)
	}
}

// snooze shifts the due date by whole days without recording an event
// or advancing a full period.
func snooze(ctx context.Context, b *bot.Bot, chatID int64, messageID int, sub *db.Subscription, user *db.User, days int) {
	newDate := period.AddDays(period.DateOnly(sub.NextDue), days)
	shifted, err := db.ShiftNextDue(sub.ID, user.UserID, newDate)
	if err != nil || shifted == nil {
		logger.Error("failed to snooze subscription", "subscription_id", sub.ID, "error", err)
		editOrSend(ctx, b, chatID, messageID, retryLaterText)
		return
	}
	editOrSend(ctx, b, chatID, messageID, fmt.Sprintf("🕒 %s — moved to %s",
		format.EscapeHTML(sub.Name), format.ShortDate(newDate)))
}

// MarkPaidOnDate records a back-dated payment and recomputes the next
// due date from the payment date rather than the current one. The
// conversational entry point lives outside this package.
func MarkPaidOnDate(subscriptionID uint, paymentDate time.Time) (*db.Subscription, error) {
	sub, err := db.GetSubscriptionByID(subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, fmt.Errorf("subscription %d not found", subscriptionID)
	}
	p, err := period.ParsePeriod(sub.Period)
	if err != nil {
		return nil, err
	}

	paid := period.DateOnly(paymentDate)
	if err := db.LogSubscriptionEvent(sub.ID, paid, db.StatusPaid); err != nil {
		return nil, err
	}
	next := period.AdvancePeriod(paid, p)
	return db.UpdateSubscription(sub.ID, db.SubscriptionUpdates{NextDue: &next})
}

// editOrSend edits the original reminder message, falling back to a
// plain send when the message has been deleted or is too old to edit.
func editOrSend(ctx context.Context, b *bot.Bot, chatID int64, messageID int, text string) {
	_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err == nil {
		return
	}
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}); err != nil {
		logger.Error("failed to send fallback message", "chat_id", chatID, "error", err)
	}
}

func localToday(tz string, now time.Time) time.Time {
	return period.DateOnly(now.In(location(tz)))
}

func location(tz string) *time.Location {
	if tz == "" {
		tz = db.DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc, err = time.LoadLocation(db.DefaultTimezone)
		if err != nil {
			return time.UTC
		}
	}
	return loc
}
