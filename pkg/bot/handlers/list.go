package handlers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-sub-reminder/pkg/db"
	"github.com/smith3v/tg-sub-reminder/pkg/format"
	"github.com/smith3v/tg-sub-reminder/pkg/logger"
	"github.com/smith3v/tg-sub-reminder/pkg/period"
)

const paidEventLookback = 365 // days

func HandleList(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil {
		logger.Error("invalid update in HandleList")
		return
	}
	chatID := update.Message.Chat.ID

	if _, err := db.EnsureUser(update.Message.From.ID); err != nil {
		logger.Error("failed to ensure user", "user_id", update.Message.From.ID, "error", err)
		sendText(ctx, b, chatID, retryLaterText)
		return
	}
	subs, err := db.ListSubscriptionsForUser(update.Message.From.ID)
	if err != nil {
		logger.Error("failed to list subscriptions", "user_id", update.Message.From.ID, "error", err)
		sendText(ctx, b, chatID, retryLaterText)
		return
	}
	if len(subs) == 0 {
		sendText(ctx, b, chatID, "Nothing here yet. Add your first subscription and I'll keep an eye on it.")
		return
	}

	subs = catchUpDueDates(subs, time.Now())
	sendText(ctx, b, chatID, renderList(subs))
}

// catchUpDueDates advances due dates that payments have already covered,
// persisting each advance. A stale date can survive a missed button
// press when the payment itself was recorded later.
func catchUpDueDates(subs []db.Subscription, now time.Time) []db.Subscription {
	ids := make([]uint, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.ID)
	}
	events, err := db.GetLatestPaidEvents(ids, period.AddDays(period.DateOnly(now), -paidEventLookback))
	if err != nil {
		logger.Error("failed to load paid events", "error", err)
		return subs
	}

	// events arrive newest-first per subscription
	latestPaid := make(map[uint]time.Time, len(events))
	for _, ev := range events {
		if _, ok := latestPaid[ev.SubscriptionID]; !ok {
			latestPaid[ev.SubscriptionID] = ev.EventDate
		}
	}

	for i := range subs {
		paid, ok := latestPaid[subs[i].ID]
		if !ok {
			continue
		}
		p, err := period.ParsePeriod(subs[i].Period)
		if err != nil {
			continue
		}
		next := period.RollForward(period.DateOnly(subs[i].NextDue), p, paid)
		if next.Equal(period.DateOnly(subs[i].NextDue)) {
			continue
		}
		if _, err := db.UpdateSubscription(subs[i].ID, db.SubscriptionUpdates{NextDue: &next}); err != nil {
			logger.Error("failed to roll due date forward", "subscription_id", subs[i].ID, "error", err)
			continue
		}
		subs[i].NextDue = next
	}
	return subs
}

func renderList(subs []db.Subscription) string {
	var monthly, yearly []db.Subscription
	for _, sub := range subs {
		if sub.Period == string(period.Yearly) {
			yearly = append(yearly, sub)
		} else {
			monthly = append(monthly, sub)
		}
	}

	var sb strings.Builder
	sb.WriteString("<b>Your subscriptions</b>\n")
	writeGroup(&sb, "Monthly", monthly)
	writeGroup(&sb, "Yearly", yearly)
	return strings.TrimRight(sb.String(), "\n")
}

func writeGroup(sb *strings.Builder, title string, subs []db.Subscription) {
	if len(subs) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n<b>%s</b>\n", title)
	for _, sub := range subs {
		fmt.Fprintf(sb, "• %s — %s, next on %s\n",
			format.EscapeHTML(sub.Name),
			format.Currency(sub.Amount, sub.Currency),
			format.ShortDate(period.DateOnly(sub.NextDue)))
	}
	fmt.Fprintf(sb, "Total: %s\n", groupTotal(subs))
}

func groupTotal(subs []db.Subscription) string {
	totals := make(map[string]float64)
	for _, sub := range subs {
		totals[sub.Currency] += sub.Amount
	}
	currencies := make([]string, 0, len(totals))
	for currency := range totals {
		currencies = append(currencies, currency)
	}
	sort.Strings(currencies)

	parts := make([]string, 0, len(currencies))
	for _, currency := range currencies {
		parts = append(parts, format.Currency(totals[currency], currency))
	}
	return strings.Join(parts, " + ")
}
