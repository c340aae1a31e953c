package reminders

import (
	"fmt"
	"sort"
	"strings"

	"github.com/smith3v/tg-sub-reminder/pkg/db"
	"github.com/smith3v/tg-sub-reminder/pkg/format"
)

func preReminderText(sub db.Subscription, daysBefore int) string {
	return fmt.Sprintf("Due in %d %s: %s — %s (%s).",
		daysBefore,
		format.PluralDays(daysBefore),
		format.EscapeHTML(sub.Name),
		format.Currency(sub.Amount, sub.Currency),
		format.ShortDate(sub.NextDue),
	)
}

func morningReminderText(sub db.Subscription) string {
	return fmt.Sprintf("Due today: %s — %s (%s).",
		format.EscapeHTML(sub.Name),
		format.Currency(sub.Amount, sub.Currency),
		format.ShortDate(sub.NextDue),
	)
}

func eveningCheckText(sub db.Subscription) string {
	return fmt.Sprintf("%s — %s is due today. Has the payment gone through?",
		format.EscapeHTML(sub.Name),
		format.Currency(sub.Amount, sub.Currency),
	)
}

// weeklyDigestText lists the week's upcoming charges with a per-currency
// total line. Callers must not invoke it with an empty slice.
func weeklyDigestText(upcoming []db.Subscription) string {
	lines := make([]string, 0, len(upcoming))
	totals := map[string]float64{}
	for _, sub := range upcoming {
		lines = append(lines, fmt.Sprintf("%s — %s %s",
			format.ShortDate(sub.NextDue),
			format.EscapeHTML(sub.Name),
			format.Currency(sub.Amount, sub.Currency),
		))
		totals[sub.Currency] += sub.Amount
	}

	currencies := make([]string, 0, len(totals))
	for currency := range totals {
		currencies = append(currencies, currency)
	}
	sort.Strings(currencies)

	totalParts := make([]string, 0, len(currencies))
	for _, currency := range currencies {
		totalParts = append(totalParts, format.Currency(totals[currency], currency))
	}

	var b strings.Builder
	b.WriteString("This week:\n\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\nWeek total: ")
	b.WriteString(strings.Join(totalParts, ", "))
	return b.String()
}
