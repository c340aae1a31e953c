package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var currencySymbols = map[string]string{
	"RUB": "₽",
	"EUR": "€",
	"USD": "$",
	"KZT": "₸",
	"BYN": "Br",
}

func EscapeHTML(value string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(value)
}

// Currency renders an amount with its currency symbol, dropping the
// fraction when it is a whole number: 249 ₽, 9.99 $.
func Currency(amount float64, currency string) string {
	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = currency
	}
	if amount == math.Trunc(amount) {
		return fmt.Sprintf("%.0f %s", amount, symbol)
	}
	return fmt.Sprintf("%.2f %s", amount, symbol)
}

func PluralDays(value int) string {
	if value == 1 || value == -1 {
		return "day"
	}
	return "days"
}

// NormalizeAmount parses user money input, accepting a comma decimal
// separator. Returns false for non-positive or unparseable values.
func NormalizeAmount(value string) (float64, bool) {
	normalized := strings.ReplaceAll(strings.TrimSpace(value), " ", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")
	amount, err := strconv.ParseFloat(normalized, 64)
	if err != nil || amount <= 0 {
		return 0, false
	}
	return math.Round(amount*100) / 100, true
}

// ShortDate renders a calendar date as "2 Jan, Mon". The date is
// formatted as stored: due dates are timezone-naive calendar dates, so
// no zone conversion happens here.
func ShortDate(date time.Time) string {
	return date.Format("2 Jan, Mon")
}

// DateWithYear renders a calendar date as "02.01.2006".
func DateWithYear(date time.Time) string {
	return date.Format("02.01.2006")
}
