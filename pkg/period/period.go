package period

import (
	"fmt"
	"strings"
	"time"
)

type Period string

const (
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

// RollForwardCap bounds the catch-up loop so corrupted or stalled due
// dates cannot spin it forever.
const RollForwardCap = 24

func ParsePeriod(value string) (Period, error) {
	switch Period(strings.ToLower(strings.TrimSpace(value))) {
	case Monthly:
		return Monthly, nil
	case Yearly:
		return Yearly, nil
	default:
		return "", fmt.Errorf("invalid period %q", value)
	}
}

// AdvancePeriod returns the next due date one period after due. The
// day-of-month is clamped to the last valid day of the target month, so
// Jan 31 advances to Feb 28 (or Feb 29 in a leap year) and a yearly
// Feb 29 lands on Feb 28 in non-leap target years.
func AdvancePeriod(due time.Time, p Period) time.Time {
	year, month, day := due.Date()

	switch p {
	case Yearly:
		year++
	default:
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}

	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// AddDays shifts a calendar date by a whole number of days.
func AddDays(date time.Time, days int) time.Time {
	year, month, day := date.Date()
	return time.Date(year, month, day+days, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole-day difference between now and due, both
// interpreted as calendar dates in loc. Negative means overdue. The
// dates are re-anchored at UTC midnight before subtracting so DST
// transitions cannot skew the count.
func DaysBetween(now, due time.Time, loc *time.Location) int {
	return int(midnightUTC(due.In(loc)).Sub(midnightUTC(now.In(loc))).Hours() / 24)
}

// DateKey formats the calendar date of t in loc as yyyy-MM-dd. Reminder
// ledger keys embed it, so the format must stay stable.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// RollForward advances next past every due date already covered by a
// payment made on paidThrough, at most RollForwardCap times.
func RollForward(next time.Time, p Period, paidThrough time.Time) time.Time {
	paid := midnightUTC(paidThrough)
	for i := 0; i < RollForwardCap && !paid.Before(midnightUTC(next)); i++ {
		next = AdvancePeriod(next, p)
	}
	return next
}

// DateOnly strips the time of day, re-anchoring the calendar date of t
// at UTC midnight.
func DateOnly(t time.Time) time.Time {
	return midnightUTC(t)
}

func midnightUTC(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
