package reminders

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/smith3v/tg-sub-reminder/pkg/db"
	"github.com/smith3v/tg-sub-reminder/pkg/period"
)

const (
	// EveningHour is the fixed local hour of the due-today confirmation,
	// independent of the user's notify hour.
	EveningHour = 20

	// minuteWindow widens the "on the hour" check to an inclusive [0,2)
	// minute range so a polling tick landing a little after :00 still
	// counts. The ledger keeps the widened window from double-sending.
	minuteWindow = 2
)

const (
	ClassMorning = "morning"
	ClassEvening = "evening"
	ClassWeekly  = "weekly"
)

// Decision names one reminder class due this minute for a subscription.
type Decision struct {
	Class  string
	Offset int // day offset for pre-reminders, 0 otherwise
}

func onTheHour(localNow time.Time, hour int) bool {
	return localNow.Hour() == hour && localNow.Minute() < minuteWindow
}

// EvaluateSubscription decides which reminder classes fire for one
// subscription at the given user-local minute. Decisions are
// independent; zero or several may be returned.
func EvaluateSubscription(localNow time.Time, notifyHour, daysUntilDue int, offsets []int) []Decision {
	var decisions []Decision

	atNotifyHour := onTheHour(localNow, notifyHour)
	for _, offset := range offsets {
		if offset > 0 && daysUntilDue == offset && atNotifyHour {
			decisions = append(decisions, Decision{
				Class:  fmt.Sprintf("pre-%d", offset),
				Offset: offset,
			})
		}
	}

	if daysUntilDue == 0 && atNotifyHour {
		decisions = append(decisions, Decision{Class: ClassMorning})
	}

	// Fires independently of the morning reminder even when the notify
	// hour is set to 20.
	if daysUntilDue == 0 && onTheHour(localNow, EveningHour) {
		decisions = append(decisions, Decision{Class: ClassEvening})
	}

	return decisions
}

// WeeklyDigestDue reports whether the user-level Monday digest fires
// this minute.
func WeeklyDigestDue(localNow time.Time, notifyHour int) bool {
	return localNow.Weekday() == time.Monday && onTheHour(localNow, notifyHour)
}

// UpcomingWithinWeek selects the digest content: subscriptions due in
// the next 0 to 6 local days, soonest first.
func UpcomingWithinWeek(subs []db.Subscription, utcNow time.Time, loc *time.Location) []db.Subscription {
	var upcoming []db.Subscription
	for _, sub := range subs {
		diff := period.DaysBetween(utcNow, sub.NextDue, loc)
		if diff >= 0 && diff <= 6 {
			upcoming = append(upcoming, sub)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].NextDue.Before(upcoming[j].NextDue)
	})
	return upcoming
}

// ResolveOffsets returns the subscription's offset override when set,
// else the user default. Malformed stored data degrades to no offsets.
func ResolveOffsets(user db.User, sub db.Subscription) []int {
	if offsets := db.ParseOffsets(sub.Offsets); offsets != nil {
		return offsets
	}
	return db.ParseOffsets(user.DefaultOffsets)
}

// BuildKey composes a ledger key. The format is the dedup contract:
// {userID}|{subscriptionID or "weekly"}|{class}|{yyyy-MM-dd}.
func BuildKey(userID int64, subPart, class, dateKey string) string {
	return strconv.FormatInt(userID, 10) + "|" + subPart + "|" + class + "|" + dateKey
}

// SubscriptionKeyPart formats the subscription slot of a ledger key.
func SubscriptionKeyPart(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
