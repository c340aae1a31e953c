package reminders

import (
	"context"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-sub-reminder/pkg/db"
	"github.com/smith3v/tg-sub-reminder/pkg/logger"
	"github.com/smith3v/tg-sub-reminder/pkg/period"
	"github.com/smith3v/tg-sub-reminder/pkg/ui"
)

const DefaultInterval = time.Minute

// Sender is the message dispatch collaborator. *bot.Bot satisfies it.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Scheduler owns the polling loop state. Instances are independent, so
// tests can run several side by side; cross-process dedup is the
// ledger's job, not the scheduler's.
type Scheduler struct {
	sender   Sender
	interval time.Duration

	mu       sync.Mutex
	running  bool
	lastTick time.Time
	ticks    int64
}

// Status is a snapshot of the loop for operational health checks.
type Status struct {
	Running  bool
	LastTick time.Time
	Ticks    int64
}

func New(sender Sender, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{sender: sender, interval: interval}
}

func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{Running: s.running, LastTick: s.lastTick, Ticks: s.ticks}
}

func (s *Scheduler) markTick(now time.Time) {
	s.mu.Lock()
	s.lastTick = now
	s.ticks++
	s.mu.Unlock()
}

func (s *Scheduler) setRunning(running bool) {
	s.mu.Lock()
	s.running = running
	s.mu.Unlock()
}

// Run blocks until ctx is canceled. The first tick happens immediately
// so a restart mid-day still evaluates the current minute. Ticks run on
// this single goroutine, which serializes them: if one overruns the
// interval, the ticker drops fires instead of overlapping evaluations.
func (s *Scheduler) Run(ctx context.Context) {
	if err := db.EnsureReminderSchema(); err != nil {
		logger.Error("failed to ensure reminder schema", "error", err)
		return
	}

	s.setRunning(true)
	defer s.setRunning(false)

	now := time.Now().UTC()
	s.markTick(now)
	s.tick(ctx, now)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("reminder scheduler stopping")
			return
		case tickTime := <-ticker.C:
			now := tickTime.UTC()
			s.markTick(now)
			s.tick(ctx, now)
		}
	}
}

// tick evaluates every user against one shared UTC snapshot. A failed
// user load aborts the whole tick; a failed subscription load only
// skips that user. The next tick retries from scratch either way.
func (s *Scheduler) tick(ctx context.Context, utcNow time.Time) {
	users, err := db.GetAllUsers()
	if err != nil {
		logger.Error("failed to load users for reminders", "error", err)
		return
	}

	for _, user := range users {
		subs, err := db.ListSubscriptionsForUser(user.UserID)
		if err != nil {
			logger.Error("failed to load subscriptions for reminders", "user_id", user.UserID, "error", err)
			continue
		}
		if len(subs) == 0 {
			continue
		}
		s.processUser(ctx, user, subs, utcNow)
	}
}

func (s *Scheduler) processUser(ctx context.Context, user db.User, subs []db.Subscription, utcNow time.Time) {
	loc := userLocation(user)
	localNow := utcNow.In(loc)
	dateKey := period.DateKey(utcNow, loc)

	if WeeklyDigestDue(localNow, user.NotifyHour) {
		upcoming := UpcomingWithinWeek(subs, utcNow, loc)
		if len(upcoming) > 0 {
			key := BuildKey(user.UserID, ClassWeekly, ClassWeekly, dateKey)
			if s.claim(key, utcNow) {
				s.send(ctx, user.UserID, weeklyDigestText(upcoming), nil)
			}
		}
	}

	for _, sub := range subs {
		daysUntilDue := period.DaysBetween(utcNow, sub.NextDue, loc)
		offsets := ResolveOffsets(user, sub)

		for _, decision := range EvaluateSubscription(localNow, user.NotifyHour, daysUntilDue, offsets) {
			key := BuildKey(user.UserID, SubscriptionKeyPart(sub.ID), decision.Class, dateKey)
			if !s.claim(key, utcNow) {
				continue
			}
			s.dispatch(ctx, user, sub, decision)
		}
	}
}

func (s *Scheduler) dispatch(ctx context.Context, user db.User, sub db.Subscription, decision Decision) {
	switch decision.Class {
	case ClassMorning:
		s.send(ctx, user.UserID, morningReminderText(sub), nil)
	case ClassEvening:
		keyboard, err := ui.EveningKeyboard(sub.ID)
		if err != nil {
			logger.Error("failed to build evening keyboard", "subscription_id", sub.ID, "error", err)
			return
		}
		s.send(ctx, user.UserID, eveningCheckText(sub), keyboard)
	default:
		s.send(ctx, user.UserID, preReminderText(sub, decision.Offset), nil)
	}
}

// send logs dispatch failures without reverting the ledger claim: a
// failed send counts as attempted, so transient errors cannot turn
// into duplicate spam.
func (s *Scheduler) send(ctx context.Context, chatID int64, text string, keyboard models.ReplyMarkup) {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}
	if _, err := s.sender.SendMessage(ctx, params); err != nil {
		logger.Error("failed to send reminder", "chat_id", chatID, "error", err)
	}
}

func (s *Scheduler) claim(key string, now time.Time) bool {
	claimed, err := db.ClaimReminder(key, now)
	if err != nil {
		logger.Error("failed to claim reminder key", "key", key, "error", err)
		return false
	}
	return claimed
}

// userLocation resolves the user's IANA timezone, degrading to the
// default zone on malformed data rather than dropping the user.
func userLocation(user db.User) *time.Location {
	name := user.TZ
	if name == "" {
		name = db.DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.Error("invalid user timezone", "user_id", user.UserID, "tz", user.TZ, "error", err)
		loc, err = time.LoadLocation(db.DefaultTimezone)
		if err != nil {
			return time.UTC
		}
	}
	return loc
}
