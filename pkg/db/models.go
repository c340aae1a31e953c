// pkg/db/models.go
package db

import (
	"time"

	"gorm.io/datatypes"
)

const (
	DefaultTimezone   = "Europe/Moscow"
	DefaultNotifyHour = 10

	StatusPaid    = "paid"
	StatusSkipped = "skipped"
)

type User struct {
	ID             uint           `gorm:"primaryKey"`
	UserID         int64          `gorm:"uniqueIndex"` // Telegram user id
	TZ             string         `gorm:"not null;default:'Europe/Moscow'"`
	NotifyHour     int            `gorm:"not null;default:10"`
	DefaultOffsets datatypes.JSON `gorm:"not null"` // day counts, e.g. [1,2,3]
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Subscription struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    int64     `gorm:"index;index:idx_user_next_due"`
	Name      string    `gorm:"not null"`
	Amount    float64   `gorm:"not null"`
	Currency  string    `gorm:"not null;default:'RUB'"`
	Period    string    `gorm:"not null;default:'monthly'"`
	NextDue   time.Time `gorm:"type:date;not null;index:idx_user_next_due"`
	Offsets   datatypes.JSON // overrides the user default when set
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SubscriptionEvent is an append-only fact log with log-and-replace
// semantics: at most one row per (subscription, date, status).
type SubscriptionEvent struct {
	ID             uint      `gorm:"primaryKey"`
	SubscriptionID uint      `gorm:"index;uniqueIndex:idx_event_sub_date_status"`
	EventDate      time.Time `gorm:"type:date;not null;uniqueIndex:idx_event_sub_date_status"`
	Status         string    `gorm:"not null;uniqueIndex:idx_event_sub_date_status"`
	CreatedAt      time.Time
}

// ReminderLog is the dedup ledger for outgoing reminders. The key being
// the primary key is what makes Claim atomic across worker processes.
type ReminderLog struct {
	Key    string    `gorm:"primaryKey"`
	SentAt time.Time `gorm:"not null"`
}

func (ReminderLog) TableName() string {
	return "reminder_log"
}
