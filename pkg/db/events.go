package db

import (
	"time"

	"gorm.io/gorm"
)

// LogSubscriptionEvent records a paid/skipped fact with log-and-replace
// semantics: any existing row for the same (subscription, date, status)
// tuple is replaced, not accumulated.
func LogSubscriptionEvent(subscriptionID uint, eventDate time.Time, status string) error {
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(
			"subscription_id = ? AND event_date = ? AND status = ?",
			subscriptionID, eventDate, status,
		).Delete(&SubscriptionEvent{}).Error; err != nil {
			return err
		}
		return tx.Create(&SubscriptionEvent{
			SubscriptionID: subscriptionID,
			EventDate:      eventDate,
			Status:         status,
		}).Error
	})
}

// GetLatestPaidEvents returns paid events since fromDate for the given
// subscriptions, newest first within each subscription.
func GetLatestPaidEvents(subscriptionIDs []uint, fromDate time.Time) ([]SubscriptionEvent, error) {
	if len(subscriptionIDs) == 0 {
		return nil, nil
	}
	var events []SubscriptionEvent
	if err := DB.Where(
		"subscription_id IN ? AND status = ? AND event_date >= ?",
		subscriptionIDs, StatusPaid, fromDate,
	).Order("subscription_id ASC, event_date DESC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
