package db

import (
	"context"
	"time"

	"github.com/smith3v/tg-sub-reminder/pkg/logger"
	"gorm.io/gorm/clause"
)

const LedgerPurgeInterval = 24 * time.Hour

// EnsureReminderSchema makes the ledger table exist. Idempotent; the
// scheduler calls it once at startup.
func EnsureReminderSchema() error {
	return DB.AutoMigrate(&ReminderLog{})
}

// ClaimReminder records key if it has never been claimed and reports
// whether this caller won. The conflict-tolerant insert makes the claim
// atomic at the storage level, so concurrent worker processes polling
// the same database cannot both win the same key.
func ClaimReminder(key string, now time.Time) (bool, error) {
	res := DB.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&ReminderLog{Key: key, SentAt: now})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// PurgeReminderLog removes ledger entries older than the retention
// window. Safe to run concurrently with claims.
func PurgeReminderLog(retentionDays int, now time.Time) (int64, error) {
	if DB == nil || retentionDays <= 0 {
		return 0, nil
	}
	cutoff := now.AddDate(0, 0, -retentionDays)
	res := DB.Where("sent_at < ?", cutoff).Delete(&ReminderLog{})
	return res.RowsAffected, res.Error
}

// StartLedgerPurge runs the retention sweep on a slow cadence until ctx
// is canceled.
func StartLedgerPurge(ctx context.Context, interval time.Duration, retentionDays int) {
	if interval <= 0 {
		interval = LedgerPurgeInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := PurgeReminderLog(retentionDays, time.Now().UTC())
			if err != nil {
				logger.Error("failed to purge reminder log", "error", err)
				continue
			}
			if purged > 0 {
				logger.Info("purged reminder log entries", "count", purged)
			}
		}
	}
}
