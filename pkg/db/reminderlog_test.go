package db

import (
	"testing"
	"time"
)

func TestClaimReminderFirstWriterWins(t *testing.T) {
	setupDB(t)

	first := time.Date(2025, time.January, 6, 10, 0, 0, 0, time.UTC)
	claimed, err := ClaimReminder("42|7|morning|2025-01-06", first)
	if err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	if !claimed {
		t.Fatal("expected first claim to win")
	}

	second := first.Add(time.Minute)
	claimed, err = ClaimReminder("42|7|morning|2025-01-06", second)
	if err != nil {
		t.Fatalf("second claim failed: %v", err)
	}
	if claimed {
		t.Fatal("expected second claim to lose")
	}

	var entry ReminderLog
	if err := DB.First(&entry, "key = ?", "42|7|morning|2025-01-06").Error; err != nil {
		t.Fatalf("failed to load ledger entry: %v", err)
	}
	if !entry.SentAt.Equal(first) {
		t.Fatalf("losing claim must not alter sent_at: got %v want %v", entry.SentAt, first)
	}
}

func TestClaimReminderDistinctKeys(t *testing.T) {
	setupDB(t)

	now := time.Now().UTC()
	for _, key := range []string{
		"42|7|pre-3|2025-01-03",
		"42|7|morning|2025-01-06",
		"42|weekly|weekly|2025-01-06",
	} {
		claimed, err := ClaimReminder(key, now)
		if err != nil {
			t.Fatalf("claim %q failed: %v", key, err)
		}
		if !claimed {
			t.Fatalf("expected claim %q to win", key)
		}
	}
}

func TestPurgeReminderLog(t *testing.T) {
	setupDB(t)

	now := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	old := ReminderLog{Key: "old", SentAt: now.AddDate(0, 0, -40)}
	fresh := ReminderLog{Key: "fresh", SentAt: now.AddDate(0, 0, -5)}
	if err := DB.Create(&old).Error; err != nil {
		t.Fatalf("failed to seed old entry: %v", err)
	}
	if err := DB.Create(&fresh).Error; err != nil {
		t.Fatalf("failed to seed fresh entry: %v", err)
	}

	purged, err := PurgeReminderLog(30, now)
	if err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if purged != 1 {
		t.Fatalf("expected 1 purged entry, got %d", purged)
	}

	var count int64
	if err := DB.Model(&ReminderLog{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count entries: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 remaining entry, got %d", count)
	}
}
