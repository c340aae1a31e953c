package db

import (
	"reflect"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	if err := gdb.AutoMigrate(&User{}, &Subscription{}, &SubscriptionEvent{}, &ReminderLog{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	DB = gdb

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to access underlying DB: %v", err)
	}
	t.Cleanup(func() {
		if err := sqlDB.Close(); err != nil {
			t.Fatalf("failed to close database: %v", err)
		}
		DB = nil
	})
}

func TestMigrateOffsetEncoding(t *testing.T) {
	setupDB(t)

	legacyUser := User{
		UserID:         1,
		TZ:             DefaultTimezone,
		NotifyHour:     10,
		DefaultOffsets: datatypes.JSON(`["T-3","T-1","T0"]`),
	}
	if err := DB.Create(&legacyUser).Error; err != nil {
		t.Fatalf("failed to create legacy user: %v", err)
	}

	modernUser := User{
		UserID:         2,
		TZ:             DefaultTimezone,
		NotifyHour:     10,
		DefaultOffsets: EncodeOffsets([]int{1, 2}),
	}
	if err := DB.Create(&modernUser).Error; err != nil {
		t.Fatalf("failed to create modern user: %v", err)
	}

	legacySub := Subscription{
		UserID:  1,
		Name:    "Netflix",
		Amount:  9.99,
		Period:  "monthly",
		NextDue: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		Offsets: datatypes.JSON(`["T-7"]`),
	}
	if err := DB.Create(&legacySub).Error; err != nil {
		t.Fatalf("failed to create legacy subscription: %v", err)
	}

	if err := migrateOffsetEncoding(DB); err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	var reloaded User
	if err := DB.Where("user_id = ?", 1).First(&reloaded).Error; err != nil {
		t.Fatalf("failed to reload legacy user: %v", err)
	}
	if got := ParseOffsets(reloaded.DefaultOffsets); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Fatalf("expected migrated offsets [1 3], got %v", got)
	}

	var untouched User
	if err := DB.Where("user_id = ?", 2).First(&untouched).Error; err != nil {
		t.Fatalf("failed to reload modern user: %v", err)
	}
	if got := ParseOffsets(untouched.DefaultOffsets); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("modern offsets should be untouched, got %v", got)
	}

	var sub Subscription
	if err := DB.First(&sub, legacySub.ID).Error; err != nil {
		t.Fatalf("failed to reload subscription: %v", err)
	}
	if got := ParseOffsets(sub.Offsets); !reflect.DeepEqual(got, []int{7}) {
		t.Fatalf("expected migrated subscription offsets [7], got %v", got)
	}
}
