package handlers

import (
	"context"
	"strings"
	"testing"

	"github.com/smith3v/tg-sub-reminder/pkg/db"
	"github.com/smith3v/tg-sub-reminder/pkg/internal/testutil"
	"github.com/smith3v/tg-sub-reminder/pkg/logger"
)

func TestHandleStartCreatesUserWithDefaults(t *testing.T) {
	testutil.SetupTestDB(t)
	logger.SetLogLevel(logger.ERROR)

	client := newMockClient()
	b := newTestTelegramBot(t, client)
	HandleStart(context.Background(), b, newTestUpdate("/start", 42))

	user, err := db.GetUserByID(42)
	if err != nil || user == nil {
		t.Fatalf("expected user to be created: %v", err)
	}
	if user.TZ != db.DefaultTimezone || user.NotifyHour != db.DefaultNotifyHour {
		t.Fatalf("unexpected defaults: tz=%q hour=%d", user.TZ, user.NotifyHour)
	}

	text := client.lastFieldTo(t, "sendMessage", "text")
	if !strings.Contains(text, "/list") || !strings.Contains(text, "/settings") {
		t.Fatalf("expected command hints in greeting, got %q", text)
	}
}

func TestHandleStartIsIdempotent(t *testing.T) {
	testutil.SetupTestDB(t)
	logger.SetLogLevel(logger.ERROR)

	client := newMockClient()
	b := newTestTelegramBot(t, client)
	HandleStart(context.Background(), b, newTestUpdate("/start", 42))
	HandleStart(context.Background(), b, newTestUpdate("/start", 42))

	var count int64
	if err := db.DB.Model(&db.User{}).Where("user_id = ?", 42).Count(&count).Error; err != nil {
		t.Fatalf("failed to count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one user row, got %d", count)
	}
}

func TestHandleDefaultPointsAtCommands(t *testing.T) {
	testutil.SetupTestDB(t)
	logger.SetLogLevel(logger.ERROR)

	client := newMockClient()
	b := newTestTelegramBot(t, client)
	HandleDefault(context.Background(), b, newTestUpdate("what", 42))

	text := client.lastFieldTo(t, "sendMessage", "text")
	if !strings.Contains(text, "/list") {
		t.Fatalf("unexpected fallback text: %q", text)
	}
}
