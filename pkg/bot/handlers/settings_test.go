package handlers

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/smith3v/tg-sub-reminder/pkg/db"
	"github.com/smith3v/tg-sub-reminder/pkg/internal/testutil"
	"github.com/smith3v/tg-sub-reminder/pkg/logger"
	"github.com/smith3v/tg-sub-reminder/pkg/ui"
)

func TestApplySettingsActionHourWraps(t *testing.T) {
	user := &db.User{NotifyHour: 23}
	updates, changed := ApplySettingsAction(user, ui.SettingsAction{Op: ui.OpHourInc})
	if !changed || updates.NotifyHour == nil || *updates.NotifyHour != 0 {
		t.Fatalf("expected hour to wrap 23 -> 0, got %+v", updates)
	}

	user = &db.User{NotifyHour: 0}
	updates, changed = ApplySettingsAction(user, ui.SettingsAction{Op: ui.OpHourDec})
	if !changed || updates.NotifyHour == nil || *updates.NotifyHour != 23 {
		t.Fatalf("expected hour to wrap 0 -> 23, got %+v", updates)
	}
}

func TestApplySettingsActionOffsetToggle(t *testing.T) {
	user := &db.User{DefaultOffsets: db.EncodeOffsets([]int{1, 3})}

	updates, changed := ApplySettingsAction(user, ui.SettingsAction{Op: ui.OpOffsetToggle, Value: 7})
	if !changed || updates.DefaultOffsets == nil {
		t.Fatalf("expected offsets update, got %+v", updates)
	}
	if got := db.ParseOffsets(*updates.DefaultOffsets); !reflect.DeepEqual(got, []int{1, 3, 7}) {
		t.Fatalf("expected [1 3 7], got %v", got)
	}

	user.DefaultOffsets = *updates.DefaultOffsets
	updates, _ = ApplySettingsAction(user, ui.SettingsAction{Op: ui.OpOffsetToggle, Value: 3})
	if got := db.ParseOffsets(*updates.DefaultOffsets); !reflect.DeepEqual(got, []int{1, 7}) {
		t.Fatalf("expected [1 7], got %v", got)
	}
}

func TestApplySettingsActionTimezoneCycles(t *testing.T) {
	user := &db.User{TZ: TimezoneChoices[0]}
	updates, changed := ApplySettingsAction(user, ui.SettingsAction{Op: ui.OpTimezoneNext})
	if !changed || updates.TZ == nil || *updates.TZ != TimezoneChoices[1] {
		t.Fatalf("expected next timezone %q, got %+v", TimezoneChoices[1], updates)
	}

	user = &db.User{TZ: "Mars/Olympus"}
	updates, _ = ApplySettingsAction(user, ui.SettingsAction{Op: ui.OpTimezoneNext})
	if updates.TZ == nil || *updates.TZ != TimezoneChoices[0] {
		t.Fatalf("expected unknown timezone to reset to %q, got %+v", TimezoneChoices[0], updates)
	}
}

func TestHandleSettingsShowsCurrentValues(t *testing.T) {
	testutil.SetupTestDB(t)
	logger.SetLogLevel(logger.ERROR)

	client := newMockClient()
	b := newTestTelegramBot(t, client)
	HandleSettings(context.Background(), b, newTestUpdate("/settings", 42))

	text := client.lastFieldTo(t, "sendMessage", "text")
	if !strings.Contains(text, "10:00") || !strings.Contains(text, db.DefaultTimezone) {
		t.Fatalf("expected defaults in settings text, got %q", text)
	}
	markup := client.lastFieldTo(t, "sendMessage", "reply_markup")
	if !strings.Contains(markup, ui.SettingsPrefix) {
		t.Fatalf("expected settings keyboard, got %q", markup)
	}
}

func TestHandleSettingsCallbackPersistsHourChange(t *testing.T) {
	testutil.SetupTestDB(t)
	logger.SetLogLevel(logger.ERROR)

	seedUser(t, 42)

	client := newMockClient()
	b := newTestTelegramBot(t, client)
	data, err := ui.BuildHourIncCallback()
	if err != nil {
		t.Fatalf("failed to build callback: %v", err)
	}
	HandleSettingsCallback(context.Background(), b, newTestCallbackUpdate(data, 42, 42, 7))

	user, err := db.GetUserByID(42)
	if err != nil || user == nil {
		t.Fatalf("failed to load user: %v", err)
	}
	if user.NotifyHour != db.DefaultNotifyHour+1 {
		t.Fatalf("expected notify hour %d, got %d", db.DefaultNotifyHour+1, user.NotifyHour)
	}
	if text := client.lastFieldTo(t, "editMessageText", "text"); !strings.Contains(text, "11:00") {
		t.Fatalf("expected refreshed settings text, got %q", text)
	}
}

func TestHandleSettingsCallbackClose(t *testing.T) {
	testutil.SetupTestDB(t)
	logger.SetLogLevel(logger.ERROR)

	seedUser(t, 42)

	client := newMockClient()
	b := newTestTelegramBot(t, client)
	data, err := ui.BuildSettingsCloseCallback()
	if err != nil {
		t.Fatalf("failed to build callback: %v", err)
	}
	HandleSettingsCallback(context.Background(), b, newTestCallbackUpdate(data, 42, 42, 7))

	if text := client.lastFieldTo(t, "editMessageText", "text"); !strings.Contains(text, "Settings saved") {
		t.Fatalf("unexpected close text: %q", text)
	}
}
