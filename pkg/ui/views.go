package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot/models"
)

// EveningKeyboard offers the due-today confirmation actions.
func EveningKeyboard(subscriptionID uint) (*models.InlineKeyboardMarkup, error) {
	payData, err := BuildMarkPaidCallback(subscriptionID)
	if err != nil {
		return nil, err
	}
	snoozeData, err := BuildSnoozePromptCallback(subscriptionID)
	if err != nil {
		return nil, err
	}
	skipData, err := BuildSkipCycleCallback(subscriptionID)
	if err != nil {
		return nil, err
	}

	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "Paid", CallbackData: payData},
				{Text: "Snooze", CallbackData: snoozeData},
			},
			{
				{Text: "Skip cycle", CallbackData: skipData},
			},
		},
	}, nil
}

// SnoozeKeyboard offers the preset day choices plus a cancel row.
func SnoozeKeyboard(subscriptionID uint) (*models.InlineKeyboardMarkup, error) {
	row := make([]models.InlineKeyboardButton, 0, len(SnoozePresets))
	for _, days := range SnoozePresets {
		data, err := BuildSnoozeDaysCallback(subscriptionID, days)
		if err != nil {
			return nil, err
		}
		row = append(row, models.InlineKeyboardButton{
			Text:         strconv.Itoa(days),
			CallbackData: data,
		})
	}
	cancelData, err := BuildCancelCallback()
	if err != nil {
		return nil, err
	}

	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			row,
			{{Text: "Cancel", CallbackData: cancelData}},
		},
	}, nil
}

// RenderSettingsHome builds the settings screen for a user.
func RenderSettingsHome(notifyHour int, tz string, defaultOffsets []int) (string, *models.InlineKeyboardMarkup, error) {
	decData, err := BuildHourDecCallback()
	if err != nil {
		return "", nil, err
	}
	incData, err := BuildHourIncCallback()
	if err != nil {
		return "", nil, err
	}
	tzData, err := BuildTimezoneNextCallback()
	if err != nil {
		return "", nil, err
	}
	closeData, err := BuildSettingsCloseCallback()
	if err != nil {
		return "", nil, err
	}

	offsetRow := make([]models.InlineKeyboardButton, 0, len(OffsetChoices))
	enabled := make(map[int]bool, len(defaultOffsets))
	for _, days := range defaultOffsets {
		enabled[days] = true
	}
	for _, days := range OffsetChoices {
		data, err := BuildOffsetToggleCallback(days)
		if err != nil {
			return "", nil, err
		}
		label := fmt.Sprintf("T-%d", days)
		if enabled[days] {
			label = "✓ " + label
		}
		offsetRow = append(offsetRow, models.InlineKeyboardButton{
			Text:         label,
			CallbackData: data,
		})
	}

	text := fmt.Sprintf(
		"Settings\n- Notify hour: %02d:00\n- Timezone: %s\n- Default reminders: %s",
		notifyHour,
		tz,
		formatOffsetSummary(defaultOffsets),
	)

	keyboard := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "−1h", CallbackData: decData},
				{Text: "+1h", CallbackData: incData},
			},
			offsetRow,
			{
				{Text: "Timezone", CallbackData: tzData},
				{Text: "Close", CallbackData: closeData},
			},
		},
	}

	return text, keyboard, nil
}

func formatOffsetSummary(offsets []int) string {
	if len(offsets) == 0 {
		return "off"
	}
	parts := make([]string, 0, len(offsets))
	for _, days := range offsets {
		parts = append(parts, fmt.Sprintf("%d %s before", days, dayWord(days)))
	}
	return strings.Join(parts, ", ")
}

func dayWord(days int) string {
	if days == 1 {
		return "day"
	}
	return "days"
}
