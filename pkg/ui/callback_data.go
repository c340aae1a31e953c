package ui

import (
	"errors"
	"strconv"
	"strings"
)

const (
	ReminderPrefix     = "r:"
	SettingsPrefix     = "s:"
	MaxCallbackDataLen = 64

	MinSnoozeDays = 1
	MaxSnoozeDays = 30
)

// SnoozePresets are the quick choices offered on the snooze prompt.
var SnoozePresets = []int{1, 2, 3, 7}

type Kind string

const (
	KindMarkPaid     Kind = "pay"
	KindSkipCycle    Kind = "skip"
	KindSnoozePrompt Kind = "snooze"
	KindSnoozeDays   Kind = "snooze_days"
	KindCancel       Kind = "cancel"
)

// Action is a reminder button press decoded once at the boundary.
type Action struct {
	Kind           Kind
	SubscriptionID uint
	Days           int
}

var (
	errInvalidPrefix       = errors.New("invalid callback prefix")
	errInvalidAction       = errors.New("invalid callback action")
	errInvalidValue        = errors.New("invalid callback value")
	errCallbackDataTooLong = errors.New("callback data too long")
)

func BuildMarkPaidCallback(subscriptionID uint) (string, error) {
	return buildSubscriptionCallback("pay", subscriptionID)
}

func BuildSkipCycleCallback(subscriptionID uint) (string, error) {
	return buildSubscriptionCallback("skip", subscriptionID)
}

func BuildSnoozePromptCallback(subscriptionID uint) (string, error) {
	return buildSubscriptionCallback("snooze", subscriptionID)
}

func BuildSnoozeDaysCallback(subscriptionID uint, days int) (string, error) {
	if days < MinSnoozeDays || days > MaxSnoozeDays {
		return "", errInvalidValue
	}
	data := ReminderPrefix + "snooze:" + strconv.FormatUint(uint64(subscriptionID), 10) +
		":" + strconv.Itoa(days)
	return validateCallbackData(data)
}

func BuildCancelCallback() (string, error) {
	return validateCallbackData(ReminderPrefix + "cancel")
}

func buildSubscriptionCallback(verb string, subscriptionID uint) (string, error) {
	if subscriptionID == 0 {
		return "", errInvalidValue
	}
	data := ReminderPrefix + verb + ":" + strconv.FormatUint(uint64(subscriptionID), 10)
	return validateCallbackData(data)
}

// ParseReminderCallback decodes "r:" callback data into an Action.
func ParseReminderCallback(data string) (Action, error) {
	if data == "" {
		return Action{}, errInvalidAction
	}
	if len(data) > MaxCallbackDataLen {
		return Action{}, errCallbackDataTooLong
	}
	if !strings.HasPrefix(data, ReminderPrefix) {
		return Action{}, errInvalidPrefix
	}

	parts := strings.Split(data, ":")
	switch {
	case len(parts) == 2 && parts[1] == "cancel":
		return Action{Kind: KindCancel}, nil
	case len(parts) == 3:
		id, err := parseSubscriptionID(parts[2])
		if err != nil {
			return Action{}, err
		}
		switch parts[1] {
		case "pay":
			return Action{Kind: KindMarkPaid, SubscriptionID: id}, nil
		case "skip":
			return Action{Kind: KindSkipCycle, SubscriptionID: id}, nil
		case "snooze":
			return Action{Kind: KindSnoozePrompt, SubscriptionID: id}, nil
		default:
			return Action{}, errInvalidAction
		}
	case len(parts) == 4 && parts[1] == "snooze":
		id, err := parseSubscriptionID(parts[2])
		if err != nil {
			return Action{}, err
		}
		days, err := parseDays(parts[3])
		if err != nil {
			return Action{}, err
		}
		return Action{Kind: KindSnoozeDays, SubscriptionID: id, Days: days}, nil
	default:
		return Action{}, errInvalidAction
	}
}

func parseSubscriptionID(value string) (uint, error) {
	if !isASCIIUnsignedInt(value) {
		return 0, errInvalidValue
	}
	id, err := strconv.ParseUint(value, 10, 32)
	if err != nil || id == 0 {
		return 0, errInvalidValue
	}
	return uint(id), nil
}

func parseDays(value string) (int, error) {
	if !isASCIIUnsignedInt(value) {
		return 0, errInvalidValue
	}
	days, err := strconv.Atoi(value)
	if err != nil || days < MinSnoozeDays || days > MaxSnoozeDays {
		return 0, errInvalidValue
	}
	return days, nil
}

func validateCallbackData(data string) (string, error) {
	if data == "" {
		return "", errInvalidAction
	}
	if len(data) > MaxCallbackDataLen {
		return "", errCallbackDataTooLong
	}
	return data, nil
}

func isASCIIUnsignedInt(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}
