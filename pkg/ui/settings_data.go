package ui

import (
	"strconv"
	"strings"
)

type Screen string

const (
	ScreenHome  Screen = "home"
	ScreenClose Screen = "close"
)

type SettingsOp string

const (
	OpNone         SettingsOp = ""
	OpHourInc      SettingsOp = "hour+"
	OpHourDec      SettingsOp = "hour-"
	OpOffsetToggle SettingsOp = "off"
	OpTimezoneNext SettingsOp = "tz"
)

// SettingsAction is a decoded "s:" button press.
type SettingsAction struct {
	Screen Screen
	Op     SettingsOp
	Value  int
}

// OffsetChoices are the day offsets a user can toggle as defaults.
var OffsetChoices = []int{1, 2, 3, 7}

func BuildSettingsHomeCallback() (string, error) {
	return validateCallbackData(SettingsPrefix + string(ScreenHome))
}

func BuildSettingsCloseCallback() (string, error) {
	return validateCallbackData(SettingsPrefix + string(ScreenClose))
}

func BuildHourIncCallback() (string, error) {
	return validateCallbackData(SettingsPrefix + string(OpHourInc))
}

func BuildHourDecCallback() (string, error) {
	return validateCallbackData(SettingsPrefix + string(OpHourDec))
}

func BuildTimezoneNextCallback() (string, error) {
	return validateCallbackData(SettingsPrefix + string(OpTimezoneNext))
}

func BuildOffsetToggleCallback(days int) (string, error) {
	if !isOffsetChoice(days) {
		return "", errInvalidValue
	}
	return validateCallbackData(SettingsPrefix + string(OpOffsetToggle) + ":" + strconv.Itoa(days))
}

// ParseSettingsCallback decodes "s:" callback data.
func ParseSettingsCallback(data string) (SettingsAction, error) {
	if data == "" {
		return SettingsAction{}, errInvalidAction
	}
	if len(data) > MaxCallbackDataLen {
		return SettingsAction{}, errCallbackDataTooLong
	}
	if !strings.HasPrefix(data, SettingsPrefix) {
		return SettingsAction{}, errInvalidPrefix
	}

	parts := strings.Split(data, ":")
	switch len(parts) {
	case 2:
		switch parts[1] {
		case string(ScreenHome):
			return SettingsAction{Screen: ScreenHome}, nil
		case string(ScreenClose):
			return SettingsAction{Screen: ScreenClose}, nil
		case string(OpHourInc):
			return SettingsAction{Op: OpHourInc}, nil
		case string(OpHourDec):
			return SettingsAction{Op: OpHourDec}, nil
		case string(OpTimezoneNext):
			return SettingsAction{Op: OpTimezoneNext}, nil
		default:
			return SettingsAction{}, errInvalidAction
		}
	case 3:
		if parts[1] != string(OpOffsetToggle) {
			return SettingsAction{}, errInvalidAction
		}
		if !isASCIIUnsignedInt(parts[2]) {
			return SettingsAction{}, errInvalidValue
		}
		days, err := strconv.Atoi(parts[2])
		if err != nil || !isOffsetChoice(days) {
			return SettingsAction{}, errInvalidValue
		}
		return SettingsAction{Op: OpOffsetToggle, Value: days}, nil
	default:
		return SettingsAction{}, errInvalidAction
	}
}

func isOffsetChoice(days int) bool {
	for _, choice := range OffsetChoices {
		if days == choice {
			return true
		}
	}
	return false
}
