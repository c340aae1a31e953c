package db

import (
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultOffsetDays is applied when a user is created without an
// explicit reminder preference.
var DefaultOffsetDays = []int{1, 2, 3}

func GetUserByID(userID int64) (*User, error) {
	var user User
	if err := DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func GetAllUsers() ([]User, error) {
	var users []User
	if err := DB.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// EnsureUser returns the existing user or creates one with defaults.
func EnsureUser(userID int64) (*User, error) {
	existing, err := GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	user := User{
		UserID:         userID,
		TZ:             DefaultTimezone,
		NotifyHour:     DefaultNotifyHour,
		DefaultOffsets: EncodeOffsets(DefaultOffsetDays),
	}
	if err := DB.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

type UserUpdates struct {
	TZ             *string
	NotifyHour     *int
	DefaultOffsets *datatypes.JSON
}

// UpdateUser applies a partial update and returns the fresh row.
func UpdateUser(userID int64, updates UserUpdates) (*User, error) {
	fields := map[string]interface{}{}
	if updates.TZ != nil {
		fields["tz"] = *updates.TZ
	}
	if updates.NotifyHour != nil {
		fields["notify_hour"] = *updates.NotifyHour
	}
	if updates.DefaultOffsets != nil {
		fields["default_offsets"] = *updates.DefaultOffsets
	}
	if len(fields) == 0 {
		return GetUserByID(userID)
	}

	if err := DB.Model(&User{}).Where("user_id = ?", userID).Updates(fields).Error; err != nil {
		return nil, err
	}
	return GetUserByID(userID)
}
