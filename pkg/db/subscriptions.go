package db

import (
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func CreateSubscription(sub *Subscription) error {
	return DB.Create(sub).Error
}

func GetSubscriptionByID(id uint) (*Subscription, error) {
	var sub Subscription
	if err := DB.First(&sub, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func ListSubscriptionsForUser(userID int64) ([]Subscription, error) {
	var subs []Subscription
	if err := DB.Where("user_id = ?", userID).
		Order("next_due ASC, lower(name) ASC").
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

type SubscriptionUpdates struct {
	Name     *string
	Amount   *float64
	Currency *string
	Period   *string
	NextDue  *time.Time
	Offsets  *datatypes.JSON
	Notes    *string
}

// UpdateSubscription applies a partial update and returns the fresh row.
func UpdateSubscription(id uint, updates SubscriptionUpdates) (*Subscription, error) {
	fields := map[string]interface{}{}
	if updates.Name != nil {
		fields["name"] = *updates.Name
	}
	if updates.Amount != nil {
		fields["amount"] = *updates.Amount
	}
	if updates.Currency != nil {
		fields["currency"] = *updates.Currency
	}
	if updates.Period != nil {
		fields["period"] = *updates.Period
	}
	if updates.NextDue != nil {
		fields["next_due"] = *updates.NextDue
	}
	if updates.Offsets != nil {
		fields["offsets"] = *updates.Offsets
	}
	if updates.Notes != nil {
		fields["notes"] = *updates.Notes
	}
	if len(fields) == 0 {
		return GetSubscriptionByID(id)
	}

	if err := DB.Model(&Subscription{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return nil, err
	}
	return GetSubscriptionByID(id)
}

// ShiftNextDue moves the due date without touching anything else. The
// user id guards against shifting another user's subscription.
func ShiftNextDue(id uint, userID int64, nextDue time.Time) (*Subscription, error) {
	res := DB.Model(&Subscription{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("next_due", nextDue)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return GetSubscriptionByID(id)
}

func DeleteSubscription(id uint, userID int64) (bool, error) {
	res := DB.Where("id = ? AND user_id = ?", id, userID).Delete(&Subscription{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
