// pkg/db/repository.go
package db

import (
	"strconv"

	"github.com/smith3v/tg-sub-reminder/pkg/config"
	"github.com/smith3v/tg-sub-reminder/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Export DB variable
var DB *gorm.DB

func InitDB(cfg config.DatabaseConfig) error {
	var err error
	dsn := "host=" + cfg.Host +
		" user=" + cfg.User +
		" password=" + cfg.Password +
		" dbname=" + cfg.DBName +
		" port=" + strconv.Itoa(cfg.Port) +
		" sslmode=" + cfg.SSLMode
	gormLogger, gormErr := newGormLogger(config.AppConfig.Logging.GormLevel)
	if gormErr != nil {
		logger.Error("invalid gorm log level", "value", config.AppConfig.Logging.GormLevel, "error", gormErr)
	}
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return err
	}
	if err := DB.AutoMigrate(&User{}, &Subscription{}, &SubscriptionEvent{}, &ReminderLog{}); err != nil {
		logger.Error("failed to auto-migrate database", "error", err)
		return err
	}
	if err := migrateOffsetEncoding(DB); err != nil {
		logger.Error("failed to migrate reminder offset encoding", "error", err)
		return err
	}
	return nil
}

// migrateOffsetEncoding rewrites legacy "T-N" string arrays into plain
// integer arrays. Runtime code only understands the integer form.
func migrateOffsetEncoding(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	var users []User
	if err := db.Find(&users).Error; err != nil {
		return err
	}
	for _, user := range users {
		migrated, changed := MigrateLegacyOffsets(user.DefaultOffsets)
		if !changed {
			continue
		}
		if err := db.Model(&User{}).Where("id = ?", user.ID).
			Update("default_offsets", migrated).Error; err != nil {
			return err
		}
	}

	var subs []Subscription
	if err := db.Where("offsets IS NOT NULL").Find(&subs).Error; err != nil {
		return err
	}
	for _, sub := range subs {
		migrated, changed := MigrateLegacyOffsets(sub.Offsets)
		if !changed {
			continue
		}
		if err := db.Model(&Subscription{}).Where("id = ?", sub.ID).
			Update("offsets", migrated).Error; err != nil {
			return err
		}
	}
	return nil
}
