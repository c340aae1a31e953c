package config

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/smith3v/tg-sub-reminder/pkg/logger"
)

type Config struct {
	Database  DatabaseConfig  `json:"database"`
	Telegram  TelegramConfig  `json:"telegram"`
	Logging   LoggingConfig   `json:"logging"`
	Scheduler SchedulerConfig `json:"scheduler"`
}

type DatabaseConfig struct {
	Host     string `json:"host"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	Port     int    `json:"port"`
	SSLMode  string `json:"sslmode"`
}

type TelegramConfig struct {
	Token string `json:"token"`
}

type LoggingConfig struct {
	Level     string `json:"level"`
	File      string `json:"file"`
	GormLevel string `json:"gorm_level"`
}

type SchedulerConfig struct {
	IntervalSeconds     int `json:"interval_seconds"`
	LedgerRetentionDays int `json:"ledger_retention_days"`
}

const (
	DefaultIntervalSeconds     = 60
	DefaultLedgerRetentionDays = 30
)

// ErrMissingToken is fatal at startup: the bot cannot run without it.
var ErrMissingToken = errors.New("telegram token is missing")

var AppConfig Config

func LoadConfig(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		logger.Error("failed to open config file", "error", err)
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&AppConfig); err != nil {
		logger.Error("failed to decode config file", "error", err)
		return err
	}

	if AppConfig.Scheduler.IntervalSeconds <= 0 {
		AppConfig.Scheduler.IntervalSeconds = DefaultIntervalSeconds
	}
	if AppConfig.Scheduler.LedgerRetentionDays <= 0 {
		AppConfig.Scheduler.LedgerRetentionDays = DefaultLedgerRetentionDays
	}

	if AppConfig.Telegram.Token == "" {
		return ErrMissingToken
	}

	return nil
}
