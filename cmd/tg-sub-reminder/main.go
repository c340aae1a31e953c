package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/go-telegram/bot"
	"github.com/smith3v/tg-sub-reminder/pkg/bot/handlers"
	"github.com/smith3v/tg-sub-reminder/pkg/bot/reminders"
	"github.com/smith3v/tg-sub-reminder/pkg/config"
	"github.com/smith3v/tg-sub-reminder/pkg/db"
	"github.com/smith3v/tg-sub-reminder/pkg/logger"
	"github.com/smith3v/tg-sub-reminder/pkg/ui"
)

func main() {
	if err := config.LoadConfig("config.json"); err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := logger.Configure(logger.Options{
		Level: config.AppConfig.Logging.Level,
		File:  config.AppConfig.Logging.File,
	}); err != nil {
		logger.Error("failed to configure logger", "error", err)
	}

	if err := db.InitDB(config.AppConfig.Database); err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	opts := []bot.Option{
		bot.WithDefaultHandler(handlers.HandleDefault),
	}
	b, err := bot.New(config.AppConfig.Telegram.Token, opts...)
	if err != nil {
		logger.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, handlers.HandleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/list", bot.MatchTypeExact, handlers.HandleList)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/settings", bot.MatchTypeExact, handlers.HandleSettings)
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, ui.ReminderPrefix, bot.MatchTypePrefix, handlers.HandleReminderCallback)
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, ui.SettingsPrefix, bot.MatchTypePrefix, handlers.HandleSettingsCallback)

	interval := time.Duration(config.AppConfig.Scheduler.IntervalSeconds) * time.Second
	scheduler := reminders.New(b, interval)
	go scheduler.Run(ctx)
	go db.StartLedgerPurge(ctx, 24*time.Hour, config.AppConfig.Scheduler.LedgerRetentionDays)

	logger.Info("Starting bot...")
	b.Start(ctx)
}
