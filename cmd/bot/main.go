package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/practice_calendar/internal/app"
	"github.com/Freeeeeet/practice_calendar/internal/calendar"
	"github.com/Freeeeeet/practice_calendar/internal/client"
	"github.com/Freeeeeet/practice_calendar/internal/config"
	"github.com/Freeeeeet/practice_calendar/internal/controller"
	"github.com/Freeeeeet/practice_calendar/internal/formatting"
	"github.com/Freeeeeet/practice_calendar/internal/notify"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

// reloadInterval - как часто бот перечитывает открытую неделю из хранилища
const reloadInterval = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireBot(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, "bot")
	defer logger.Sync()

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("Invalid timezone", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	storeCfg := client.Config{BaseURL: cfg.StoreURL, Timeout: cfg.HTTPTimeout}
	week := calendar.New(calendar.Options{
		Store:          client.NewSessionClient(storeCfg),
		Directory:      client.NewDirectoryClient(storeCfg),
		User:           client.StaticUser(cfg.PsychologistID),
		Reporter:       notify.NewTelegramReporter(b, cfg.TelegramChatID, logger),
		Location:       loc,
		Logger:         logger,
		PsychologistID: cfg.PsychologistID,
	})

	start := formatting.WeekStart(time.Now().In(loc))
	if err := week.Load(ctx, start.Format("2006-01-02"), start.AddDate(0, 0, 6).Format("2006-01-02")); err != nil {
		logger.Warn("Initial week load failed", zap.Error(err))
	}

	reloader := app.NewScheduler("calendar-reload", reloadInterval, week.Reload, logger)
	reloader.Start(ctx)
	defer reloader.Stop()

	botController := controller.NewBotController(b, week, loc, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Warn("Bot commands menu was not set", zap.Error(err))
	}

	logger.Info("Starting practice calendar bot",
		zap.String("environment", cfg.Environment),
		zap.String("store_url", cfg.StoreURL),
		zap.String("psychologist_id", cfg.PsychologistID),
	)
	botController.Start(ctx)
}
